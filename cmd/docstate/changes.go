package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/docstate/internal/engine/change"
)

func newApplyCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "apply <file> <changes.json>",
		Short: "Apply a change set to a document",
		Long: `Apply reads a document and a change set in JSON form and prints the
resulting document. Either argument may be "-" to read standard input.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := a.readDoc(args[0])
			if err != nil {
				return err
			}
			cs, err := a.readChangeSet(args[1])
			if err != nil {
				return err
			}
			result, err := cs.Apply(doc)
			if err != nil {
				return err
			}
			a.logger.Info("applied change set",
				slog.Int("from", doc.Len()), slog.Int("to", result.Len()))
			return a.writeDoc(result, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Print the change set turning one file into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			before, err := a.readDoc(args[0])
			if err != nil {
				return err
			}
			after, err := a.readDoc(args[1])
			if err != nil {
				return err
			}
			return a.writeChangeSet(change.Diff(before, after))
		},
	}
}

func newComposeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compose <changes.json>...",
		Short: "Compose change sets applied one after another",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			result, err := a.readChangeSet(args[0])
			if err != nil {
				return err
			}
			for _, path := range args[1:] {
				next, err := a.readChangeSet(path)
				if err != nil {
					return err
				}
				if next.Len() != result.NewLen() {
					return fmt.Errorf("%s: expects a document of length %d, got %d: %w",
						path, next.Len(), result.NewLen(), change.ErrLengthMismatch)
				}
				result = result.Compose(next)
			}
			return a.writeChangeSet(result)
		},
	}
}

func newMapCmd(a *app) *cobra.Command {
	var before bool
	cmd := &cobra.Command{
		Use:   "map <changes.json> <over.json>",
		Short: "Rebase a change set over a concurrent one",
		Long: `Map rewrites the first change set so it applies after the second. Both
must start from the same document. Insertions at the same position go after
the other change's insertions unless --before is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			cs, err := a.readChangeSet(args[0])
			if err != nil {
				return err
			}
			over, err := a.readChangeSet(args[1])
			if err != nil {
				return err
			}
			if cs.Len() != over.Len() {
				return fmt.Errorf("change sets start from lengths %d and %d: %w",
					cs.Len(), over.Len(), change.ErrLengthMismatch)
			}
			return a.writeChangeSet(cs.Map(over.Desc(), before))
		},
	}
	cmd.Flags().BoolVar(&before, "before", false, "place insertions before the other change's insertions at the same position")
	return cmd
}

func newInvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invert <file> <changes.json>",
		Short: "Print the change set undoing a change to a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := a.readDoc(args[0])
			if err != nil {
				return err
			}
			cs, err := a.readChangeSet(args[1])
			if err != nil {
				return err
			}
			if cs.Len() != doc.Len() {
				return fmt.Errorf("change set expects length %d, document has %d: %w",
					cs.Len(), doc.Len(), change.ErrLengthMismatch)
			}
			return a.writeChangeSet(cs.Invert(doc))
		},
	}
}
