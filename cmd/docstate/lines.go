package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/docstate/internal/engine/text"
)

func newLinesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lines <file> [first [last]]",
		Short: "Show lines with their byte offsets and display widths",
		Long: `Lines prints each line in [first, last] (1-based, inclusive) with its
number, byte range and display width. Widths expand tabs to the configured
tab size and count wide characters as two columns.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := a.readDoc(args[0])
			if err != nil {
				return err
			}
			first, last := 1, doc.Lines()
			if len(args) > 1 {
				if first, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("first line: %w", err)
				}
				last = first
			}
			if len(args) > 2 {
				if last, err = strconv.Atoi(args[2]); err != nil {
					return fmt.Errorf("last line: %w", err)
				}
			}
			if first < 1 || last > doc.Lines() || first > last {
				return fmt.Errorf("lines %d-%d outside 1-%d: %w", first, last, doc.Lines(), text.ErrOutOfRange)
			}
			return a.writeLines(doc, first, last)
		},
	}
}

func (a *app) writeLines(doc *text.Text, first, last int) error {
	out := []byte("[]")
	for n := first; n <= last; n++ {
		line, err := doc.Line(n)
		if err != nil {
			return err
		}
		width := text.CountColumn(line.Text, a.cfg.Text.TabSize, line.Len())

		if a.cfg.Output.Format != "json" {
			fmt.Fprintf(a.stdout, "%6d %8d-%-8d %4d  %s\n", line.Number, line.From, line.To, width, line.Text)
			continue
		}
		out, err = sjson.SetBytes(out, "-1", map[string]any{
			"number":  line.Number,
			"from":    line.From,
			"to":      line.To,
			"columns": width,
			"text":    line.Text,
		})
		if err != nil {
			return err
		}
	}
	if a.cfg.Output.Format != "json" {
		return nil
	}
	return a.writeJSON(out)
}
