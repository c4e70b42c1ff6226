package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tidwall/pretty"

	"github.com/dshills/docstate/internal/engine/change"
	"github.com/dshills/docstate/internal/engine/text"
)

// readInput reads path, or standard input when path is "-".
func (a *app) readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (a *app) readDoc(path string) (*text.Text, error) {
	data, err := a.readInput(path)
	if err != nil {
		return nil, err
	}
	return text.FromString(string(data), ""), nil
}

func (a *app) readChangeSet(path string) (change.ChangeSet, error) {
	data, err := a.readInput(path)
	if err != nil {
		return change.ChangeSet{}, err
	}
	cs, err := change.FromJSON(data)
	if err != nil {
		return change.ChangeSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return cs, nil
}

// docString joins doc with the configured line separator.
func (a *app) docString(doc *text.Text) string {
	return doc.SliceString(0, doc.Len(), a.cfg.Text.LineSeparator)
}

// writeDoc writes doc to path, or to standard output when path is empty.
func (a *app) writeDoc(doc *text.Text, path string) error {
	s := a.docString(doc)
	if path == "" {
		_, err := io.WriteString(a.stdout, s)
		return err
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeChangeSet prints cs as JSON or in the compact section notation.
func (a *app) writeChangeSet(cs change.ChangeSet) error {
	if a.cfg.Output.Format != "json" {
		_, err := fmt.Fprintln(a.stdout, cs.String())
		return err
	}
	data, err := cs.MarshalJSON()
	if err != nil {
		return err
	}
	return a.writeJSON(data)
}

// writeJSON prints data on its own line, indented when configured.
func (a *app) writeJSON(data []byte) error {
	if a.cfg.Output.Indent {
		data = pretty.Pretty(data)
	} else {
		data = append(pretty.Ugly(data), '\n')
	}
	_, err := a.stdout.Write(data)
	return err
}
