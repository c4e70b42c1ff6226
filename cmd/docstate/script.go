package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/docstate/internal/engine"
	"github.com/dshills/docstate/internal/plugin/lua"
)

func newScriptCmd(a *app) *cobra.Command {
	var (
		write   bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "script <script.lua> <file>",
		Short: "Run a Lua script against a document",
		Long: `Script opens the document in a session and runs the Lua script with the
session exposed as the global "doc". The edited document is printed, or
written back with --write. The changes the script made are logged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(args[1])
			if err != nil {
				return err
			}
			eng := a.newEngine(string(data))
			if err := a.runScript(cmd.Context(), args[0], eng, timeout); err != nil {
				return err
			}

			out := ""
			if write && args[1] != "-" {
				out = args[1]
			}
			return a.writeDoc(eng.Doc(), out)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the edited document back to the file")
	cmd.Flags().DurationVar(&timeout, "timeout", lua.DefaultExecutionTimeout, "maximum script run time")
	return cmd
}

func (a *app) newEngine(content string) *engine.Engine {
	return engine.New(
		engine.WithContent(content),
		engine.WithTabSize(a.cfg.Text.TabSize),
		engine.WithLineSeparator(a.cfg.Text.LineSeparator),
	)
}

// runScript runs the script file against eng. Script output goes to stderr
// so it does not mix with the document.
func (a *app) runScript(ctx context.Context, path string, eng *engine.Engine, timeout time.Duration) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	state := lua.NewState(
		lua.WithExecutionTimeout(timeout),
		lua.WithOutput(a.stderr),
		lua.WithLogger(a.logger),
	)
	defer state.Close()
	state.Register(lua.NewDocModule(eng))

	rev := eng.Revision()
	if err := state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	a.logger.Info("script applied",
		slog.String("script", path),
		slog.Uint64("edits", eng.Revision()-rev),
		slog.String("changes", eng.Changes().String()))
	return nil
}
