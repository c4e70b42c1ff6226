package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/docstate/internal/plugin/lua"
	"github.com/dshills/docstate/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		delay  time.Duration
		script string
	)
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Print a change set each time a file changes on disk",
		Long: `Watch keeps the file in a document session and, whenever it is saved,
prints the change set from the previous version to the new one. With
--script, the Lua script runs against the session after each change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], delay, script)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", watcher.DefaultDelay, "wait this long after the last write before reading the file")
	cmd.Flags().StringVar(&script, "script", "", "Lua script to run after each change")
	return cmd
}

// watch runs until ctx is done, reporting each saved version of path.
func (a *app) watch(ctx context.Context, path string, delay time.Duration, script string) error {
	data, err := a.readInput(path)
	if err != nil {
		return err
	}
	eng := a.newEngine(string(data))

	w, err := watcher.New(delay)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch(path); err != nil {
		return err
	}
	a.logger.Info("watching", slog.String("path", path), slog.Int("bytes", eng.Len()))

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", slog.Any("error", err))

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op.Has(watcher.OpRemove) && !ev.Op.Has(watcher.OpCreate) {
				a.logger.Info("file removed", slog.String("path", ev.Path))
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				a.logger.Warn("read failed", slog.String("path", path), slog.Any("error", err))
				continue
			}
			if err := eng.SetContent(string(data)); err != nil {
				return err
			}
			if script != "" {
				if err := a.runScript(ctx, script, eng, lua.DefaultExecutionTimeout); err != nil {
					a.logger.Warn("script failed", slog.Any("error", err))
				}
			}
			cs := eng.Commit()
			if cs.Empty() {
				continue
			}
			a.logger.Debug("file changed", slog.String("op", ev.Op.String()), slog.Uint64("revision", eng.Revision()))
			if err := a.writeChangeSet(cs); err != nil {
				return err
			}
		}
	}
}
