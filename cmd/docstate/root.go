package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/docstate/internal/config"
)

// app carries the loaded configuration and I/O shared by all commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Flags
	configPath string
	logLevel   string
	format     string
	indent     bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "docstate",
		Short: "Inspect and transform documents with change sets",
		Long: `docstate works with the persistent document model: it applies, composes,
rebases and inverts change sets, diffs files into change sets, and runs Lua
scripts against a document session.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", os.Getenv(config.EnvPrefix+"CONFIG"), "path to a TOML or YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVarP(&a.format, "format", "f", "", "output format: text or json")
	flags.BoolVar(&a.indent, "indent", false, "indent JSON output")

	root.AddCommand(
		newApplyCmd(a),
		newDiffCmd(a),
		newComposeCmd(a),
		newMapCmd(a),
		newInvertCmd(a),
		newLinesCmd(a),
		newScriptCmd(a),
		newWatchCmd(a),
	)
	return root
}

// setup loads configuration in order: defaults, file, environment, flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(config.EnvPrefix); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("format") {
		cfg.Output.Format = a.format
	}
	if flags.Changed("indent") {
		cfg.Output.Indent = a.indent
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cfg.Logger(a.stderr)
	a.logger.Debug("configuration loaded",
		slog.String("path", a.configPath),
		slog.Int("tabSize", cfg.Text.TabSize),
		slog.String("format", cfg.Output.Format))
	return nil
}
