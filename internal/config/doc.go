// Package config loads docstate settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← DOCSTATE_TAB_SIZE, DOCSTATE_LOG_LEVEL, ...
//	├─────────────────────────────┤
//	│  2. Config File             │  ← docstate.toml or docstate.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: file loading (TOML, YAML) and environment variables
//
// # Basic Usage
//
//	cfg, err := config.Load("docstate.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ApplyEnv(config.EnvPrefix); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	logger := cfg.Logger(os.Stderr)
//
// # File Format
//
//	[text]
//	lineSeparator = "lf"
//	tabSize = 4
//
//	[output]
//	format = "json"
//	indent = true
//
//	[log]
//	level = "debug"
//	format = "text"
package config
