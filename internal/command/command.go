// Package command holds what the oevars subcommands share: flags, config
// loading, logging and store setup.
package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-oevars/internal/config"
	"github.com/lwmacct/251207-go-pkg-oevars/pkg/vardata"
)

// Defaults is the single source of flag defaults.
var Defaults = config.DefaultConfig()

// StdinPath as --data reads the definitions from standard input (YAML).
const StdinPath = "-"

// CommonFlags returns the flags every subcommand accepts. Flag names are the
// config keys with "." replaced by "-". A fresh slice is returned on each
// call since flags hold parse state.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "config file (default: .oevars.yaml, ~/.oevars.yaml, /etc/oevars/config.yaml)",
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"f"},
			Value:   Defaults.Data,
			Usage:   "variable definition file, YAML or JSONC (- for stdin)",
		},
		&cli.StringFlag{
			Name:  "overrides",
			Value: Defaults.Overrides,
			Usage: "colon separated override tags, replaces OVERRIDES",
		},
		&cli.StringFlag{
			Name:  "inherit-priority",
			Value: Defaults.InheritPriority,
			Usage: "inherit flag value taken from the environment",
		},
		&cli.IntFlag{
			Name:  "expand-max-length",
			Value: int64(Defaults.Expand.MaxLength),
			Usage: "stop expanding once a string is longer than this (0 disables)",
		},
		&cli.IntFlag{
			Name:  "expand-max-passes",
			Value: int64(Defaults.Expand.MaxPasses),
			Usage: "stop expanding after this many passes (0 disables)",
		},
		&cli.StringFlag{
			Name:  "expand-evaluator",
			Value: Defaults.Expand.Evaluator,
			Usage: "evaluator for ${@ ...}: expr, hcl or none",
		},
		&cli.BoolFlag{
			Name:  "expand-balanced",
			Value: Defaults.Expand.Balanced,
			Usage: "allow braces inside ${@ ...}",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: Defaults.Log.Level,
			Usage: "debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Value: Defaults.Log.Format,
			Usage: "text or json",
		},
	}
}

// Setup loads the configuration for cmd and installs the configured logger
// as the slog default.
func Setup(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(config.WithCommand(cmd))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr))
	slog.Debug("Loaded config", "data", cfg.Data, "evaluator", cfg.Expand.Evaluator)

	return cfg, nil
}

// NewLogger builds a logger writing to w. Unknown levels fall back to info,
// unknown formats to text.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// Evaluator returns the evaluator named by the configuration.
func Evaluator(name string) (vardata.Evaluator, error) {
	switch name {
	case config.EvaluatorExpr, "":
		return vardata.NewExprEvaluator(), nil
	case config.EvaluatorHCL:
		return vardata.NewHCLEvaluator(), nil
	case config.EvaluatorNone:
		return vardata.DisabledEvaluator, nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q (want %s, %s or %s)",
			name, config.EvaluatorExpr, config.EvaluatorHCL, config.EvaluatorNone)
	}
}

// Options translates the configuration into expander and resolver options.
func Options(cfg *config.Config) ([]vardata.Option, error) {
	ev, err := Evaluator(cfg.Expand.Evaluator)
	if err != nil {
		return nil, err
	}

	return []vardata.Option{
		vardata.WithEvaluator(ev),
		vardata.WithMaxLength(cfg.Expand.MaxLength),
		vardata.WithMaxPasses(cfg.Expand.MaxPasses),
		vardata.WithBalancedCode(cfg.Expand.Balanced),
		vardata.WithInheritPriority(cfg.InheritPriority),
	}, nil
}

// LoadStore reads the configured definition file, or stdin for [StdinPath].
// Without a file the store starts empty. A configured overrides value
// replaces OVERRIDES.
func LoadStore(cfg *config.Config, stdin io.Reader) (*vardata.Store, error) {
	var s *vardata.Store
	switch cfg.Data {
	case "":
		s = vardata.New()
	case StdinPath:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if s, err = vardata.Decode(data, vardata.FormatYAML); err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
	default:
		var err error
		if s, err = vardata.LoadFile(cfg.Data); err != nil {
			return nil, err
		}
	}

	if cfg.Overrides != "" {
		s.SetVar(vardata.OverridesVar, cfg.Overrides)
	}
	slog.Debug("Loaded variables", "count", s.Len())

	return s, nil
}
