// Package cli provides the command-line interface for skillfold.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/skillfold/skillfold/internal/config"
	"github.com/skillfold/skillfold/internal/logging"
	"github.com/skillfold/skillfold/internal/output"
	"github.com/skillfold/skillfold/internal/ui"
	"github.com/skillfold/skillfold/internal/util"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Exit codes. Expected failures (validation findings, budget overruns)
// exit 1; unexpected errors exit 2.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUnexpected = 2
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "skillfold",
		Usage:   "Restructure skill bundles for progressive disclosure",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (YAML or TOML)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, or yaml",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			if err := configureLogging(cmd); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			splitCommand(),
			validateCommand(),
			estimateCommand(),
			migrateCommand(),
			packageCommand(),
			unpackCommand(),
			configCommand(),
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	} else {
		opts.Level = slog.LevelWarn
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))
	return nil
}

// loadConfig loads the active configuration, honoring --config.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		cwd, _ := os.Getwd()
		cfg, err := config.LoadFromPath(util.ExpandPath(path, cwd))
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	return config.Load()
}

// printer builds the result printer, with --format overriding the
// configured default.
func printer(cmd *cli.Command, cfg *config.Config) (*output.Printer, error) {
	name := cmd.String("format")
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(format, os.Stdout), nil
}

// fail wraps an expected failure so main exits with code 1.
func fail(err error) error {
	return cli.Exit(err.Error(), ExitFailure)
}

// requireBundleArg extracts the single bundle path argument, expanding
// a leading ~.
func requireBundleArg(cmd *cli.Command, usage string) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("usage: %s", usage)
	}
	cwd, _ := os.Getwd()
	return util.ExpandPath(cmd.Args().Get(0), cwd), nil
}
