package cli

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/skillfold/skillfold/internal/logging"
	"github.com/skillfold/skillfold/internal/validation"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a skill bundle's cross-reference integrity",
		UsageText: "skillfold validate [options] <skill-dir>",
		Description: `Verify that every file reference in the primary document points
   at a real file, and report files no reference reaches.

   Examples:
     skillfold validate ./my-skill
     skillfold validate --strict --format json ./my-skill`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Treat orphaned files as failures",
			},
		},
		Action: runValidate,
	}
}

func runValidate(_ context.Context, cmd *cli.Command) error {
	defer logging.Timer("validate")()

	root, err := requireBundleArg(cmd, "skillfold validate [options] <skill-dir>")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := printer(cmd, cfg)
	if err != nil {
		return err
	}

	opts := cfg.Validation.Options()
	if cmd.Bool("strict") {
		opts.Strict = true
	}

	result, err := validation.ValidateBundle(root, opts)
	if err != nil {
		if errors.Is(err, validation.ErrNotFound) {
			return fail(err)
		}
		return err
	}

	if err := p.Print(result); err != nil {
		return err
	}
	if !result.Passed() {
		return cli.Exit("", ExitFailure)
	}
	return nil
}
