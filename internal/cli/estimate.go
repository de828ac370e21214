package cli

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/skillfold/skillfold/internal/estimate"
	"github.com/skillfold/skillfold/internal/logging"
	"github.com/skillfold/skillfold/internal/validation"
)

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:      "estimate",
		Usage:     "Estimate a skill bundle's token loading cost",
		UsageText: "skillfold estimate [options] <skill-dir>",
		Description: `Measure the bundle's three disclosure levels and project token
   cost for common loading scenarios.

   Examples:
     skillfold estimate ./my-skill
     skillfold estimate --format json ./my-skill`,
		Action: runEstimate,
	}
}

func runEstimate(_ context.Context, cmd *cli.Command) error {
	defer logging.Timer("estimate")()

	root, err := requireBundleArg(cmd, "skillfold estimate [options] <skill-dir>")
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

	analysis, err := estimate.Analyze(root, cfg.Pricing)
	if err != nil {
		if errors.Is(err, validation.ErrNotFound) {
			return fail(err)
		}
		return err
	}

	logging.Info("estimated bundle cost",
		logging.Path(root),
		logging.Tokens(analysis.Scenario(estimate.ScenarioWorstCase).Tokens),
	)
	return p.Print(analysis)
}
