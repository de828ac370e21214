package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/skillfold/skillfold/internal/logging"
	"github.com/skillfold/skillfold/internal/migrate"
	"github.com/skillfold/skillfold/internal/util"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "Convert a flat instruction file into a skill bundle",
		UsageText: "skillfold migrate [options] <file>",
		Description: `Turn a flat .md or .txt file into a bundle directory with a
   generated metadata block, splitting oversized content into
   references automatically.

   Examples:
     skillfold migrate ./deploy-notes.md
     skillfold migrate --output ./skills --no-split ./rules.txt`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory to create the bundle in (defaults to the configured skills dir)",
			},
			&cli.BoolFlag{
				Name:  "no-split",
				Usage: "Keep oversized content in the primary document",
			},
		},
		Action: runMigrate,
	}
}

func runMigrate(_ context.Context, cmd *cli.Command) error {
	defer logging.Timer("migrate")()

	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: skillfold migrate [options] <file>")
	}
	src := cmd.Args().Get(0)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := printer(cmd, cfg)
	if err != nil {
		return err
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		cwd, _ := os.Getwd()
		outputDir = util.ExpandPath(cfg.SkillsDir, cwd)
	}

	opts := migrate.Options{
		OutputDir: outputDir,
		Split:     !cmd.Bool("no-split"),
		Policy:    cfg.Classify.Policy(),
		Budget:    cfg.Budgets.Core,
	}

	result, err := migrate.Convert(src, opts)
	if err != nil {
		var unsupported *migrate.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return fail(err)
		}
		return err
	}

	logging.Info("converted source file",
		logging.Path(src),
		logging.Skill(result.Name),
	)
	return p.Print(result)
}
