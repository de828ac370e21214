package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/skillfold/skillfold/internal/config"
	"github.com/skillfold/skillfold/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or initialize configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Display the active configuration",
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					p, err := printer(cmd, cfg)
					if err != nil {
						return err
					}
					return p.Print(cfg)
				},
			},
			{
				Name:  "init",
				Usage: "Write a default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if config.Exists() && !cmd.Bool("force") {
						return fail(fmt.Errorf("config already exists at %s (use --force to overwrite)", config.FilePath()))
					}
					if err := config.Default().Save(); err != nil {
						return err
					}
					fmt.Println(ui.StatusSuccess("wrote " + config.FilePath()))
					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the config file path",
				Action: func(_ context.Context, _ *cli.Command) error {
					fmt.Println(config.FilePath())
					return nil
				},
			},
		},
	}
}
