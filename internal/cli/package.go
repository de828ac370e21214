package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/skillfold/skillfold/internal/archive"
	"github.com/skillfold/skillfold/internal/logging"
	"github.com/skillfold/skillfold/internal/ui"
	"github.com/skillfold/skillfold/internal/validation"
)

func packageCommand() *cli.Command {
	return &cli.Command{
		Name:      "package",
		Usage:     "Package a skill bundle into a .skill archive",
		UsageText: "skillfold package [options] <skill-dir>",
		Description: `Validate the bundle and pack it into a compressed .skill archive
   with a manifest.

   Examples:
     skillfold package ./my-skill
     skillfold package --strict -o dist/my-skill.skill ./my-skill`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Archive path (defaults to <skill-dir name>.skill)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Abort packaging on any validation failure",
			},
			&cli.BoolFlag{
				Name:  "skip-validation",
				Usage: "Skip the pre-flight integrity check (not recommended)",
			},
		},
		Action: runPackage,
	}
}

func runPackage(_ context.Context, cmd *cli.Command) error {
	defer logging.Timer("package")()

	root, err := requireBundleArg(cmd, "skillfold package [options] <skill-dir>")
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

	out := cmd.String("output")
	if out == "" {
		out = filepath.Base(filepath.Clean(root)) + archive.Extension
	}
	if !strings.HasSuffix(out, archive.Extension) {
		out += archive.Extension
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	manifest, report, err := archive.Create(root, f, archive.CreateOptions{
		SkipValidation: cmd.Bool("skip-validation"),
		Strict:         cmd.Bool("strict"),
	})
	if err != nil {
		_ = f.Close()
		_ = os.Remove(out)
		var preflight *archive.PreflightError
		if errors.As(err, &preflight) || errors.Is(err, validation.ErrNotFound) {
			return fail(err)
		}
		return err
	}

	if report != nil && !report.Passed() {
		fmt.Println(ui.StatusWarning(report.Summary()))
	}

	if err := p.Print(manifest); err != nil {
		return err
	}

	info, err := os.Stat(out)
	if err == nil {
		fmt.Println(ui.StatusSuccess(fmt.Sprintf("wrote %s (%s)", out, humanize.Bytes(uint64(info.Size())))))
	}
	return nil
}

func unpackCommand() *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "Extract a .skill archive",
		UsageText: "skillfold unpack [options] <archive>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Directory to extract the bundle into",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "List archive contents without extracting",
			},
		},
		Action: runUnpack,
	}
}

func runUnpack(_ context.Context, cmd *cli.Command) error {
	defer logging.Timer("unpack")()

	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: skillfold unpack [options] <archive>")
	}
	path := cmd.Args().Get(0)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	manifest, files, err := archive.Extract(f, archive.ExtractOptions{
		TargetDir: cmd.String("target"),
		DryRun:    cmd.Bool("dry-run"),
	})
	if err != nil {
		return fail(err)
	}

	if cmd.Bool("dry-run") {
		fmt.Printf("%s (%d file(s)):\n", manifest.Name, len(files))
		for _, file := range files {
			fmt.Printf("  %s\n", file)
		}
		return nil
	}

	dest := filepath.Join(cmd.String("target"), manifest.Name)
	fmt.Println(ui.StatusSuccess(fmt.Sprintf("extracted %s to %s", manifest.Name, dest)))
	return nil
}
