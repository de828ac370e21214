package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/skillfold/skillfold/internal/backup"
	"github.com/skillfold/skillfold/internal/logging"
	"github.com/skillfold/skillfold/internal/model"
	"github.com/skillfold/skillfold/internal/parser"
	"github.com/skillfold/skillfold/internal/progress"
	"github.com/skillfold/skillfold/internal/split"
	"github.com/skillfold/skillfold/internal/ui"
	"github.com/skillfold/skillfold/internal/ui/tui"
	"github.com/skillfold/skillfold/internal/validation"
)

func splitCommand() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "Split an oversized primary document into reference files",
		UsageText: "skillfold split [options] <skill-dir>",
		Description: `Classify the sections of a skill's primary document and move
   reference material into references/, leaving a slim core document
   behind with links to the moved content.

   Examples:
     skillfold split ./my-skill
     skillfold split --dry-run ./my-skill
     skillfold split --interactive ./my-skill`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview the plan without modifying files",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Review and adjust the plan in a terminal UI",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Apply without confirmation",
			},
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Override the size threshold for unmatched sections",
			},
			&cli.BoolFlag{
				Name:  "no-backup",
				Usage: "Skip snapshotting the primary document before rewriting",
			},
			&cli.BoolFlag{
				Name:  "restore",
				Usage: "Restore the primary document from its latest snapshot",
			},
		},
		Action: runSplit,
	}
}

// keepSnapshots bounds how many primary-document snapshots a bundle
// accumulates across repeated splits.
const keepSnapshots = 5

func runSplit(_ context.Context, cmd *cli.Command) error {
	defer logging.Timer("split")()

	root, err := requireBundleArg(cmd, "skillfold split [options] <skill-dir>")
	if err != nil {
		return err
	}

	if cmd.Bool("restore") {
		return runRestore(root)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := printer(cmd, cfg)
	if err != nil {
		return err
	}

	primaryPath := filepath.Join(root, model.PrimaryDocName)
	content, err := os.ReadFile(primaryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fail(fmt.Errorf("%s not found in %s: %w", model.PrimaryDocName, root, validation.ErrNotFound))
		}
		return err
	}

	policy := cfg.Classify.Policy()
	if threshold := cmd.Int("threshold"); threshold > 0 {
		policy.SizeThreshold = int(threshold)
	}

	doc := parser.ParseDocument(string(content))
	doc.Sections = policy.Classify(doc.Sections)
	logging.Info("classified sections",
		logging.Path(primaryPath),
		logging.Count(len(doc.Sections)),
	)

	if cmd.Bool("interactive") {
		result, err := tui.ReviewSections(doc.Sections)
		if err != nil {
			return err
		}
		if result.Action != tui.SectionActionConfirm {
			fmt.Println(ui.StatusSkipped("split cancelled"))
			return nil
		}
		doc.Sections = result.Sections
	}

	plan, err := split.BuildPlan(doc)
	if err != nil {
		return fail(err)
	}

	if err := p.Print(plan); err != nil {
		return err
	}
	if !plan.NeedsSplit() || cmd.Bool("dry-run") {
		return nil
	}

	if !cmd.Bool("yes") && !cmd.Bool("interactive") {
		ok, err := confirm(fmt.Sprintf("Write %d reference file(s) and rewrite %s?",
			len(plan.Satellites), model.PrimaryDocName))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(ui.StatusSkipped("split cancelled"))
			return nil
		}
	}

	if !cmd.Bool("no-backup") {
		snap, err := backup.Take(root, model.PrimaryDocName)
		if err != nil {
			return fmt.Errorf("snapshotting %s: %w", model.PrimaryDocName, err)
		}
		logging.Debug("snapshotted primary document",
			logging.Path(filepath.Join(backup.Dir, snap.File)),
		)
		if _, err := backup.Prune(root, keepSnapshots); err != nil {
			logging.Warn("failed to prune old snapshots", logging.Err(err))
		}
	}

	bar := progress.Simple(int64(plan.FileCount()), "Writing")
	err = plan.Apply(root, func(rel string) {
		bar.Describe("Writing " + rel)
		_ = bar.Add(1)
	})
	if err != nil {
		_ = bar.Clear()
		return err
	}
	_ = bar.Finish()

	fmt.Println(ui.StatusSuccess(fmt.Sprintf("split complete: %.1f%% reduction", plan.ReductionPercent())))
	return nil
}

func runRestore(root string) error {
	snap, err := backup.Latest(root, model.PrimaryDocName)
	if err != nil {
		return err
	}
	if snap == nil {
		return fail(fmt.Errorf("no snapshot of %s found in %s", model.PrimaryDocName, root))
	}
	if err := backup.Restore(root, *snap); err != nil {
		return err
	}
	fmt.Println(ui.StatusSuccess(fmt.Sprintf("restored %s from snapshot %s", model.PrimaryDocName, snap.ID)))
	return nil
}

// confirm asks a yes/no question on the terminal. Non-interactive
// sessions refuse rather than guessing.
func confirm(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("refusing to modify files without confirmation; re-run with --yes")
	}
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
