package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chomins/autocommit/internal/commitmsg"
	"github.com/chomins/autocommit/internal/diff"
	"github.com/chomins/autocommit/internal/git"
	"github.com/chomins/autocommit/internal/model"
	"github.com/chomins/autocommit/internal/review"
	"github.com/chomins/autocommit/internal/tui"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Stage, review, and commit with a generated message",
	Long: `Run the full workflow: stage changes, review them with the AI model,
generate a commit message, confirm, and commit.

The review gate warns on bug or security findings but never blocks on
its own; the decision stays with you.`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringP("level", "l", "", "review depth: quick, normal, detailed")
	commitCmd.Flags().StringP("message", "m", "", "use this commit message instead of generating one")
	commitCmd.Flags().Bool("no-add", false, "do not stage changes; commit what is already staged")
	commitCmd.Flags().Bool("no-review", false, "skip the review step")
	commitCmd.Flags().Bool("review", false, "force the review step even when disabled in config")
	commitCmd.Flags().Bool("review-only", false, "stop after the review; do not commit")
	commitCmd.Flags().BoolP("yes", "y", false, "commit without asking for confirmation")
	commitCmd.Flags().Bool("dry-run", false, "print the message and review without committing")
	commitCmd.Flags().Bool("push", false, "push after committing")
	commitCmd.Flags().BoolP("interactive", "i", false, "confirm through the TUI browser")
}

func runCommit(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	repoDir, err := git.RepoRoot(".")
	if err != nil {
		return fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}

	noAdd, _ := cmd.Flags().GetBool("no-add")
	if cfg.Commit.AutoStage && !noAdd {
		if err := git.StageAll(repoDir); err != nil {
			return err
		}
	}

	staged, err := git.HasStagedChanges(repoDir)
	if err != nil {
		return err
	}
	if !staged {
		fmt.Println("Nothing to commit.")
		return nil
	}

	changes, err := diff.Staged(repoDir)
	if err != nil {
		return err
	}

	// The review and message steps share one provider client; building
	// it first fails fast on credential problems.
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	noReview, _ := cmd.Flags().GetBool("no-review")
	forceReview, _ := cmd.Flags().GetBool("review")
	reviewOnly, _ := cmd.Flags().GetBool("review-only")
	doReview := !noReview && (cfg.Review.Enabled || forceReview || reviewOnly)

	var res *model.ReviewResult
	var req model.ReviewRequest
	if doReview {
		rawLevel, _ := cmd.Flags().GetString("level")
		level, err := model.ParseLevel(rawLevel)
		if err != nil {
			return err
		}

		eng := review.New(cfg, client, log)
		req = eng.Assemble(changes, review.Options{Level: level})
		res, err = eng.Execute(cmd.Context(), req)
		if err != nil {
			return err
		}
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if reviewOnly {
		if res == nil {
			return nil
		}
		if interactive {
			return tui.Run(res, req)
		}
		return printText(res)
	}

	message, _ := cmd.Flags().GetString("message")
	if message == "" {
		message = commitmsg.New(cfg, client, log).Generate(cmd.Context(), changes)
	}
	if cfg.Commit.IncludeFileList && !strings.Contains(message, "\n") && len(changes) > 1 {
		message += "\n\nFiles:\n" + fileList(changes)
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		if res != nil {
			if err := printText(res); err != nil {
				return err
			}
			fmt.Println()
		}
		fmt.Println(message)
		return nil
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		approved, err := confirmCommit(res, req, message, interactive)
		if err != nil {
			return err
		}
		if !approved {
			fmt.Println("Commit aborted.")
			return nil
		}
	}

	if err := git.Commit(repoDir, message); err != nil {
		return err
	}
	fmt.Printf("Committed: %s\n", subjectOf(message))

	push, _ := cmd.Flags().GetBool("push")
	if push || cfg.Commit.AutoPush {
		if err := git.Push(repoDir); err != nil {
			return err
		}
		fmt.Println("Pushed.")
	}

	return nil
}

// confirmCommit asks the user to approve the commit, through the TUI
// when requested and a plain y/N prompt otherwise.
func confirmCommit(res *model.ReviewResult, req model.ReviewRequest, message string, interactive bool) (bool, error) {
	if interactive && res != nil {
		return tui.Confirm(res, req, message)
	}

	if res != nil {
		if err := printText(res); err != nil {
			return false, err
		}
		if res.HasBlocking() {
			fmt.Println("Warning: the review reported bug or security findings.")
		}
		fmt.Println()
	}

	fmt.Println(message)
	fmt.Print("\nCommit with this message? [y/N] ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func fileList(changes []model.FileChange) string {
	var b strings.Builder
	for _, fc := range changes {
		fmt.Fprintf(&b, "  - %s\n", fc.Name())
	}
	return strings.TrimRight(b.String(), "\n")
}

func subjectOf(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
