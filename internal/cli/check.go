package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chomins/autocommit/internal/model"
	"github.com/chomins/autocommit/internal/review"
)

var checkCmd = &cobra.Command{
	Use:   "check [commit-range]",
	Short: "Review changes and gate on the outcome (non-interactive)",
	Long: `Run a review and set the exit code from the result. Useful for CI
and pre-commit hooks.

Exit codes:
  0 — clean, no findings
  1 — findings reported
  2 — bug or security findings reported`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("level", "l", "", "review depth: quick, normal, detailed")
	checkCmd.Flags().Bool("staged", false, "check only staged changes")
	checkCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	staged, _ := cmd.Flags().GetBool("staged")
	changes, err := collectChanges(args, staged)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Println("No changes to check.")
		return nil
	}

	rawLevel, _ := cmd.Flags().GetString("level")
	level, err := model.ParseLevel(rawLevel)
	if err != nil {
		return err
	}

	res, err := review.New(cfg, client, log).Run(cmd.Context(), changes, review.Options{Level: level})
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if err := printResult(res, format); err != nil {
		return err
	}

	os.Exit(exitCode(res))
	return nil
}

func exitCode(res *model.ReviewResult) int {
	switch {
	case res.HasBlocking():
		return 2
	case len(res.Findings) > 0:
		return 1
	default:
		return 0
	}
}
