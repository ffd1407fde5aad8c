package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chomins/autocommit/internal/commitmsg"
)

var messageCmd = &cobra.Command{
	Use:   "message [commit-range]",
	Short: "Generate a commit message for the pending changes",
	Long: `Print a generated commit message without committing. Reads staged
changes with --staged, the working tree by default, or a diff from
stdin with "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMessage,
}

func init() {
	messageCmd.Flags().Bool("staged", false, "describe only staged changes")
}

func runMessage(cmd *cobra.Command, args []string) error {
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
		fmt.Println("No changes to describe.")
		return nil
	}

	fmt.Println(commitmsg.New(cfg, client, log).Generate(cmd.Context(), changes))
	return nil
}
