// Package cli implements the autocommit command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chomins/autocommit/internal/config"
	"github.com/chomins/autocommit/internal/diff"
	"github.com/chomins/autocommit/internal/git"
	"github.com/chomins/autocommit/internal/logger"
	"github.com/chomins/autocommit/internal/model"
	"github.com/chomins/autocommit/internal/provider"
)

var rootCmd = &cobra.Command{
	Use:   "autocommit",
	Short: "AI-assisted code review and commit messages for git",
	Long: `autocommit reviews pending changes with an AI model and writes the
commit for you. Diffs are compressed into token-bounded prompts so even
large changesets stay within a fixed budget.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the effective configuration and builds the logger every
// command shares. --verbose forces debug logging regardless of config.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Log.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.Log.Format, nil)

	return cfg, log, nil
}

// newClient builds the provider client after checking credentials, so
// commands fail fast on configuration problems instead of mid-run.
func newClient(cfg *config.Config) (provider.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return provider.New(cfg.AI)
}

// collectChanges gathers the changes a command operates on. A single "-"
// argument reads a diff from stdin; a range argument diffs that range;
// otherwise staged selects the index or the whole working tree.
func collectChanges(args []string, staged bool) ([]model.FileChange, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := os.ReadFile("/dev/stdin")
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return diff.Parse(string(data))
	}

	repoDir, err := git.RepoRoot(".")
	if err != nil {
		return nil, fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}

	if len(args) == 1 {
		return diff.Range(repoDir, args[0])
	}
	if staged {
		return diff.Staged(repoDir)
	}
	return diff.Working(repoDir)
}
