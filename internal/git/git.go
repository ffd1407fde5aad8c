// Package git wraps the repository operations the commit workflow
// needs. Everything shells out to the git binary; there is no libgit
// dependency to keep in sync with the user's repository state.
package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// RepoRoot returns the repository root containing dir.
func RepoRoot(dir string) (string, error) {
	return output(dir, "rev-parse", "--show-toplevel")
}

// CurrentBranch returns the checked out branch name.
func CurrentBranch(repoDir string) (string, error) {
	return output(repoDir, "rev-parse", "--abbrev-ref", "HEAD")
}

// HasStagedChanges reports whether the index differs from HEAD.
func HasStagedChanges(repoDir string) (bool, error) {
	_, err := output(repoDir, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

// StageAll stages every change in the worktree, including untracked
// files.
func StageAll(repoDir string) error {
	return run(repoDir, "add", "-A")
}

// StagePaths stages the given paths.
func StagePaths(repoDir string, paths []string) error {
	args := append([]string{"add", "--"}, paths...)
	return run(repoDir, args...)
}

// Commit records the staged changes with the given message.
func Commit(repoDir, message string) error {
	return run(repoDir, "commit", "-m", message)
}

// Push publishes the current branch.
func Push(repoDir string) error {
	return run(repoDir, "push")
}

func output(repoDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s: %w",
				args[0], strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

func run(repoDir string, args ...string) error {
	_, err := output(repoDir, args...)
	return err
}
