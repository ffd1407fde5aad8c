// Package diff turns git output into the FileChange values the rest of
// the pipeline consumes.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/chomins/autocommit/internal/model"
)

// Parse reads a unified diff and returns one FileChange per file. Hunk
// text is rebuilt in canonical form so downstream parsing sees uniform
// headers regardless of how the diff was produced. Binary files carry
// no hunks.
func Parse(raw string) ([]model.FileChange, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	changes := make([]model.FileChange, 0, len(parsed))
	for _, f := range parsed {
		fc := model.FileChange{
			Path: f.NewName,
			Kind: kindOf(f),
		}
		if fc.Path == "" {
			fc.Path = f.OldName
		}
		if f.IsRename {
			fc.OldPath = f.OldName
		}

		if f.IsBinary {
			changes = append(changes, fc)
			continue
		}

		for _, frag := range f.TextFragments {
			fc.Hunks = append(fc.Hunks, hunkText(frag))
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					fc.LinesAdded++
				case gitdiff.OpDelete:
					fc.LinesRemoved++
				}
			}
		}

		changes = append(changes, fc)
	}

	return changes, nil
}

func kindOf(f *gitdiff.File) model.ChangeKind {
	switch {
	case f.IsNew:
		return model.KindAdded
	case f.IsDelete:
		return model.KindDeleted
	case f.IsRename:
		return model.KindRenamed
	default:
		return model.KindModified
	}
}

// hunkText renders a fragment back into unified hunk form.
func hunkText(frag *gitdiff.TextFragment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
		frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
	for _, line := range frag.Lines {
		switch line.Op {
		case gitdiff.OpAdd:
			b.WriteByte('+')
		case gitdiff.OpDelete:
			b.WriteByte('-')
		default:
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSuffix(line.Line, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}

// GitDiff runs `git diff` with the given arguments and returns the raw
// output.
func GitDiff(repoDir string, args ...string) (string, error) {
	cmdArgs := append([]string{"diff"}, args...)
	cmd := exec.Command("git", cmdArgs...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return string(out), nil
}

// Staged returns the changes currently in the index.
func Staged(repoDir string) ([]model.FileChange, error) {
	raw, err := GitDiff(repoDir, "--cached", "-M")
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Working returns all uncommitted changes, staged or not.
func Working(repoDir string) ([]model.FileChange, error) {
	raw, err := GitDiff(repoDir, "-M", "HEAD")
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Head returns the changes introduced by the last commit.
func Head(repoDir string) ([]model.FileChange, error) {
	raw, err := GitDiff(repoDir, "-M", "HEAD~1", "HEAD")
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Range returns the changes in a commit range like "main...HEAD".
func Range(repoDir, commitRange string) ([]model.FileChange, error) {
	raw, err := GitDiff(repoDir, "-M", commitRange)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}
