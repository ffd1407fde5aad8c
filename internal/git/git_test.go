package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// initRepo creates a throwaway repository with one commit.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	writeFile(t, dir, "main.go", "package main\n")
	if err := StageAll(dir); err != nil {
		t.Fatalf("StageAll: %v", err)
	}
	if err := Commit(dir, "initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestRepoRoot(t *testing.T) {
	dir := initRepo(t)

	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := RepoRoot(sub)
	if err != nil {
		t.Fatalf("RepoRoot: %v", err)
	}
	// Resolve symlinks before comparing; macOS tempdirs live behind /var.
	wantRoot, _ := filepath.EvalSymlinks(dir)
	gotRoot, _ := filepath.EvalSymlinks(root)
	if gotRoot != wantRoot {
		t.Errorf("RepoRoot = %q, want %q", gotRoot, wantRoot)
	}
}

func TestRepoRootOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	if _, err := RepoRoot(os.TempDir()); err == nil {
		t.Skip("temp dir unexpectedly inside a repository")
	}
}

func TestStagedChangeDetection(t *testing.T) {
	dir := initRepo(t)

	staged, err := HasStagedChanges(dir)
	if err != nil {
		t.Fatalf("HasStagedChanges: %v", err)
	}
	if staged {
		t.Error("fresh commit should leave a clean index")
	}

	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	if err := StagePaths(dir, []string{"main.go"}); err != nil {
		t.Fatalf("StagePaths: %v", err)
	}

	staged, err = HasStagedChanges(dir)
	if err != nil {
		t.Fatalf("HasStagedChanges: %v", err)
	}
	if !staged {
		t.Error("staged edit not detected")
	}

	if err := Commit(dir, "edit main"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	staged, err = HasStagedChanges(dir)
	if err != nil {
		t.Fatalf("HasStagedChanges: %v", err)
	}
	if staged {
		t.Error("index should be clean after commit")
	}
}

func TestCurrentBranch(t *testing.T) {
	dir := initRepo(t)

	branch, err := CurrentBranch(dir)
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch == "" || branch == "HEAD" {
		t.Errorf("branch = %q, want a named branch", branch)
	}
}
