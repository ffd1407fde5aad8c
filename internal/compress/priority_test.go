package compress

import (
	"testing"

	"github.com/chomins/autocommit/internal/model"
)

func TestClassifyExcludes(t *testing.T) {
	excludes := []string{"*.md", "*_test.*", "*/migrations/*", "*.lock"}

	tests := []struct {
		path string
		want model.Priority
	}{
		{"README.md", model.PriorityExcluded},
		{"docs/guide.md", model.PriorityExcluded}, // basename glob reaches into subdirs
		{"engine_test.go", model.PriorityExcluded},
		{"app/migrations/0001_init.py", model.PriorityExcluded},
		{"poetry.lock", model.PriorityExcluded},
		{"readme.MD", model.PriorityLow}, // globs are case-sensitive
		{"cmd/tool/main.go", model.PriorityLow},
	}

	for _, tt := range tests {
		if got := Classify(tt.path, excludes, nil); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestClassifyHighPriorityKeywords(t *testing.T) {
	keywords := []string{"service", "handler", "auth"}

	tests := []struct {
		path string
		want model.Priority
	}{
		{"internal/service/billing.go", model.PriorityHigh},
		{"app/handlers.py", model.PriorityHigh},
		{"lib/UserService.java", model.PriorityHigh}, // keyword match ignores case
		{"pkg/auth/token.go", model.PriorityHigh},
		{"scripts/cleanup.sh", model.PriorityLow},
	}

	for _, tt := range tests {
		if got := Classify(tt.path, nil, keywords); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestClassifyExclusionBeatsKeyword(t *testing.T) {
	// A test file for a service is still excluded: patterns run first.
	got := Classify("service_test.py", []string{"*_test.*"}, []string{"service"})
	if got != model.PriorityExcluded {
		t.Errorf("expected excluded, got %v", got)
	}
}

func TestClassifyFirstPatternWins(t *testing.T) {
	// Ordering is the caller's; the first match decides, so a malformed
	// pattern ahead of a valid one must not mask it.
	got := Classify("notes.md", []string{"[", "*.md"}, nil)
	if got != model.PriorityExcluded {
		t.Errorf("expected excluded despite malformed leading pattern, got %v", got)
	}
}

func TestClassifyChangesPreservesOrder(t *testing.T) {
	changes := []model.FileChange{
		{Path: "a/service.go"},
		{Path: "b.md"},
		{Path: "c.go"},
	}
	tagged := ClassifyChanges(changes, []string{"*.md"}, []string{"service"})

	if len(tagged) != 3 {
		t.Fatalf("expected 3 classified changes, got %d", len(tagged))
	}
	wants := []model.Priority{model.PriorityHigh, model.PriorityExcluded, model.PriorityLow}
	for i, want := range wants {
		if tagged[i].Priority != want {
			t.Errorf("entry %d (%s): got %v, want %v", i, tagged[i].Change.Path, tagged[i].Priority, want)
		}
		if tagged[i].Change.Path != changes[i].Path {
			t.Errorf("entry %d: order broken, got %s", i, tagged[i].Change.Path)
		}
	}
}

func TestDefaultPatternsExcludeCommonNoise(t *testing.T) {
	excludes := DefaultExcludePatterns()
	for _, p := range []string{"README.md", "config.yaml", "package.json", "go.sum", "test_views.py"} {
		if Classify(p, excludes, nil) != model.PriorityExcluded {
			t.Errorf("expected default patterns to exclude %q", p)
		}
	}
	if Classify("internal/engine.go", excludes, nil) == model.PriorityExcluded {
		t.Error("source file wrongly excluded by defaults")
	}
}
