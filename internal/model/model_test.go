package model

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    ReviewLevel
		wantErr bool
	}{
		{"quick", LevelQuick, false},
		{"normal", LevelNormal, false},
		{"detailed", LevelDetailed, false},
		{"Detailed", LevelDetailed, false},
		{"  quick ", LevelQuick, false},
		{"", LevelUnset, false},
		{"thorough", LevelUnset, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level ReviewLevel
		want  string
	}{
		{LevelQuick, "quick"},
		{LevelNormal, "normal"},
		{LevelDetailed, "detailed"},
		{LevelUnset, ""},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestChangeKindString(t *testing.T) {
	tests := []struct {
		kind ChangeKind
		want string
	}{
		{KindModified, "modified"},
		{KindAdded, "added"},
		{KindDeleted, "deleted"},
		{KindRenamed, "renamed"},
		{ChangeKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ChangeKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestFileChangeName(t *testing.T) {
	fc := FileChange{Path: "internal/api/server.go", Kind: KindModified}
	if got := fc.Name(); got != "internal/api/server.go" {
		t.Errorf("Name() = %q", got)
	}

	renamed := FileChange{Path: "pkg/new.go", OldPath: "pkg/old.go", Kind: KindRenamed}
	if got := renamed.Name(); got != "pkg/old.go -> pkg/new.go" {
		t.Errorf("renamed Name() = %q", got)
	}
}

func TestCategoryBlocking(t *testing.T) {
	for _, c := range []Category{CategoryBug, CategorySecurity} {
		if !c.Blocking() {
			t.Errorf("%s should block", c)
		}
	}
	for _, c := range []Category{CategoryPerformance, CategoryArchitecture, CategoryStyle, CategoryNote} {
		if c.Blocking() {
			t.Errorf("%s should not block", c)
		}
	}
}

func TestResultSummary(t *testing.T) {
	clean := &ReviewResult{Status: StatusClean}
	if got := clean.Summary(); got != "No issues found" {
		t.Errorf("clean Summary() = %q", got)
	}

	r := &ReviewResult{
		Status: StatusFindings,
		Findings: []Finding{
			{Category: CategoryBug, Message: "nil deref"},
			{Category: CategoryBug, Message: "off by one"},
			{Category: CategoryStyle, Message: "naming"},
		},
	}
	if got := r.Summary(); got != "2 bug, 1 style" {
		t.Errorf("Summary() = %q", got)
	}

	if !r.HasBlocking() {
		t.Error("expected blocking findings")
	}
}

func TestResultByFile(t *testing.T) {
	r := &ReviewResult{
		Findings: []Finding{
			{Category: CategoryBug, Location: Location{Path: "a.go", Line: 3}},
			{Category: CategoryNote, Location: Location{Path: "a.go"}},
			{Category: CategoryStyle, Location: Location{Path: "b.go", Line: 9}},
			{Category: CategoryNote},
		},
	}

	byFile := r.ByFile()
	if len(byFile["a.go"]) != 2 {
		t.Errorf("expected 2 findings for a.go, got %d", len(byFile["a.go"]))
	}
	if len(byFile["b.go"]) != 1 {
		t.Errorf("expected 1 finding for b.go, got %d", len(byFile["b.go"]))
	}
	if len(byFile[""]) != 1 {
		t.Errorf("expected 1 unlocated finding, got %d", len(byFile[""]))
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{}, ""},
		{Location{Path: "main.go"}, "main.go"},
		{Location{Path: "main.go", Line: 42}, "main.go:42"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("Location%+v.String() = %q, want %q", tt.loc, got, tt.want)
		}
	}
}
