package cli

import (
	"testing"

	"github.com/chomins/autocommit/internal/model"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, want := range []string{"review", "commit", "check", "message", "serve", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	if version != "dev" {
		t.Errorf("expected default version %q, got %q", "dev", version)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		res  model.ReviewResult
		want int
	}{
		{"clean", model.ReviewResult{Status: model.StatusClean}, 0},
		{"style only", model.ReviewResult{
			Status:   model.StatusFindings,
			Findings: []model.Finding{{Category: model.CategoryStyle, Message: "naming"}},
		}, 1},
		{"bug", model.ReviewResult{
			Status:   model.StatusFindings,
			Findings: []model.Finding{{Category: model.CategoryBug, Message: "leak"}},
		}, 2},
		{"security among notes", model.ReviewResult{
			Status: model.StatusFindings,
			Findings: []model.Finding{
				{Category: model.CategoryNote, Message: "fyi"},
				{Category: model.CategorySecurity, Message: "injection"},
			},
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(&tt.res); got != tt.want {
				t.Errorf("exitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSubjectOf(t *testing.T) {
	if got := subjectOf("Fix bug\n\nLong body"); got != "Fix bug" {
		t.Errorf("subjectOf = %q", got)
	}
	if got := subjectOf("Fix bug"); got != "Fix bug" {
		t.Errorf("subjectOf = %q", got)
	}
}
