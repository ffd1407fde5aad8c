package diff

import (
	"testing"

	"github.com/chomins/autocommit/internal/model"
)

func compressedLines(texts ...string) []model.CompressedLine {
	out := make([]model.CompressedLine, len(texts))
	for i, t := range texts {
		out[i] = model.CompressedLine{Number: i + 1, Op: '+', Text: t}
	}
	return out
}

func TestHighlightChange(t *testing.T) {
	lines := compressedLines(
		"func handle(w http.ResponseWriter, r *http.Request) {",
		"if r.Method != http.MethodPost {",
		"return errInvalid",
	)

	highlighted := HighlightChange("api/handler.go", lines)

	if len(highlighted) != len(lines) {
		t.Fatalf("got %d highlighted lines, want %d", len(highlighted), len(lines))
	}
	if len(highlighted[0].Spans) == 0 {
		t.Error("expected spans on the first line")
	}
	for i := range lines {
		if highlighted[i].Plain() != lines[i].Text {
			t.Errorf("line %d plain text = %q, want %q", i, highlighted[i].Plain(), lines[i].Text)
		}
	}
}

func TestHighlightChangeUnknownLanguage(t *testing.T) {
	lines := compressedLines("some content", "more content")
	highlighted := HighlightChange("unknown.xyz123", lines)

	if len(highlighted) != 2 {
		t.Fatalf("got %d lines, want 2", len(highlighted))
	}
	if highlighted[0].Plain() != "some content" {
		t.Errorf("plain passthrough = %q", highlighted[0].Plain())
	}
}

func TestHighlightChangeEmpty(t *testing.T) {
	if got := HighlightChange("a.go", nil); len(got) != 0 {
		t.Errorf("HighlightChange(nil) returned %d lines", len(got))
	}
}
