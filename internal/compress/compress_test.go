package compress

import (
	"strings"
	"testing"

	"github.com/chomins/autocommit/internal/model"
)

const pythonHunk = `@@ -0,0 +1,6 @@
+import os
+# a comment
+def handle(x):
+    if x is None:
+        return None
+    return x.value
`

func TestCompressKeepsSignatureDropsNoise(t *testing.T) {
	fc := model.FileChange{
		Path:       "app/handler.py",
		Kind:       model.KindAdded,
		LinesAdded: 6,
		Hunks:      []string{pythonHunk},
	}

	cc := Compress(fc, model.PriorityHigh)

	want := []string{
		"def handle(x):",
		"    if x is None:",
		"        return None",
		"    return x.value",
	}
	if len(cc.Lines) != len(want) {
		t.Fatalf("expected %d kept lines, got %d: %v", len(want), len(cc.Lines), cc.Lines)
	}
	for i, w := range want {
		if cc.Lines[i].Text != w {
			t.Errorf("line %d: got %q, want %q", i, cc.Lines[i].Text, w)
		}
	}

	// Original new-file numbering survives for location reporting.
	wantNums := []int{3, 4, 5, 6}
	for i, n := range wantNums {
		if cc.Lines[i].Number != n {
			t.Errorf("line %d: number %d, want %d", i, cc.Lines[i].Number, n)
		}
	}

	if cc.Tokens == 0 {
		t.Error("expected nonzero token estimate")
	}
}

func TestCompressDeletedLinesKeepOldNumbers(t *testing.T) {
	hunk := "@@ -10,3 +10,1 @@\n-def removed(a):\n-    return a\n context line\n"
	fc := model.FileChange{Path: "x.py", Hunks: []string{hunk}}

	cc := Compress(fc, model.PriorityLow)
	if len(cc.Lines) != 2 {
		t.Fatalf("expected 2 kept lines, got %d: %v", len(cc.Lines), cc.Lines)
	}
	if cc.Lines[0].Number != 10 || cc.Lines[0].Op != '-' {
		t.Errorf("first kept line = %+v, want old-file line 10 with '-'", cc.Lines[0])
	}
	if cc.Lines[1].Number != 11 {
		t.Errorf("second kept line number = %d, want 11", cc.Lines[1].Number)
	}
}

func TestCompressCorruptHunkYieldsEmpty(t *testing.T) {
	tests := []struct {
		name string
		hunk string
	}{
		{"no header", "+just a line\n+another\n"},
		{"mangled header", "@@ -x,y +a,b @@\n+foo\n"},
		{"bad op", "@@ -1,2 +1,2 @@\n+ok\n?what\n"},
	}

	for _, tt := range tests {
		fc := model.FileChange{Path: "bad.go", Hunks: []string{tt.hunk}}
		cc := Compress(fc, model.PriorityHigh)
		if !cc.Empty() {
			t.Errorf("%s: expected empty compressed change, got %d lines", tt.name, len(cc.Lines))
		}
		if cc.Tokens != 0 {
			t.Errorf("%s: expected 0 tokens, got %d", tt.name, cc.Tokens)
		}
		if cc.Path != "bad.go" {
			t.Errorf("%s: path lost: %q", tt.name, cc.Path)
		}
	}
}

func TestCompressOneCorruptHunkEmptiesWholeFile(t *testing.T) {
	fc := model.FileChange{
		Path:  "mixed.py",
		Hunks: []string{pythonHunk, "not a hunk at all"},
	}
	cc := Compress(fc, model.PriorityHigh)
	if !cc.Empty() || cc.Tokens != 0 {
		t.Fatalf("expected whole-file empty result, got %d lines, %d tokens", len(cc.Lines), cc.Tokens)
	}
}

func TestCompressDropsReformattingPairs(t *testing.T) {
	hunk := "@@ -5,3 +5,3 @@\n-def  spaced( x ):\n+def spaced(x):\n+    return x * 2\n"
	fc := model.FileChange{Path: "fmt.py", Hunks: []string{hunk}}

	cc := Compress(fc, model.PriorityLow)
	if len(cc.Lines) != 1 {
		t.Fatalf("expected only the real change kept, got %v", cc.Lines)
	}
	if cc.Lines[0].Text != "    return x * 2" {
		t.Errorf("kept %q, want the return line", cc.Lines[0].Text)
	}
}

func TestCompressChangedImportStillDropped(t *testing.T) {
	hunk := "@@ -1,2 +1,2 @@\n-import \"fmt\"\n+import \"log/slog\"\n"
	fc := model.FileChange{Path: "main.go", Hunks: []string{hunk}}

	cc := Compress(fc, model.PriorityLow)
	if !cc.Empty() {
		t.Fatalf("import churn should compress to nothing, got %v", cc.Lines)
	}
}

func TestCompressPreservesHunkOrder(t *testing.T) {
	first := "@@ -1,1 +1,1 @@\n+func First() {\n"
	second := "@@ -20,1 +20,1 @@\n+func Second() {\n"
	fc := model.FileChange{Path: "ab.go", Hunks: []string{first, second}}

	cc := Compress(fc, model.PriorityLow)
	if len(cc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", cc.Lines)
	}
	if cc.Lines[0].Number != 1 || cc.Lines[1].Number != 20 {
		t.Errorf("hunk order broken: %+v", cc.Lines)
	}
}

// Re-applying the rules to already-kept lines must keep every one of
// them: compression is idempotent.
func TestCompressionIdempotent(t *testing.T) {
	fc := model.FileChange{Path: "app/handler.py", Hunks: []string{pythonHunk}}
	cc := Compress(fc, model.PriorityHigh)
	if cc.Empty() {
		t.Fatal("fixture compressed to nothing")
	}

	for _, l := range cc.Lines {
		lc := lineContext{text: l.Text, trimmed: strings.TrimSpace(l.Text), op: l.Op}
		if !keepLine(lc) {
			t.Errorf("kept line %q was dropped on second pass", l.Text)
		}
	}
}

func TestCompressedTokensNeverExceedRawEstimate(t *testing.T) {
	raws := []string{pythonHunk,
		"@@ -5,3 +5,3 @@\n-def  spaced( x ):\n+def spaced(x):\n+    return x * 2\n",
		"@@ -1,4 +1,4 @@\n+func A() {\n+\tif x {\n+\t\treturn\n+\t}\n",
	}
	for _, raw := range raws {
		fc := model.FileChange{Path: "f.go", Hunks: []string{raw}}
		cc := Compress(fc, model.PriorityLow)
		if rawTokens := EstimateTokens(raw); cc.Tokens > rawTokens {
			t.Errorf("compressed %d tokens exceeds raw %d for %q", cc.Tokens, rawTokens, raw)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
		{strings.Repeat("x", 401), 101},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%d chars) = %d, want %d", len(tt.text), got, tt.want)
		}
	}
}

func TestParseHunkNoNewlineMarker(t *testing.T) {
	hunk := "@@ -1,1 +1,1 @@\n+return 1\n\\ No newline at end of file\n"
	lines, ok := parseHunk(hunk)
	if !ok {
		t.Fatal("hunk should parse")
	}
	if len(lines) != 1 {
		t.Fatalf("marker line should be skipped, got %v", lines)
	}
}
