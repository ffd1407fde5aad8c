// Package compress reduces raw diffs to token-efficient signature lines
// and ranks files for review priority. Both the line-retention and the
// path-classification logic are ordered predicate lists: the first
// matching rule decides, so behavior is deterministic and individually
// testable.
package compress

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chomins/autocommit/internal/model"
)

// hunkHeaderRe matches "@@ -a[,b] +c[,d] @@" with an optional section note.
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// diffLine is one parsed line of a hunk body.
type diffLine struct {
	op       rune // '+', '-' or ' '
	text     string
	number   int // new-file number for '+'/' ', old-file number for '-'
	reformat bool
}

// Compress reduces one change to its signature lines, preserving hunk
// order and in-hunk order. A change whose hunks cannot be parsed yields
// an empty CompressedChange with zero tokens; one corrupt file must not
// abort the batch.
func Compress(fc model.FileChange, prio model.Priority) model.CompressedChange {
	cc := model.CompressedChange{Path: fc.Path, Kind: fc.Kind, Priority: prio}

	parsed := make([][]diffLine, 0, len(fc.Hunks))
	for _, hunk := range fc.Hunks {
		lines, ok := parseHunk(hunk)
		if !ok {
			return model.CompressedChange{Path: fc.Path, Kind: fc.Kind, Priority: prio}
		}
		parsed = append(parsed, lines)
	}

	for _, lines := range parsed {
		markReformatPairs(lines)
		for _, ln := range lines {
			lc := lineContext{
				text:     ln.text,
				trimmed:  strings.TrimSpace(ln.text),
				op:       ln.op,
				reformat: ln.reformat,
			}
			if keepLine(lc) {
				cc.Lines = append(cc.Lines, model.CompressedLine{
					Number: ln.number,
					Op:     ln.op,
					Text:   ln.text,
				})
			}
		}
	}

	cc.Tokens = EstimateTokens(ChangeText(cc.Lines))
	return cc
}

// ChangeText renders kept lines in plain diff form (op prefix, no
// decoration). Token estimates over this form are always at or below the
// estimate of the uncompressed hunks, since kept lines are a subset and
// hunk headers are gone.
func ChangeText(lines []model.CompressedLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteRune(l.Op)
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// parseHunk splits one raw hunk into op-tagged lines with original
// numbering. Returns false for input that is not a well-formed hunk.
func parseHunk(hunk string) ([]diffLine, bool) {
	raw := strings.Split(hunk, "\n")
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	if len(raw) == 0 {
		return nil, false
	}

	m := hunkHeaderRe.FindStringSubmatch(raw[0])
	if m == nil {
		return nil, false
	}
	oldN, _ := strconv.Atoi(m[1])
	newN, _ := strconv.Atoi(m[3])

	var out []diffLine
	for _, line := range raw[1:] {
		if line == "" {
			// Blank context line with its leading space trimmed by transit.
			out = append(out, diffLine{op: ' ', text: "", number: newN})
			oldN++
			newN++
			continue
		}
		switch line[0] {
		case '+':
			out = append(out, diffLine{op: '+', text: line[1:], number: newN})
			newN++
		case '-':
			out = append(out, diffLine{op: '-', text: line[1:], number: oldN})
			oldN++
		case ' ':
			out = append(out, diffLine{op: ' ', text: line[1:], number: newN})
			oldN++
			newN++
		case '\\':
			// "\ No newline at end of file" — carries no content.
		default:
			return nil, false
		}
	}
	return out, true
}
