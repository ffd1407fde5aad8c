package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chomins/autocommit/internal/diff"
	"github.com/chomins/autocommit/internal/model"
)

type lineKind int

const (
	lineSection lineKind = iota
	lineFinding
	lineSignature
	lineBlank
	lineText
)

// renderedLine is one display line of the findings pane.
type renderedLine struct {
	kind    lineKind
	text    string         // section headers, plain text
	finding *model.Finding // set for lineFinding
	number  int            // original line number for signatures
	op      rune           // diff op for signatures
	spans   []diff.Span    // syntax spans for signatures
}

// renderFile produces the findings pane content for one included change:
// the findings attached to its path, then the signature lines that were
// shown to the model.
func renderFile(cc model.CompressedChange, findings []model.Finding) []renderedLine {
	var lines []renderedLine

	if len(findings) == 0 {
		lines = append(lines, renderedLine{kind: lineText, text: "No findings for this file."})
	} else {
		lines = append(lines, renderedLine{kind: lineSection, text: "Findings"})
		for i := range findings {
			lines = append(lines, renderedLine{kind: lineFinding, finding: &findings[i]})
		}
	}

	if len(cc.Lines) > 0 {
		lines = append(lines, renderedLine{kind: lineBlank})
		lines = append(lines, renderedLine{kind: lineSection, text: "Reviewed lines"})

		highlighted := diff.HighlightChange(cc.Path, cc.Lines)
		for i, cl := range cc.Lines {
			rl := renderedLine{
				kind:   lineSignature,
				number: cl.Number,
				op:     cl.Op,
				text:   cl.Text,
			}
			if i < len(highlighted) {
				rl.spans = highlighted[i].Spans
			}
			lines = append(lines, rl)
		}
	}

	return lines
}

// generalFindings are findings with no path, or whose path matches no
// included file; they render under a synthetic "General" entry.
func generalFindings(res *model.ReviewResult, included []model.CompressedChange) []model.Finding {
	known := make(map[string]bool, len(included))
	for _, cc := range included {
		known[cc.Path] = true
	}
	var out []model.Finding
	for _, f := range res.Findings {
		if !known[f.Location.Path] {
			out = append(out, f)
		}
	}
	return out
}

// styleLine renders one line of the findings pane at the given width.
func styleLine(rl renderedLine, width int) string {
	switch rl.kind {
	case lineBlank:
		return ""
	case lineSection:
		return sectionHeaderStyle.Render(rl.text)
	case lineText:
		return helpBarStyle.Render(truncate(rl.text, width))
	case lineFinding:
		return styleFinding(*rl.finding, width)
	default:
		return styleSignature(rl, width)
	}
}

func styleFinding(f model.Finding, width int) string {
	label := categoryStyle(f.Category).Render("[" + f.Category.String() + "]")
	msg := truncate(f.Message, width-lipgloss.Width(label)-1)
	line := label + " " + findingMessageStyle.Render(msg)
	if loc := f.Location.String(); loc != "" {
		line += " " + locationStyle.Render("("+loc+")")
	}
	return line
}

func styleSignature(rl renderedLine, width int) string {
	num := lineNumberStyle.Render(fmt.Sprintf("%d", rl.number))

	var opStyle lipgloss.Style
	switch rl.op {
	case '+':
		opStyle = addedLineStyle
	case '-':
		opStyle = deletedLineStyle
	default:
		opStyle = contextLineStyle
	}

	maxContent := width - 8
	if rl.op != ' ' || len(rl.spans) == 0 {
		// Changed lines keep the diff color over syntax color so the
		// change direction stays visible.
		return num + " " + opStyle.Render(string(rl.op)+truncate(rl.text, maxContent))
	}

	var b strings.Builder
	b.WriteString(num)
	b.WriteString("  ")
	for _, span := range rl.spans {
		if span.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(span.Color)).Render(span.Text))
		} else {
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) > max {
		return s[:max-1] + "…"
	}
	return s
}
