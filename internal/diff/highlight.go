package diff

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/chomins/autocommit/internal/model"
)

// Span is a syntax-colored chunk of one line.
type Span struct {
	Text  string
	Color string // hex color, empty for the terminal default
}

// HighlightedLine is one source line split into colored spans.
type HighlightedLine struct {
	Spans []Span
}

// Plain returns the line text without coloring.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, s := range hl.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// HighlightChange colors the kept lines of a compressed change using the
// lexer matching the file's name. Files without a known lexer come back
// as plain single-span lines. The result has exactly one entry per input
// line, in order.
func HighlightChange(path string, lines []model.CompressedLine) []HighlightedLine {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return highlight(path, texts)
}

func highlight(path string, texts []string) []HighlightedLine {
	lexer := lexerFor(path)
	if lexer == nil {
		return plain(texts)
	}

	iterator, err := lexer.Tokenise(nil, strings.Join(texts, "\n"))
	if err != nil {
		return plain(texts)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	out := make([]HighlightedLine, 0, len(texts))
	var current HighlightedLine
	for _, tok := range iterator.Tokens() {
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, current)
				current = HighlightedLine{}
			}
			if part == "" {
				continue
			}
			current.Spans = append(current.Spans, Span{Text: part, Color: colorOf(style, tok.Type)})
		}
	}
	out = append(out, current)

	// Tokenization can swallow trailing blank lines.
	for len(out) < len(texts) {
		out = append(out, HighlightedLine{})
	}
	return out[:len(texts)]
}

func plain(texts []string) []HighlightedLine {
	out := make([]HighlightedLine, len(texts))
	for i, t := range texts {
		out[i] = HighlightedLine{Spans: []Span{{Text: t}}}
	}
	return out
}

func lexerFor(path string) chroma.Lexer {
	lexer := lexers.Match(path)
	if lexer == nil {
		if ext := filepath.Ext(path); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func colorOf(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
