// Package reply turns free-form model output into structured review
// findings. Parsing is heuristic, not a grammar: category markers open
// findings, file headings scope locations, and anything unrecognizable
// degrades to a single note rather than an error.
package reply

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chomins/autocommit/internal/model"
)

// locationRe finds the first path:line token in a finding's text.
var locationRe = regexp.MustCompile(`([\w./\\-]+\.\w+):(\d+)`)

// markerRes map line-start keywords to categories. Order matters: the
// first expression that matches the normalized line start decides.
var markerRes = []struct {
	re  *regexp.Regexp
	cat model.Category
}{
	{regexp.MustCompile(`^(?:bugs?|errors?|critical|defects?)\b`), model.CategoryBug},
	{regexp.MustCompile(`^(?:security|vulnerab\w*)\b`), model.CategorySecurity},
	{regexp.MustCompile(`^(?:performance|optimi\w*)\b`), model.CategoryPerformance},
	{regexp.MustCompile(`^(?:architecture|architectural|design)\b`), model.CategoryArchitecture},
	{regexp.MustCompile(`^(?:style|naming|conventions?|formatting)\b`), model.CategoryStyle},
	{regexp.MustCompile(`^(?:notes?|suggestions?|nitpicks?|minor|improvements?|info)\b`), model.CategoryNote},
}

// cleanPhrases mark an explicit all-clear reply.
var cleanPhrases = []string{
	"no issues", "no problems", "no findings", "looks good", "lgtm",
	"nothing to report", "all clear",
}

var listNumRe = regexp.MustCompile(`^\d{1,3}[.)]\s*`)

// pathTokenRe accepts tokens that plausibly name a file: an extension
// or at least one path separator, and no spaces.
var pathTokenRe = regexp.MustCompile(`^[\w./\\-]+\.\w+$|^[\w./\\-]+/[\w./\\-]+$`)

// Parse maps a raw model reply onto a ReviewResult for the given level.
// Status is clean for empty or explicit no-issue replies, unparsed when
// no category marker was recognized anywhere (the raw text survives as
// one note finding), and findings otherwise.
func Parse(raw string, level model.ReviewLevel) *model.ReviewResult {
	res := &model.ReviewResult{Level: level}

	body := stripFences(raw)

	p := parser{}
	for _, line := range strings.Split(body, "\n") {
		p.feed(line)
	}
	p.close()

	if len(p.findings) == 0 {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || looksClean(trimmed) {
			res.Status = model.StatusClean
			return res
		}
		res.Status = model.StatusUnparsed
		res.Findings = []model.Finding{{Category: model.CategoryNote, Message: trimmed}}
		return res
	}

	res.Status = model.StatusFindings
	res.Findings = p.findings
	return res
}

// pending is a finding under construction.
type pending struct {
	cat   model.Category
	file  string // file heading in effect when the finding opened
	parts []string
}

type parser struct {
	findings   []model.Finding
	current    *pending
	section    model.Category
	hasSection bool
	file       string
}

func (p *parser) feed(line string) {
	if strings.TrimSpace(line) == "" {
		p.close() // paragraph boundary
		return
	}

	if path, ok := fileHeading(line); ok {
		p.close()
		p.file = path
		return
	}

	stripped, isList := stripLead(line)

	if cat, rest, ok := detectMarker(stripped); ok {
		p.close()
		if isSectionRest(rest) {
			p.section = cat
			p.hasSection = true
			return
		}
		p.current = &pending{cat: cat, file: p.file, parts: []string{rest}}
		return
	}

	if isList && p.hasSection {
		p.close()
		p.current = &pending{cat: p.section, file: p.file, parts: []string{stripped}}
		return
	}

	if p.current != nil {
		p.current.parts = append(p.current.parts, stripped)
		return
	}

	if p.hasSection {
		p.current = &pending{cat: p.section, file: p.file, parts: []string{stripped}}
	}
	// Prose outside any recognized structure is commentary; drop it.
}

// close finalizes the finding under construction, resolving its location
// from the first path:line token or the surrounding file heading.
func (p *parser) close() {
	if p.current == nil {
		return
	}
	msg := strings.TrimSpace(strings.Join(p.current.parts, " "))
	if msg == "" {
		p.current = nil
		return
	}

	f := model.Finding{Category: p.current.cat, Message: msg}
	if m := locationRe.FindStringSubmatch(msg); m != nil {
		f.Location.Path = m[1]
		f.Location.Line, _ = strconv.Atoi(m[2])
	} else if p.current.file != "" {
		f.Location.Path = p.current.file
	}

	p.findings = append(p.findings, f)
	p.current = nil
}

// stripLead removes list and heading decoration from a line start and
// reports whether a list marker was present.
func stripLead(line string) (string, bool) {
	s := strings.TrimSpace(line)
	list := false
	for {
		switch {
		case strings.HasPrefix(s, "- "):
			s = strings.TrimSpace(s[2:])
			list = true
		case strings.HasPrefix(s, "* "):
			s = strings.TrimSpace(s[2:])
			list = true
		case strings.HasPrefix(s, "• "):
			s = strings.TrimSpace(strings.TrimPrefix(s, "• "))
			list = true
		case strings.HasPrefix(s, "> "):
			s = strings.TrimSpace(s[2:])
		case strings.HasPrefix(s, "#"):
			s = strings.TrimSpace(strings.TrimLeft(s, "#"))
		case listNumRe.MatchString(s):
			s = listNumRe.ReplaceAllString(s, "")
			list = true
		case strings.HasPrefix(s, "**"):
			s = s[2:]
		case strings.HasPrefix(s, "__"):
			s = s[2:]
		case strings.HasPrefix(s, "["):
			s = s[1:]
		case strings.HasPrefix(s, "`"):
			s = s[1:]
		default:
			return s, list
		}
	}
}

// detectMarker checks a decoration-stripped line for a category keyword
// at its start. rest is whatever follows the keyword and its separator.
func detectMarker(stripped string) (model.Category, string, bool) {
	lower := strings.ToLower(stripped)
	for _, m := range markerRes {
		loc := m.re.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		rest := strings.TrimLeft(stripped[loc[1]:], " \t:*_`]-.)(")
		return m.cat, rest, true
	}
	return model.CategoryNote, "", false
}

// isSectionRest reports whether the text after a marker is empty enough
// that the marker is a section heading ("### Bugs", "Security (2):")
// rather than an inline finding.
func isSectionRest(rest string) bool {
	return strings.Trim(rest, " \t()0123456789:.-*") == ""
}

// fileHeading recognizes lines that scope subsequent findings to a file:
// "File: path", a heading whose payload is a lone path token, or a bare
// path token line.
func fileHeading(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "", false
	}

	if strings.HasPrefix(s, "#") {
		s = strings.TrimSpace(strings.TrimLeft(s, "#"))
	}
	if len(s) >= 5 && strings.EqualFold(s[:5], "file:") {
		s = strings.TrimSpace(s[5:])
	}
	s = strings.Trim(s, "*_` ")
	s = strings.TrimSuffix(s, ":")

	if s == "" || strings.ContainsAny(s, " \t") || len(s) > 120 {
		return "", false
	}
	if !pathTokenRe.MatchString(s) {
		return "", false
	}
	return s, true
}

// stripFences removes a wrapping markdown code fence, if any.
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func looksClean(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	for _, phrase := range cleanPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return strings.Contains(trimmed, "✅")
}
