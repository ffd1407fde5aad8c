// Package model defines the core data types shared across autocommit.
package model

import (
	"fmt"
	"strings"
)

// ChangeKind describes what happened to a file in a diff.
type ChangeKind int

const (
	KindModified ChangeKind = iota
	KindAdded
	KindDeleted
	KindRenamed
)

func (k ChangeKind) String() string {
	switch k {
	case KindModified:
		return "modified"
	case KindAdded:
		return "added"
	case KindDeleted:
		return "deleted"
	case KindRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Priority ranks a file for review inclusion and pack order.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityHigh
	PriorityExcluded
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	case PriorityExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// ReviewLevel is the depth of analysis requested from the model.
// The zero value means "no explicit choice"; selection falls through
// to auto-adjust or the configured default.
type ReviewLevel int

const (
	LevelUnset ReviewLevel = iota
	LevelQuick
	LevelNormal
	LevelDetailed
)

func (l ReviewLevel) String() string {
	switch l {
	case LevelQuick:
		return "quick"
	case LevelNormal:
		return "normal"
	case LevelDetailed:
		return "detailed"
	default:
		return ""
	}
}

// ParseLevel converts a level name from a flag or config file.
// An empty string parses to LevelUnset.
func ParseLevel(s string) (ReviewLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return LevelUnset, nil
	case "quick":
		return LevelQuick, nil
	case "normal":
		return LevelNormal, nil
	case "detailed":
		return LevelDetailed, nil
	default:
		return LevelUnset, fmt.Errorf("unknown review level %q (want quick, normal, or detailed)", s)
	}
}

// Category classifies a review finding.
type Category int

const (
	CategoryNote Category = iota
	CategoryBug
	CategorySecurity
	CategoryPerformance
	CategoryArchitecture
	CategoryStyle
)

func (c Category) String() string {
	switch c {
	case CategoryBug:
		return "bug"
	case CategorySecurity:
		return "security"
	case CategoryPerformance:
		return "performance"
	case CategoryArchitecture:
		return "architecture"
	case CategoryStyle:
		return "style"
	default:
		return "note"
	}
}

// Blocking reports whether findings of this category should gate a commit.
func (c Category) Blocking() bool {
	return c == CategoryBug || c == CategorySecurity
}

// Status summarizes the outcome of parsing a model reply.
type Status int

const (
	StatusClean Status = iota
	StatusFindings
	StatusUnparsed
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusFindings:
		return "findings"
	case StatusUnparsed:
		return "unparsed"
	default:
		return "unknown"
	}
}

// FileChange is one changed file as reported by the collector.
// Hunks hold raw unified-diff hunk text, each starting with its @@ header.
// Values are never mutated after creation.
type FileChange struct {
	Path         string
	OldPath      string // set for renames
	Kind         ChangeKind
	LinesAdded   int
	LinesRemoved int
	Hunks        []string
}

// Name returns the display name for the change.
func (fc FileChange) Name() string {
	if fc.Kind == KindRenamed && fc.OldPath != "" {
		return fc.OldPath + " -> " + fc.Path
	}
	return fc.Path
}

// TotalLines is the aggregate churn of the change.
func (fc FileChange) TotalLines() int {
	return fc.LinesAdded + fc.LinesRemoved
}

// CompressedLine is one retained line of a compressed diff.
// Number is the new-file line for added/context lines and the
// old-file line for deleted lines.
type CompressedLine struct {
	Number int
	Op     rune // '+', '-' or ' '
	Text   string
}

func (cl CompressedLine) String() string {
	return fmt.Sprintf("%c%4d| %s", cl.Op, cl.Number, cl.Text)
}

// CompressedChange is the token-efficient form of one FileChange.
type CompressedChange struct {
	Path     string
	Kind     ChangeKind
	Priority Priority
	Lines    []CompressedLine
	Tokens   int
}

// Empty reports whether compression retained nothing.
func (cc CompressedChange) Empty() bool {
	return len(cc.Lines) == 0
}

// ReviewRequest is the packed, budget-bounded input for one model call.
// Built fresh per invocation and consumed exactly once.
type ReviewRequest struct {
	Level        ReviewLevel
	TokenBudget  int
	Included     []CompressedChange
	OmittedFiles int
	Prompt       string
}

// Location points a finding at a file and, when known, a line.
type Location struct {
	Path string
	Line int // 0 when unknown
}

func (l Location) String() string {
	if l.Path == "" {
		return ""
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	}
	return l.Path
}

// Finding is one structured item extracted from the model reply.
type Finding struct {
	Category Category
	Location Location
	Message  string
}

func (f Finding) String() string {
	if loc := f.Location.String(); loc != "" {
		return fmt.Sprintf("[%s] %s: %s", f.Category, loc, f.Message)
	}
	return fmt.Sprintf("[%s] %s", f.Category, f.Message)
}

// ReviewResult is the terminal artifact of one engine run.
type ReviewResult struct {
	Level        ReviewLevel
	Findings     []Finding
	TokensUsed   int
	Status       Status
	OmittedFiles int
}

// ByFile returns findings grouped by path; findings without a path
// group under the empty key.
func (r *ReviewResult) ByFile() map[string][]Finding {
	m := make(map[string][]Finding)
	for _, f := range r.Findings {
		m[f.Location.Path] = append(m[f.Location.Path], f)
	}
	return m
}

// CountByCategory tallies findings per category.
func (r *ReviewResult) CountByCategory() map[Category]int {
	m := make(map[Category]int)
	for _, f := range r.Findings {
		m[f.Category]++
	}
	return m
}

// HasBlocking reports whether any finding should gate a commit.
func (r *ReviewResult) HasBlocking() bool {
	for _, f := range r.Findings {
		if f.Category.Blocking() {
			return true
		}
	}
	return false
}

// Summary returns a one-line summary of the result.
func (r *ReviewResult) Summary() string {
	switch r.Status {
	case StatusClean:
		return "No issues found"
	case StatusUnparsed:
		return "Reply could not be parsed; raw text kept"
	}

	counts := r.CountByCategory()
	var parts []string
	for _, c := range []Category{CategoryBug, CategorySecurity, CategoryPerformance, CategoryArchitecture, CategoryStyle, CategoryNote} {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	return strings.Join(parts, ", ")
}
