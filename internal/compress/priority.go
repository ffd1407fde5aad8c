package compress

import (
	"path"
	"strings"

	"github.com/chomins/autocommit/internal/model"
)

// Classified pairs a change with its computed priority for one run.
// Priority is recomputed per run because the same file may rank
// differently under different project configuration.
type Classified struct {
	Change   model.FileChange
	Priority model.Priority
}

// Classify tags a single path. Exclude patterns are checked first, in
// configured order, with case-sensitive glob semantics: a pattern
// containing '/' matches the whole path, any other pattern matches the
// basename. High-priority keywords are substring matches on the
// lowercased path. Classification never looks at diff content.
func Classify(p string, excludes, keywords []string) model.Priority {
	for _, pat := range excludes {
		var matched bool
		var err error
		if strings.ContainsRune(pat, '/') {
			matched, err = path.Match(pat, p)
		} else {
			matched, err = path.Match(pat, path.Base(p))
		}
		if err != nil {
			continue // malformed pattern, skip it
		}
		if matched {
			return model.PriorityExcluded
		}
	}

	lower := strings.ToLower(p)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return model.PriorityHigh
		}
	}
	return model.PriorityLow
}

// ClassifyChanges tags every change, preserving input order.
func ClassifyChanges(changes []model.FileChange, excludes, keywords []string) []Classified {
	out := make([]Classified, 0, len(changes))
	for _, fc := range changes {
		out = append(out, Classified{Change: fc, Priority: Classify(fc.Path, excludes, keywords)})
	}
	return out
}

// DefaultExcludePatterns is the out-of-the-box exclusion list: tests,
// docs, lockfiles, serialized data, and generated migrations.
func DefaultExcludePatterns() []string {
	return []string{
		"test_*",
		"*_test.*",
		"*.test.*",
		"*.spec.*",
		"*.md",
		"*.txt",
		"*.lock",
		"*.sum",
		"*.yml",
		"*.yaml",
		"*.json",
		"*/migrations/*",
	}
}

// DefaultHighPriorityKeywords marks conventional business-logic paths.
func DefaultHighPriorityKeywords() []string {
	return []string{
		"service", "controller", "handler", "api", "model",
		"auth", "security", "middleware", "core",
	}
}
