package review

import (
	"fmt"
	"strings"

	"github.com/chomins/autocommit/internal/compress"
	"github.com/chomins/autocommit/internal/model"
)

// Fixed instruction headers. These consume budget, so they stay short;
// the scope line is what varies analysis depth across levels.
const (
	replyFormat = `Start each finding with its category (Bug, Security, Performance, Architecture, Style, Note) and a colon. Reference code as path:line. Reply "No issues found." if the changes are clean.`

	quickScope    = "Report only critical bugs and security flaws. At most 3 findings."
	normalScope   = "Report bugs, security flaws, quality problems, and missed edge cases. At most 7 findings."
	detailedScope = "Report bugs, security flaws, performance problems, architectural concerns, and style issues. Be thorough."
)

func headerFor(level model.ReviewLevel) string {
	scope := normalScope
	switch level {
	case model.LevelQuick:
		scope = quickScope
	case model.LevelDetailed:
		scope = detailedScope
	}
	return "You are reviewing a compressed code diff.\n" + scope + "\n" + replyFormat + "\n"
}

// BuildRequest packs compressed changes into a single bounded prompt.
// Packing walks high-tier changes first, keeping the original order
// inside each tier, and accumulates sections while the estimate of the
// whole prompt stays within budget. When the very first change already
// overflows it is cut to its largest fitting line prefix; otherwise the
// scan stops at the first change that does not fit and everything left
// counts as omitted. Identical inputs produce identical requests.
func BuildRequest(changes []model.CompressedChange, level model.ReviewLevel, budget int) model.ReviewRequest {
	ordered := orderByPriority(changes)
	req := model.ReviewRequest{Level: level, TokenBudget: budget}

	var b strings.Builder
	b.WriteString(headerFor(level))

	for i, cc := range ordered {
		section := renderChange(cc, cc.Lines)
		if compress.EstimateTokens(b.String()+section) <= budget {
			b.WriteString(section)
			req.Included = append(req.Included, cc)
			continue
		}

		if len(req.Included) == 0 {
			// Nothing packed yet: keep the largest line prefix that
			// fits, floored at one line.
			kept := truncateToFit(cc, b.String(), budget)
			b.WriteString(renderChange(kept, kept.Lines))
			req.Included = append(req.Included, kept)
			req.OmittedFiles = len(ordered) - i - 1
		} else {
			req.OmittedFiles = len(ordered) - i
		}
		break
	}

	req.Prompt = b.String()
	return req
}

// orderByPriority puts high-tier changes before low-tier ones, keeping
// the collector's original order inside each tier.
func orderByPriority(changes []model.CompressedChange) []model.CompressedChange {
	out := make([]model.CompressedChange, 0, len(changes))
	for _, cc := range changes {
		if cc.Priority == model.PriorityHigh {
			out = append(out, cc)
		}
	}
	for _, cc := range changes {
		if cc.Priority != model.PriorityHigh {
			out = append(out, cc)
		}
	}
	return out
}

// renderChange formats one file section of the prompt.
func renderChange(cc model.CompressedChange, lines []model.CompressedLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n### %s (%s)\n", cc.Path, cc.Kind)
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// truncateToFit returns a copy of cc holding the largest line prefix
// whose rendered section still fits after prefix, never fewer than one
// line when any exist.
func truncateToFit(cc model.CompressedChange, prompt string, budget int) model.CompressedChange {
	kept := cc
	kept.Lines = nil

	for k := 1; k <= len(cc.Lines); k++ {
		section := renderChange(cc, cc.Lines[:k])
		if compress.EstimateTokens(prompt+section) > budget && k > 1 {
			break
		}
		kept.Lines = cc.Lines[:k]
	}

	kept.Tokens = compress.EstimateTokens(compress.ChangeText(kept.Lines))
	return kept
}
