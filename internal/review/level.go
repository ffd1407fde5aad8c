package review

import "github.com/chomins/autocommit/internal/model"

// Auto-adjust thresholds over aggregate added+removed lines.
const (
	detailedMaxLines = 50
	normalMaxLines   = 200
)

// SelectLevel picks the review depth for a run. An explicit override
// always wins. With auto-adjust enabled, aggregate churn maps to a
// level; with it off the configured fallback applies regardless of
// size. The level chosen here never silently escalates to a larger
// budget.
func SelectLevel(override model.ReviewLevel, aggregateLines int, autoAdjust bool, fallback model.ReviewLevel) model.ReviewLevel {
	if override != model.LevelUnset {
		return override
	}
	if autoAdjust {
		switch {
		case aggregateLines < detailedMaxLines:
			return model.LevelDetailed
		case aggregateLines <= normalMaxLines:
			return model.LevelNormal
		default:
			return model.LevelQuick
		}
	}
	if fallback == model.LevelUnset {
		return model.LevelNormal
	}
	return fallback
}
