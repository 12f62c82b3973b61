package readiness

import (
	"strings"
	"unicode/utf8"
)

const (
	scoreBase          = 35
	scorePerCategory   = 5
	scoreCategoryCap   = 30
	scoreFieldBonus    = 10
	scoreLongTextBonus = 10
	longTextThreshold  = 800
	minFieldLength     = 2

	confidenceStep = 2
)

// CalculateScore returns the initial readiness score in [35, 100].
// The fallback Other bucket is not a match and does not count as a category.
func (e *Engine) CalculateScore(sub Submission) int {
	score := scoreBase

	categories := len(e.matchCategories(sub.Text))
	score += min(categories*scorePerCategory, scoreCategoryCap)

	if utf8.RuneCountInString(strings.TrimSpace(sub.Company)) > minFieldLength {
		score += scoreFieldBonus
	}
	if utf8.RuneCountInString(strings.TrimSpace(sub.Role)) > minFieldLength {
		score += scoreFieldBonus
	}
	if utf8.RuneCountInString(sub.Text) > longTextThreshold {
		score += scoreLongTextBonus
	}
	return clampScore(score)
}

// LiveScore applies the confidence recurrence: every extracted skill moves the base
// score by +2 when Known and -2 otherwise, and the result is clamped to [0, 100].
// It is a full recompute, so the outcome does not depend on toggle order.
func LiveScore(baseScore int, skills ExtractedSkills, confidence map[string]Confidence) int {
	adjustment := 0
	for _, skill := range skills.Flatten() {
		if confidence[skill] == Known {
			adjustment += confidenceStep
		} else {
			adjustment -= confidenceStep
		}
	}
	return clampScore(baseScore + adjustment)
}

// DefaultConfidence returns a map with every skill set to NeedsPractice, keeping any
// status already present in existing.
func DefaultConfidence(skills ExtractedSkills, existing map[string]Confidence) map[string]Confidence {
	out := make(map[string]Confidence, len(existing))
	for _, skill := range skills.Flatten() {
		status, ok := existing[skill]
		if !ok || !status.Valid() {
			status = NeedsPractice
		}
		out[skill] = status
	}
	return out
}

func clampScore(v int) int {
	return max(0, min(100, v))
}
