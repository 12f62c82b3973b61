package readiness

import (
	"regexp"
	"sort"
	"strings"
)

var wordOnly = regexp.MustCompile(`^\w+$`)

// keywordMatcher tests one keyword against lower-cased text.
type keywordMatcher struct {
	keyword string
	pattern *regexp.Regexp
	needle  string
}

func newKeywordMatcher(keyword string) keywordMatcher {
	lower := strings.ToLower(strings.TrimSpace(keyword))
	m := keywordMatcher{keyword: keyword, needle: lower}
	// \b is unreliable next to punctuation ("c++", "ci/cd"), so those fall back to containment.
	if wordOnly.MatchString(lower) {
		m.pattern = regexp.MustCompile(`\b` + regexp.QuoteMeta(lower) + `\b`)
	}
	return m
}

func (m keywordMatcher) match(lowerText string) bool {
	if m.needle == "" {
		return false
	}
	if m.pattern != nil {
		return m.pattern.MatchString(lowerText)
	}
	return strings.Contains(lowerText, m.needle)
}

type categoryMatcher struct {
	category SkillCategory
	keywords []keywordMatcher
}

func compileMatchers(catalog Catalog) []categoryMatcher {
	out := make([]categoryMatcher, 0, len(catalog.Categories))
	for _, entry := range catalog.Categories {
		cm := categoryMatcher{category: entry.Category}
		seen := make(map[string]bool, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			key := strings.ToLower(strings.TrimSpace(kw))
			if seen[key] {
				continue
			}
			seen[key] = true
			cm.keywords = append(cm.keywords, newKeywordMatcher(kw))
		}
		out = append(out, cm)
	}
	return out
}

// ExtractSkills returns the categorized keywords found in text. When nothing matches
// the result holds only the fallback Other bucket.
func (e *Engine) ExtractSkills(text string) ExtractedSkills {
	detected := e.matchCategories(text)
	if len(detected) == 0 && len(e.catalog.FallbackSkills) > 0 {
		detected[CategoryOther] = append([]string(nil), e.catalog.FallbackSkills...)
	}
	return detected
}

func (e *Engine) matchCategories(text string) ExtractedSkills {
	lower := strings.ToLower(text)
	detected := make(ExtractedSkills)
	for _, cm := range e.matchers {
		var matched []string
		for _, km := range cm.keywords {
			if km.match(lower) {
				matched = append(matched, km.keyword)
			}
		}
		if len(matched) > 0 {
			detected[cm.category] = matched
		}
	}
	return detected
}

func sortCategories(items []SkillCategory) {
	sort.Slice(items, func(i, j int) bool {
		return items[i] < items[j]
	})
}
