// Package readiness turns a pasted job description into a placement readiness report:
// keyword skill extraction, a heuristic score, company profiling, interview round
// mapping and template-driven plan, checklist and question generation.
package readiness

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine builds reports from submissions. It is safe for concurrent use; all of
// its state is fixed at construction.
type Engine struct {
	catalog    Catalog
	matchers   []categoryMatcher
	enterprise []string
	now        func() time.Time
	newID      func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides report id minting.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// NewEngine constructs an Engine over catalog. The catalog is copied.
func NewEngine(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: copyCatalog(catalog),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   newReportID,
	}
	e.matchers = compileMatchers(e.catalog)
	e.enterprise = e.catalog.normalizedEnterpriseNames()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns a copy of the tables the engine was built with.
func (e *Engine) Catalog() Catalog {
	return copyCatalog(e.catalog)
}

// BuildReport runs every stage once over sub and assembles a fresh report.
// Empty text is tolerated and yields the fallback skill bucket.
func (e *Engine) BuildReport(sub Submission) Report {
	sub.Company = strings.TrimSpace(sub.Company)
	sub.Role = strings.TrimSpace(sub.Role)

	skills := e.ExtractSkills(sub.Text)
	base := e.CalculateScore(sub)
	profile := e.ProfileCompany(sub.Company)
	confidence := DefaultConfidence(skills, nil)
	now := e.now()

	return Report{
		ID:                 e.newID(),
		CreatedAt:          now,
		UpdatedAt:          now,
		Company:            sub.Company,
		Role:               sub.Role,
		Text:               sub.Text,
		ExtractedSkills:    skills,
		Profile:            profile,
		Rounds:             MapRounds(profile, skills),
		Plan:               GeneratePlan(skills),
		Checklist:          GenerateChecklist(skills),
		Questions:          GenerateQuestions(skills),
		BaseScore:          base,
		SkillConfidenceMap: confidence,
		LiveScore:          base,
	}
}

func newReportID() string {
	// v7 ids are time-ordered, so later reports sort after earlier ones.
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func copyCatalog(c Catalog) Catalog {
	out := Catalog{
		Categories:      make([]CategoryKeywords, len(c.Categories)),
		EnterpriseNames: append([]string(nil), c.EnterpriseNames...),
		FallbackSkills:  append([]string(nil), c.FallbackSkills...),
	}
	for i, entry := range c.Categories {
		out.Categories[i] = CategoryKeywords{
			Category: entry.Category,
			Keywords: append([]string(nil), entry.Keywords...),
		}
	}
	return out
}
