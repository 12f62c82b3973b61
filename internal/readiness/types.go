package readiness

import "time"

// SkillCategory is one of the fixed keyword buckets.
type SkillCategory string

const (
	CategoryCoreCS    SkillCategory = "Core CS"
	CategoryLanguages SkillCategory = "Languages"
	CategoryWeb       SkillCategory = "Web"
	CategoryData      SkillCategory = "Data"
	CategoryCloud     SkillCategory = "Cloud/DevOps"
	CategoryTesting   SkillCategory = "Testing"
	CategoryOther     SkillCategory = "Other"
)

// CategoryOrder is the display and flattening order of categories.
var CategoryOrder = []SkillCategory{
	CategoryCoreCS,
	CategoryLanguages,
	CategoryWeb,
	CategoryData,
	CategoryCloud,
	CategoryTesting,
	CategoryOther,
}

// ExtractedSkills maps a category to its matched keywords in declaration order.
// Categories without matches are absent.
type ExtractedSkills map[SkillCategory][]string

// Has reports whether the category has at least one skill.
func (s ExtractedSkills) Has(category SkillCategory) bool {
	return len(s[category]) > 0
}

// Flatten returns every skill in category order.
func (s ExtractedSkills) Flatten() []string {
	out := make([]string, 0, 16)
	for _, category := range s.Categories() {
		out = append(out, s[category]...)
	}
	return out
}

// Categories returns populated categories, known ones first in CategoryOrder and
// unknown ones (from hand-edited records) after them in name order.
func (s ExtractedSkills) Categories() []SkillCategory {
	out := make([]SkillCategory, 0, len(s))
	known := make(map[SkillCategory]bool, len(CategoryOrder))
	for _, category := range CategoryOrder {
		known[category] = true
		if len(s[category]) > 0 {
			out = append(out, category)
		}
	}
	extra := make([]SkillCategory, 0)
	for category, skills := range s {
		if !known[category] && len(skills) > 0 {
			extra = append(extra, category)
		}
	}
	sortCategories(extra)
	return append(out, extra...)
}

// Clone returns a deep copy.
func (s ExtractedSkills) Clone() ExtractedSkills {
	out := make(ExtractedSkills, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// SizeClass is the coarse company size bucket.
type SizeClass string

const (
	SizeEnterprise SizeClass = "enterprise"
	SizeStartup    SizeClass = "startup"
)

// CompanyProfile is the heuristic company classification embedded in a report.
type CompanyProfile struct {
	Name         string    `json:"name"`
	Industry     string    `json:"industry"`
	SizeClass    SizeClass `json:"sizeClass"`
	SizeLabel    string    `json:"sizeLabel"`
	StrategyNote string    `json:"strategyNote"`
}

// RoundDescriptor is one interview stage.
type RoundDescriptor struct {
	Title      string   `json:"title"`
	FocusAreas []string `json:"focusAreas"`
	Rationale  string   `json:"rationale"`
}

// PlanEntry is one day of the preparation plan.
type PlanEntry struct {
	Label               string `json:"label"`
	FocusTitle          string `json:"focusTitle"`
	ActivityDescription string `json:"activityDescription"`
}

// ChecklistRound groups checklist items under a round title.
type ChecklistRound struct {
	RoundTitle string   `json:"roundTitle"`
	Items      []string `json:"items"`
}

// Confidence is the user-declared state of a skill.
type Confidence string

const (
	Known         Confidence = "known"
	NeedsPractice Confidence = "needs_practice"
)

// Valid reports whether c is one of the declared statuses.
func (c Confidence) Valid() bool {
	return c == Known || c == NeedsPractice
}

// Flip returns the opposite status. Anything not Known flips to Known.
func (c Confidence) Flip() Confidence {
	if c == Known {
		return NeedsPractice
	}
	return Known
}

// Submission is the raw input from the UI.
type Submission struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Text    string `json:"text"`
}

// Report is the persisted analysis snapshot.
type Report struct {
	ID                 string                `json:"id"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
	Company            string                `json:"company"`
	Role               string                `json:"role"`
	Text               string                `json:"text"`
	ExtractedSkills    ExtractedSkills       `json:"extractedSkills"`
	Profile            *CompanyProfile       `json:"profile,omitempty"`
	Rounds             []RoundDescriptor     `json:"rounds"`
	Plan               []PlanEntry           `json:"plan"`
	Checklist          []ChecklistRound      `json:"checklist"`
	Questions          []string              `json:"questions"`
	BaseScore          int                   `json:"baseScore"`
	SkillConfidenceMap map[string]Confidence `json:"skillConfidenceMap"`
	LiveScore          int                   `json:"liveScore"`
}

// Clone returns a deep copy so callers never share slices or maps with storage.
func (r Report) Clone() Report {
	out := r
	out.ExtractedSkills = r.ExtractedSkills.Clone()
	if r.Profile != nil {
		p := *r.Profile
		out.Profile = &p
	}
	out.Rounds = make([]RoundDescriptor, len(r.Rounds))
	for i, round := range r.Rounds {
		round.FocusAreas = append([]string(nil), round.FocusAreas...)
		out.Rounds[i] = round
	}
	out.Plan = append([]PlanEntry(nil), r.Plan...)
	out.Checklist = make([]ChecklistRound, len(r.Checklist))
	for i, round := range r.Checklist {
		round.Items = append([]string(nil), round.Items...)
		out.Checklist[i] = round
	}
	out.Questions = append([]string(nil), r.Questions...)
	out.SkillConfidenceMap = make(map[string]Confidence, len(r.SkillConfidenceMap))
	for k, v := range r.SkillConfidenceMap {
		out.SkillConfidenceMap[k] = v
	}
	return out
}

// Summary is the list-view projection of a report.
type Summary struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	LiveScore int       `json:"liveScore"`
}

// Summarize projects r into a Summary.
func (r Report) Summarize() Summary {
	return Summary{
		ID:        r.ID,
		Company:   r.Company,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
		LiveScore: r.LiveScore,
	}
}
