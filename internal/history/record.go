package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"placement-readiness/internal/readiness"
)

// currentSchemaVersion is written on every persisted record. Records without a
// version predate the server and are migrated on load.
const currentSchemaVersion = 2

var validate = validator.New()

// storedRecord is the on-disk shape of a report.
type storedRecord struct {
	SchemaVersion int `json:"schemaVersion"`
	readiness.Report
}

// recordID accepts both string ids and the numeric timestamps older records used.
type recordID string

func (id *recordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = recordID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = recordID(n.String())
	return nil
}

// rawRecord is the union of every record shape ever persisted.
type rawRecord struct {
	SchemaVersion int        `json:"schemaVersion"`
	ID            recordID   `json:"id" validate:"required"`
	CreatedAt     *time.Time `json:"createdAt" validate:"required"`
	UpdatedAt     *time.Time `json:"updatedAt"`
	Company       string     `json:"company"`
	Role          string     `json:"role"`
	Text          *string    `json:"text" validate:"required"`

	ExtractedSkills    map[string][]string         `json:"extractedSkills"`
	Profile            *readiness.CompanyProfile   `json:"profile"`
	Rounds             []readiness.RoundDescriptor `json:"rounds"`
	Plan               []readiness.PlanEntry       `json:"plan"`
	Checklist          []readiness.ChecklistRound  `json:"checklist"`
	Questions          []string                    `json:"questions"`
	BaseScore          *float64                    `json:"baseScore"`
	SkillConfidenceMap map[string]string           `json:"skillConfidenceMap"`
	LiveScore          *float64                    `json:"liveScore"`

	// v1 fields.
	JDText         *string        `json:"jdText"`
	FinalScore     *float64       `json:"finalScore"`
	ReadinessScore *float64       `json:"readinessScore"`
	Plan7Days      []legacyPlan   `json:"plan7Days"`
	RoundMapping   []legacyRound  `json:"roundMapping"`
	Intel          *legacyProfile `json:"intel"`
}

type legacyPlan struct {
	Day        string `json:"day"`
	Focus      string `json:"focus"`
	Activities string `json:"activities"`
}

type legacyRound struct {
	RoundTitle   string   `json:"roundTitle"`
	FocusAreas   []string `json:"focusAreas"`
	WhyItMatters string   `json:"whyItMatters"`
}

type legacyProfile struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
	SizeKey  string `json:"sizeKey"`
	Focus    string `json:"focus"`
}

var legacyCategoryKeys = map[string]readiness.SkillCategory{
	"coreCS":    readiness.CategoryCoreCS,
	"languages": readiness.CategoryLanguages,
	"web":       readiness.CategoryWeb,
	"data":      readiness.CategoryData,
	"cloud":     readiness.CategoryCloud,
	"testing":   readiness.CategoryTesting,
	"other":     readiness.CategoryOther,
}

var legacyStatuses = map[string]readiness.Confidence{
	"know":     readiness.Known,
	"practice": readiness.NeedsPractice,
}

// Backfill used for v1 records that carried a company but no profile.
var legacyBackfillProfile = readiness.CompanyProfile{
	Industry:     "Technology Services",
	SizeClass:    readiness.SizeStartup,
	SizeLabel:    "Startup (<200)",
	StrategyNote: "Practical Problem Solving + Stack Depth",
}

// decodeRecord parses, migrates and normalizes one persisted record. It returns
// false when the record fails shape validation.
func decodeRecord(data json.RawMessage) (readiness.Report, bool) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return readiness.Report{}, false
	}
	if raw.SchemaVersion < currentSchemaVersion {
		raw.migrateLegacy()
	}
	if err := validate.Struct(raw); err != nil {
		return readiness.Report{}, false
	}
	return raw.normalize(), true
}

// migrateLegacy folds v1 fields into their v2 counterparts.
func (r *rawRecord) migrateLegacy() {
	if r.Text == nil {
		r.Text = r.JDText
	}
	if r.BaseScore == nil {
		switch {
		case r.ReadinessScore != nil:
			r.BaseScore = r.ReadinessScore
		case r.FinalScore != nil:
			r.BaseScore = r.FinalScore
		}
	}
	if r.LiveScore == nil {
		r.LiveScore = r.FinalScore
	}
	if len(r.Plan) == 0 && len(r.Plan7Days) > 0 {
		r.Plan = make([]readiness.PlanEntry, 0, len(r.Plan7Days))
		for _, p := range r.Plan7Days {
			r.Plan = append(r.Plan, readiness.PlanEntry{
				Label:               p.Day,
				FocusTitle:          p.Focus,
				ActivityDescription: p.Activities,
			})
		}
	}
	if len(r.Rounds) == 0 && len(r.RoundMapping) > 0 {
		r.Rounds = make([]readiness.RoundDescriptor, 0, len(r.RoundMapping))
		for _, m := range r.RoundMapping {
			r.Rounds = append(r.Rounds, readiness.RoundDescriptor{
				Title:      m.RoundTitle,
				FocusAreas: append([]string(nil), m.FocusAreas...),
				Rationale:  m.WhyItMatters,
			})
		}
	}
	if r.Profile == nil {
		switch {
		case r.Intel != nil:
			r.Profile = &readiness.CompanyProfile{
				Name:         r.Intel.Name,
				Industry:     r.Intel.Industry,
				SizeClass:    legacySizeClass(r.Intel.SizeKey),
				SizeLabel:    r.Intel.Size,
				StrategyNote: r.Intel.Focus,
			}
		case strings.TrimSpace(r.Company) != "":
			p := legacyBackfillProfile
			p.Name = strings.TrimSpace(r.Company)
			r.Profile = &p
		}
	}
	r.SchemaVersion = currentSchemaVersion
}

func legacySizeClass(key string) readiness.SizeClass {
	if strings.EqualFold(strings.TrimSpace(key), string(readiness.SizeEnterprise)) {
		return readiness.SizeEnterprise
	}
	return readiness.SizeStartup
}

// normalize fills defaults and clamps scores into range. A stored liveScore is
// kept; without one it is re-derived only for records that were mutated after
// creation, since a fresh report starts with liveScore equal to baseScore.
func (r rawRecord) normalize() readiness.Report {
	skills := normalizeSkills(r.ExtractedSkills)

	existing := make(map[string]readiness.Confidence, len(r.SkillConfidenceMap))
	for skill, status := range r.SkillConfidenceMap {
		c := readiness.Confidence(status)
		if mapped, ok := legacyStatuses[status]; ok {
			c = mapped
		}
		existing[skill] = c
	}
	confidence := readiness.DefaultConfidence(skills, existing)

	base := 0
	if r.BaseScore != nil {
		base = clampScore(*r.BaseScore)
	}

	createdAt := r.CreatedAt.UTC()
	updatedAt := createdAt
	if r.UpdatedAt != nil && !r.UpdatedAt.IsZero() {
		updatedAt = r.UpdatedAt.UTC()
	}

	rounds := r.Rounds
	if len(rounds) == 0 && r.Profile != nil {
		rounds = readiness.MapRounds(r.Profile, skills)
	}

	report := readiness.Report{
		ID:                 string(r.ID),
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
		Company:            r.Company,
		Role:               r.Role,
		Text:               *r.Text,
		ExtractedSkills:    skills,
		Profile:            r.Profile,
		Rounds:             nonNil(rounds),
		Plan:               nonNil(r.Plan),
		Checklist:          nonNil(r.Checklist),
		Questions:          nonNil(r.Questions),
		BaseScore:          base,
		SkillConfidenceMap: confidence,
	}
	switch {
	case r.LiveScore != nil && !math.IsNaN(*r.LiveScore):
		report.LiveScore = clampScore(*r.LiveScore)
	case updatedAt.After(createdAt):
		report.LiveScore = readiness.LiveScore(base, skills, confidence)
	default:
		report.LiveScore = base
	}
	return report
}

// clampScore rounds v into [0,100]. Clamping happens before the int
// conversion so huge or infinite values cannot overflow. NaN maps to 0.
func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// normalizeSkills maps legacy camel-case keys and drops empty categories and
// duplicate keywords. Keys are visited in sorted order so that two keys
// folding into one category always merge the same way.
func normalizeSkills(in map[string][]string) readiness.ExtractedSkills {
	out := make(readiness.ExtractedSkills, len(in))
	for _, key := range slices.Sorted(maps.Keys(in)) {
		skills := in[key]
		category := readiness.SkillCategory(key)
		if mapped, ok := legacyCategoryKeys[key]; ok {
			category = mapped
		}
		for _, skill := range skills {
			skill = strings.TrimSpace(skill)
			if skill == "" || contains(out[category], skill) {
				continue
			}
			out[category] = append(out[category], skill)
		}
	}
	return out
}

func encodeRecords(reports []readiness.Report) ([]byte, error) {
	records := make([]storedRecord, 0, len(reports))
	for _, r := range reports {
		records = append(records, storedRecord{SchemaVersion: currentSchemaVersion, Report: r})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// describeDropped renders dropped record positions for logs.
func describeDropped(positions []int) string {
	parts := make([]string, 0, len(positions))
	for _, p := range positions {
		parts = append(parts, strconv.Itoa(p))
	}
	return strings.Join(parts, ",")
}
