package readiness

import (
	"fmt"
	"strings"
)

// RenderText renders the downloadable plain-text report.
func RenderText(r Report) string {
	company := r.Company
	if company == "" {
		company = "General"
	}
	role := r.Role
	if role == "" {
		role = "NA"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PLACEMENT PREPARATION REPORT - %s\n", company)
	fmt.Fprintf(&b, "Role: %s\n", role)
	fmt.Fprintf(&b, "Readiness Score: %d/100\n", r.LiveScore)

	b.WriteString("\nSKILLS DETECTED:\n")
	for _, category := range r.ExtractedSkills.Categories() {
		fmt.Fprintf(&b, "%s: %s\n", category, strings.Join(r.ExtractedSkills[category], ", "))
	}

	if len(r.Rounds) > 0 {
		b.WriteString("\nROUND MAP:\n")
		for _, round := range r.Rounds {
			fmt.Fprintf(&b, "%s (%s)\n", round.Title, strings.Join(round.FocusAreas, ", "))
		}
	}

	b.WriteString("\n7-DAY PLAN:\n")
	for _, p := range r.Plan {
		fmt.Fprintf(&b, "%s: %s - %s\n", p.Label, p.FocusTitle, p.ActivityDescription)
	}

	b.WriteString("\nLIKELY QUESTIONS:\n")
	for i, q := range r.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimSpace(b.String())
}

// ExportFileName returns the attachment name for a report download.
func ExportFileName(r Report) string {
	name := strings.Map(func(ch rune) rune {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			return ch
		case ch == ' ':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(r.Company))
	if name == "" {
		name = "Ready"
	}
	return "Analysis_" + name + ".txt"
}

// WeakSkills returns up to n skills still marked NeedsPractice, in extraction order.
func WeakSkills(r Report, n int) []string {
	out := make([]string, 0, n)
	for _, skill := range r.ExtractedSkills.Flatten() {
		if len(out) >= n {
			break
		}
		if r.SkillConfidenceMap[skill] != Known {
			out = append(out, skill)
		}
	}
	return out
}

// NextAction returns the first plan activity, the suggested starting point.
func NextAction(r Report) string {
	if len(r.Plan) == 0 {
		return ""
	}
	return r.Plan[0].ActivityDescription
}
