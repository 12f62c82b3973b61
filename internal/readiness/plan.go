package readiness

import "strings"

// GeneratePlan returns the fixed 7-day plan with skill-dependent clauses.
func GeneratePlan(skills ExtractedSkills) []PlanEntry {
	dataClause := ""
	if skills.Has(CategoryData) {
		dataClause = " Revise SQL joins, indexing and normalization for " + joinFirst(skills[CategoryData], 3) + "."
	}
	webClause := ""
	if skills.Has(CategoryWeb) {
		webClause = " Go deep on " + joinFirst(skills[CategoryWeb], 3) + " as named in the job description."
	}
	dsaDepth := "core"
	if containsSkill(skills[CategoryCoreCS], "DSA") {
		dsaDepth = "advanced"
	}

	return []PlanEntry{
		{
			Label:               "Day 1",
			FocusTitle:          "Basics + Core CS",
			ActivityDescription: "Revise OOP, DBMS and OS concepts with short notes per topic." + dataClause,
		},
		{
			Label:               "Day 2",
			FocusTitle:          "Basics + Core CS",
			ActivityDescription: "Brush up on core language fundamentals and standard library APIs." + dataClause,
		},
		{
			Label:               "Day 3",
			FocusTitle:          "Stack Deep Dive",
			ActivityDescription: "Map the required stack to what you have already built." + webClause,
		},
		{
			Label:               "Day 4",
			FocusTitle:          "Project Alignment",
			ActivityDescription: "Prepare an end-to-end walkthrough of your strongest project." + webClause,
		},
		{
			Label:               "Day 5",
			FocusTitle:          "DSA + Coding",
			ActivityDescription: "Focus on " + dsaDepth + " DSA patterns. Practice 5-10 medium problems.",
		},
		{
			Label:               "Day 6",
			FocusTitle:          "Mock Interviews",
			ActivityDescription: "Practice behavioral questions and run a peer mock interview.",
		},
		{
			Label:               "Day 7",
			FocusTitle:          "Revision",
			ActivityDescription: "Quick revision of weak areas and a final resume check.",
		},
	}
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
