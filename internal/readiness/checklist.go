package readiness

// GenerateChecklist returns round-keyed preparation items.
func GenerateChecklist(skills ExtractedSkills) []ChecklistRound {
	all := skills.Flatten()
	top := "your listed skills"
	if len(all) > 0 {
		top = joinFirst(all, 3)
	}

	quality := "Code Quality"
	design := "System Design Basics"
	if skills.Has(CategoryWeb) {
		quality = "Frontend Optimization"
		design = "API Design"
	}
	storage := "Error Handling"
	if skills.Has(CategoryData) {
		storage = "DB Indexing"
	}

	return []ChecklistRound{
		{
			RoundTitle: "Round 1: Aptitude / Basics",
			Items: []string{
				"Quantitative & Logical Reasoning practice",
				"Verbal ability brush-up",
				"Basic programming syntax revision for " + top,
			},
		},
		{
			RoundTitle: "Round 2: DSA + Core CS",
			Items: []string{
				"Master " + top + " fundamentals",
				"Complexity analysis of common patterns",
				"Revise OS, DBMS and networking basics",
			},
		},
		{
			RoundTitle: "Round 3: Tech Interview / Projects",
			Items: []string{
				"In-depth walk-through of primary project",
				"Explain architectural decisions in past work",
				"Prepare examples of " + top + " used in real work",
				quality,
				design,
				storage,
			},
		},
		{
			RoundTitle: "Round 4: Managerial / HR",
			Items: []string{
				"Prepare STAR stories for conflict, failure and ownership",
				"Explain how you picked up " + top,
				"Research the company and prepare questions for the panel",
			},
		},
	}
}
