package readiness

// MapRounds returns the interview progression for a profile. Order is significant.
func MapRounds(profile *CompanyProfile, skills ExtractedSkills) []RoundDescriptor {
	if profile == nil {
		return []RoundDescriptor{}
	}

	hasDSA := containsSkill(skills[CategoryCoreCS], "DSA")
	hasWeb := skills.Has(CategoryWeb)

	if profile.SizeClass == SizeEnterprise {
		assessment := "Filters candidates on basic problem-solving and logic speed."
		if hasDSA {
			assessment = "Filters candidates on timed DSA problems; the role explicitly lists DSA."
		}
		design := []string{"Projects", "High-Level Design"}
		if hasWeb {
			design = append(design, "Web Architecture")
		}
		return []RoundDescriptor{
			{
				Title:      "Round 1: Online Assessment",
				FocusAreas: []string{"DSA", "Aptitude"},
				Rationale:  assessment,
			},
			{
				Title:      "Round 2: Technical Interview I",
				FocusAreas: []string{"DSA", "Core CS (OS/DBMS)"},
				Rationale:  "Deep dive into computer science fundamentals and algorithmic thinking.",
			},
			{
				Title:      "Round 3: Technical Interview II",
				FocusAreas: design,
				Rationale:  "Evaluates your ability to build and explain complex systems.",
			},
			{
				Title:      "Round 4: HR / Culture Fit",
				FocusAreas: []string{"Behavioral", "STAR Method"},
				Rationale:  "Ensures alignment with company values and long-term retention.",
			},
		}
	}

	practical := "Logic Building"
	if hasWeb {
		practical = "Feature Implementation"
	}
	return []RoundDescriptor{
		{
			Title:      "Round 1: Practical Coding / Assignment",
			FocusAreas: []string{practical},
			Rationale:  "Verifies real-world coding ability over theoretical knowledge.",
		},
		{
			Title:      "Round 2: Technical Discussion",
			FocusAreas: []string{"System Architecture", "Tech Stack"},
			Rationale:  "Assesses depth in the specific stack required for the role.",
		},
		{
			Title:      "Round 3: Founder / Culture Fit",
			FocusAreas: []string{"Vision Alignment", "Ownership"},
			Rationale:  "Crucial for small teams where culture and speed are everything.",
		},
	}
}

func containsSkill(skills []string, want string) bool {
	for _, s := range skills {
		if s == want {
			return true
		}
	}
	return false
}
