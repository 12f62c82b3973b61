package readiness

import "strings"

const placeholderIndustry = "Technology Services"

var (
	enterpriseStrategy = "Structured DSA + Core CS Fundamentals + Aptitude"
	startupStrategy    = "Practical Problem Solving + Stack Depth + System Discussion"
)

// ProfileCompany classifies name by containment against the enterprise list.
// It returns nil for an empty name.
func (e *Engine) ProfileCompany(name string) *CompanyProfile {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return nil
	}

	enterprise := false
	for _, candidate := range e.enterprise {
		if strings.Contains(lower, candidate) {
			enterprise = true
			break
		}
	}

	profile := &CompanyProfile{
		Name:     strings.TrimSpace(name),
		Industry: placeholderIndustry,
	}
	if enterprise {
		profile.SizeClass = SizeEnterprise
		profile.SizeLabel = "Enterprise (2000+)"
		profile.StrategyNote = enterpriseStrategy
	} else {
		profile.SizeClass = SizeStartup
		profile.SizeLabel = "Startup (<200)"
		profile.StrategyNote = startupStrategy
	}
	return profile
}
