package readiness

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CategoryKeywords is one keyword bucket in declaration order.
type CategoryKeywords struct {
	Category SkillCategory `json:"category" validate:"required"`
	Keywords []string      `json:"keywords" validate:"required,min=1,dive,required"`
}

// Catalog holds the keyword and company tables the engine reasons over.
// A Catalog is treated as read-only once handed to NewEngine.
type Catalog struct {
	Categories      []CategoryKeywords `json:"categories" validate:"required,min=1,dive"`
	EnterpriseNames []string           `json:"enterpriseNames" validate:"dive,required"`
	FallbackSkills  []string           `json:"fallbackSkills" validate:"required,min=1,dive,required"`
}

// DefaultCatalog returns the built-in tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Categories: []CategoryKeywords{
			{Category: CategoryCoreCS, Keywords: []string{"DSA", "OOP", "DBMS", "OS", "Networks"}},
			{Category: CategoryLanguages, Keywords: []string{"Java", "Python", "JavaScript", "TypeScript", "C", "C++", "C#", "Go"}},
			{Category: CategoryWeb, Keywords: []string{"React", "Next.js", "Node.js", "Express", "REST", "GraphQL"}},
			{Category: CategoryData, Keywords: []string{"SQL", "MongoDB", "PostgreSQL", "MySQL", "Redis"}},
			{Category: CategoryCloud, Keywords: []string{"AWS", "Azure", "GCP", "Docker", "Kubernetes", "CI/CD", "Linux"}},
			{Category: CategoryTesting, Keywords: []string{"Selenium", "Cypress", "Playwright", "JUnit", "PyTest"}},
		},
		EnterpriseNames: []string{
			"amazon", "google", "microsoft", "meta", "apple", "tcs", "infosys", "wipro",
			"hcl", "accenture", "capgemini", "ibm", "oracle", "cisco",
		},
		FallbackSkills: []string{"Communication", "Problem solving", "Basic coding", "Projects"},
	}
}

// LoadCatalog reads a JSON catalog from path and validates it.
func LoadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Validate checks the catalog is usable by the engine.
func (c Catalog) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	seen := make(map[SkillCategory]bool, len(c.Categories))
	for _, entry := range c.Categories {
		if entry.Category == CategoryOther {
			return fmt.Errorf("category %q is reserved for fallback skills", CategoryOther)
		}
		if seen[entry.Category] {
			return fmt.Errorf("duplicate category %q", entry.Category)
		}
		seen[entry.Category] = true
	}
	return nil
}

func (c Catalog) normalizedEnterpriseNames() []string {
	out := make([]string, 0, len(c.EnterpriseNames))
	for _, name := range c.EnterpriseNames {
		if trimmed := strings.ToLower(strings.TrimSpace(name)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
