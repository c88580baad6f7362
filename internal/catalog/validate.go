package catalog

import (
	"fmt"
	"strings"
)

// ValidationResult lists integrity problems found in the catalog. Errors make
// the catalog unusable; warnings are logged and tolerated.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the catalog passed validation.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Validate checks the catalog for missing fields, invalid importance grades
// and duplicate titles within an industry.
func (c *Catalog) Validate() ValidationResult {
	var result ValidationResult

	titlesByIndustry := make(map[string]map[string]bool)

	for _, a := range c.archetypes {
		if strings.TrimSpace(a.Title) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("archetype %s is missing a title", a.ID))
		}
		if strings.TrimSpace(a.Industry) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("archetype %s is missing an industry", a.ID))
		}
		if len(a.RequiredSkills) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("archetype %s has no required skills", a.ID))
		}

		for _, rs := range a.RequiredSkills {
			if strings.TrimSpace(rs.Name) == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("archetype %s declares a required skill without a name", a.ID))
				continue
			}
			if !rs.Importance.valid() {
				result.Errors = append(result.Errors, fmt.Sprintf("archetype %s skill %s has invalid importance %q", a.ID, rs.Name, rs.Importance))
			}
		}

		industry := strings.ToLower(strings.TrimSpace(a.Industry))
		title := strings.ToLower(strings.TrimSpace(a.Title))
		if titlesByIndustry[industry] == nil {
			titlesByIndustry[industry] = make(map[string]bool)
		}
		if titlesByIndustry[industry][title] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("duplicate title %q in industry %q", a.Title, a.Industry))
		}
		titlesByIndustry[industry][title] = true
	}

	return result
}
