package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Importance grades how strongly an archetype requires a skill.
type Importance string

const (
	ImportanceCore      Importance = "CORE"
	ImportancePreferred Importance = "PREFERRED"
	ImportanceBonus     Importance = "BONUS"
)

// Weight returns the scoring weight of the importance grade.
func (i Importance) Weight() float64 {
	switch i {
	case ImportanceCore:
		return 3
	case ImportancePreferred:
		return 1.5
	case ImportanceBonus:
		return 0.5
	default:
		return 0
	}
}

func (i Importance) valid() bool {
	switch i {
	case ImportanceCore, ImportancePreferred, ImportanceBonus:
		return true
	}
	return false
}

// RequiredSkill is a single entry of an archetype's ordered skill list.
// Declaration order is stable and used as a tie-break downstream.
type RequiredSkill struct {
	Name         string     `yaml:"name"`
	Importance   Importance `yaml:"importance"`
	Category     string     `yaml:"category"`
	Alternatives []string   `yaml:"alternatives"`
}

// RoleArchetype describes one catalog role: its industry, ordered skill
// requirements, and per-tier seniority markers. Read-only to the engine.
type RoleArchetype struct {
	ID               string              `yaml:"id"`
	Industry         string              `yaml:"industry"`
	Title            string              `yaml:"title"`
	Description      string              `yaml:"description"`
	Specializations  []string            `yaml:"specializations"`
	RequiredSkills   []RequiredSkill     `yaml:"required_skills"`
	SeniorityMarkers map[string][]string `yaml:"seniority_markers"`
}

var (
	// ErrUnknownIndustry is returned when a selected industry does not exist
	// in the catalog. Fatal for that industry only.
	ErrUnknownIndustry = errors.New("unknown industry")
	// ErrInsufficientArchetypes marks an industry whose lookup produced zero
	// archetypes. Surfaced as a request-level warning, never a crash.
	ErrInsufficientArchetypes = errors.New("no archetypes for industry")
)

// Catalog is a read-only lookup over role archetypes.
type Catalog struct {
	archetypes []RoleArchetype
	byIndustry map[string][]RoleArchetype
	vocab      *Vocabulary
}

// New builds a catalog from the provided archetypes. Archetype order is
// preserved; it determines synonym precedence in the vocabulary.
func New(archetypes []RoleArchetype) *Catalog {
	c := &Catalog{
		archetypes: archetypes,
		byIndustry: make(map[string][]RoleArchetype),
	}

	for _, a := range archetypes {
		key := strings.ToLower(strings.TrimSpace(a.Industry))
		c.byIndustry[key] = append(c.byIndustry[key], a)
	}

	c.vocab = buildVocabulary(archetypes)

	return c
}

// Len reports the number of archetypes in the catalog.
func (c *Catalog) Len() int { return len(c.archetypes) }

// Industries returns the sorted list of industries present in the catalog,
// using each industry's first-seen spelling.
func (c *Catalog) Industries() []string {
	seen := make(map[string]string)
	for _, a := range c.archetypes {
		key := strings.ToLower(strings.TrimSpace(a.Industry))
		if _, ok := seen[key]; !ok {
			seen[key] = strings.TrimSpace(a.Industry)
		}
	}

	industries := make([]string, 0, len(seen))
	for _, name := range seen {
		industries = append(industries, name)
	}
	sort.Strings(industries)

	return industries
}

// Lookup returns the archetypes for the given industry, optionally narrowed to
// the requested specializations. Archetypes without declared specializations
// always pass the filter. ErrUnknownIndustry is returned when the industry is
// absent from the catalog entirely.
func (c *Catalog) Lookup(industry string, specializations []string) ([]RoleArchetype, error) {
	key := strings.ToLower(strings.TrimSpace(industry))
	matched, ok := c.byIndustry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndustry, industry)
	}

	if len(specializations) == 0 {
		return matched, nil
	}

	wanted := make(map[string]bool, len(specializations))
	for _, s := range specializations {
		wanted[strings.ToLower(strings.TrimSpace(s))] = true
	}

	filtered := make([]RoleArchetype, 0, len(matched))
	for _, a := range matched {
		if len(a.Specializations) == 0 {
			filtered = append(filtered, a)
			continue
		}
		for _, s := range a.Specializations {
			if wanted[strings.ToLower(strings.TrimSpace(s))] {
				filtered = append(filtered, a)
				break
			}
		}
	}

	return filtered, nil
}

// Vocabulary returns the skill normalization table derived from the catalog's
// skill names and their declared alternatives.
func (c *Catalog) Vocabulary() *Vocabulary { return c.vocab }
