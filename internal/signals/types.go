package signals

import "sort"

// Source tags where a signal was observed.
type Source string

const (
	SourceResume         Source = "RESUME"
	SourceCodeHost       Source = "CODE_HOST"
	SourceNetworkProfile Source = "NETWORK_PROFILE"
	SourcePortfolio      Source = "PORTFOLIO"
)

// AllSources returns every source tag in canonical order.
func AllSources() []Source {
	return []Source{SourceResume, SourceCodeHost, SourceNetworkProfile, SourcePortfolio}
}

// Weight is the per-source contribution to validation strength. Resume content
// is the primary signal; public presence corroborates it.
func (s Source) Weight() float64 {
	switch s {
	case SourceResume:
		return 0.5
	case SourceCodeHost:
		return 0.3
	case SourceNetworkProfile:
		return 0.2
	case SourcePortfolio:
		return 0.2
	default:
		return 0
	}
}

// Proficiency grades how strongly a skill is evidenced.
type Proficiency string

const (
	ProficiencyMentioned    Proficiency = "MENTIONED"
	ProficiencyDemonstrated Proficiency = "DEMONSTRATED"
	ProficiencyExpert       Proficiency = "EXPERT"
)

// Complexity buckets a project's scale.
type Complexity string

const (
	ComplexitySimple   Complexity = "SIMPLE"
	ComplexityModerate Complexity = "MODERATE"
	ComplexityComplex  Complexity = "COMPLEX"
)

// Project is a single project or repository observed in one source.
type Project struct {
	Name         string     `json:"name"`
	Technologies []string   `json:"technologies,omitempty"`
	Complexity   Complexity `json:"complexity,omitempty"`
	// Language is the declared primary language of a repository. It counts
	// as a corroborating usage signal for the matching skill.
	Language string `json:"language,omitempty"`
	// Maintainer marks an explicit ownership or maintainer signal.
	Maintainer bool `json:"maintainer,omitempty"`
}

// ResumeSignals holds the signals extracted from the candidate's resume.
type ResumeSignals struct {
	Skills               []string  `json:"skills,omitempty"`
	ExperienceYears      float64   `json:"experience_years,omitempty"`
	Domains              []string  `json:"domains,omitempty"`
	LeadershipIndicators []string  `json:"leadership_indicators,omitempty"`
	Projects             []Project `json:"projects,omitempty"`
}

// SourceSignals holds the signals extracted from one public profile source.
type SourceSignals struct {
	Skills               []string  `json:"skills,omitempty"`
	Domains              []string  `json:"domains,omitempty"`
	LeadershipIndicators []string  `json:"leadership_indicators,omitempty"`
	Projects             []Project `json:"projects,omitempty"`
}

// SkillSignal is one aggregated skill with its corroboration evidence.
// Created by the Aggregator and immutable thereafter.
type SkillSignal struct {
	// Name is the canonical skill name, or the verbatim mention when the
	// skill is not part of the controlled vocabulary.
	Name string
	// Canonical reports whether Name resolved against the vocabulary.
	// Free-text skills still score against archetype alternatives but stay
	// out of gap reasoning.
	Canonical          bool
	Proficiency        Proficiency
	Sources            []Source
	ValidationStrength float64
}

// HasSource reports whether the skill was observed in the given source.
func (s SkillSignal) HasSource(src Source) bool {
	for _, have := range s.Sources {
		if have == src {
			return true
		}
	}
	return false
}

// SourcedProject is a pooled project annotated with its origin.
type SourcedProject struct {
	Project
	Source Source
}

// ProfileSignals is the aggregated, per-request snapshot every downstream
// component reads. Owned by one recommendation request; never mutated after
// aggregation.
type ProfileSignals struct {
	skills map[string]SkillSignal // keyed by folded name

	ExperienceYears      float64
	Domains              []string
	LeadershipIndicators []string
	ProjectComplexity    map[Complexity]int
	DataCompleteness     map[Source]bool
	Projects             []SourcedProject
}

// Skill looks a skill up by its folded key.
func (p *ProfileSignals) Skill(key string) (SkillSignal, bool) {
	s, ok := p.skills[key]
	return s, ok
}

// Skills returns every aggregated skill sorted by name.
func (p *ProfileSignals) Skills() []SkillSignal {
	out := make([]SkillSignal, 0, len(p.skills))
	for _, s := range p.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SkillCount reports the number of aggregated skills.
func (p *ProfileSignals) SkillCount() int { return len(p.skills) }

// ExpertSkillCount reports how many skills carry EXPERT proficiency.
func (p *ProfileSignals) ExpertSkillCount() int {
	n := 0
	for _, s := range p.skills {
		if s.Proficiency == ProficiencyExpert {
			n++
		}
	}
	return n
}

// TotalProjectCount sums the project complexity counts.
func (p *ProfileSignals) TotalProjectCount() int {
	n := 0
	for _, c := range p.ProjectComplexity {
		n += c
	}
	return n
}
