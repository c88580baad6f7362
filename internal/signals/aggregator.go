package signals

import (
	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/catalog"
)

const (
	// expertSourceCount is the corroboration threshold above which a
	// demonstrated skill is graded EXPERT.
	expertSourceCount = 3
	// expertStrengthFloor keeps validation strength consistent with an
	// EXPERT grade reached through ownership evidence alone.
	expertStrengthFloor = 0.7
	// multiProjectBonus rewards skills demonstrated in independent projects.
	multiProjectBonus = 0.1
)

// Aggregator merges resume signals and per-source profile signals into one
// ProfileSignals snapshot. It is a pure function over its inputs: partial or
// missing source data yields a sparser snapshot with the corresponding
// data-completeness flags set false, never an error.
type Aggregator struct {
	vocab  *catalog.Vocabulary
	logger *zap.Logger
}

// NewAggregator builds an aggregator over the catalog's skill vocabulary.
func NewAggregator(vocab *catalog.Vocabulary, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{vocab: vocab, logger: logger}
}

// skillEvidence accumulates per-skill observations before grading.
type skillEvidence struct {
	name                   string
	canonical              bool
	sources                map[Source]bool
	demonstratedProjects   int
	maintainerDemonstrated bool
}

// Aggregate merges the inputs into a ProfileSignals snapshot. A nil resume or
// a missing source simply flags data completeness false for that source.
func (a *Aggregator) Aggregate(resume *ResumeSignals, bySource map[Source]*SourceSignals) *ProfileSignals {
	profile := &ProfileSignals{
		skills:            make(map[string]SkillSignal),
		ProjectComplexity: make(map[Complexity]int),
		DataCompleteness:  make(map[Source]bool),
	}

	evidence := make(map[string]*skillEvidence)
	domains := make(map[string]bool)

	profile.DataCompleteness[SourceResume] = resume != nil
	if resume != nil {
		profile.ExperienceYears = resume.ExperienceYears
		for _, skill := range resume.Skills {
			a.mention(evidence, skill, SourceResume)
		}
		for _, domain := range resume.Domains {
			if !domains[domain] {
				domains[domain] = true
				profile.Domains = append(profile.Domains, domain)
			}
		}
		profile.LeadershipIndicators = append(profile.LeadershipIndicators, resume.LeadershipIndicators...)
		for _, project := range resume.Projects {
			a.observeProject(evidence, profile, project, SourceResume)
		}
	}

	for _, src := range AllSources() {
		if src == SourceResume {
			continue
		}
		signals := bySource[src]
		profile.DataCompleteness[src] = signals != nil
		if signals == nil {
			continue
		}

		for _, skill := range signals.Skills {
			a.mention(evidence, skill, src)
		}
		for _, domain := range signals.Domains {
			if !domains[domain] {
				domains[domain] = true
				profile.Domains = append(profile.Domains, domain)
			}
		}
		profile.LeadershipIndicators = append(profile.LeadershipIndicators, signals.LeadershipIndicators...)
		for _, project := range signals.Projects {
			a.observeProject(evidence, profile, project, src)
		}
	}

	for key, ev := range evidence {
		profile.skills[key] = gradeSkill(ev)
	}

	a.logger.Debug("aggregated profile signals",
		zap.Int("skills", profile.SkillCount()),
		zap.Int("projects", profile.TotalProjectCount()),
		zap.Int("leadership_indicators", len(profile.LeadershipIndicators)),
		zap.Float64("experience_years", profile.ExperienceYears),
	)

	return profile
}

// mention records that a skill was observed in a source.
func (a *Aggregator) mention(evidence map[string]*skillEvidence, raw string, src Source) *skillEvidence {
	name, canonical := a.vocab.Normalize(raw)
	key := catalog.Fold(raw)
	if key == "" {
		return nil
	}
	if canonical {
		key = catalog.Fold(name)
	} else {
		name = raw
	}

	ev, ok := evidence[key]
	if !ok {
		ev = &skillEvidence{
			name:      name,
			canonical: canonical,
			sources:   make(map[Source]bool),
		}
		evidence[key] = ev
	}
	ev.sources[src] = true
	return ev
}

// observeProject pools the project into the snapshot and records skill
// mentions and demonstration evidence from its technology list. A technology
// counts as demonstrated when the project itself is usage evidence: a
// code-host or portfolio listing, or a declared repository language matching
// the technology.
func (a *Aggregator) observeProject(evidence map[string]*skillEvidence, profile *ProfileSignals, project Project, src Source) {
	complexity := project.Complexity
	if complexity == "" {
		complexity = ComplexitySimple
	}
	profile.ProjectComplexity[complexity]++
	profile.Projects = append(profile.Projects, SourcedProject{Project: project, Source: src})

	languageKey := catalog.Fold(project.Language)
	languageListed := false

	for _, tech := range project.Technologies {
		if languageKey != "" && languageKey == catalog.Fold(tech) {
			languageListed = true
		}
		ev := a.mention(evidence, tech, src)
		if ev == nil {
			continue
		}

		corroborated := src == SourceCodeHost || src == SourcePortfolio ||
			(languageKey != "" && languageKey == catalog.Fold(tech))
		if !corroborated {
			continue
		}

		ev.demonstratedProjects++
		if project.Maintainer {
			ev.maintainerDemonstrated = true
		}
	}

	if project.Language != "" && !languageListed {
		ev := a.mention(evidence, project.Language, src)
		if ev != nil && (src == SourceCodeHost || src == SourcePortfolio) {
			ev.demonstratedProjects++
			if project.Maintainer {
				ev.maintainerDemonstrated = true
			}
		}
	}
}

// gradeSkill turns accumulated evidence into an immutable SkillSignal,
// computing proficiency and validation strength.
func gradeSkill(ev *skillEvidence) SkillSignal {
	sources := make([]Source, 0, len(ev.sources))
	strength := 0.0
	for _, src := range AllSources() {
		if !ev.sources[src] {
			continue
		}
		sources = append(sources, src)
		strength += src.Weight()
	}
	if strength > 1 {
		strength = 1
	}
	if ev.demonstratedProjects >= 2 {
		strength += multiProjectBonus
	}
	if strength > 1 {
		strength = 1
	}

	proficiency := ProficiencyMentioned
	switch {
	case ev.demonstratedProjects > 0 && (len(sources) >= expertSourceCount || ev.maintainerDemonstrated):
		proficiency = ProficiencyExpert
	case len(sources) >= expertSourceCount:
		proficiency = ProficiencyExpert
	case ev.demonstratedProjects > 0:
		proficiency = ProficiencyDemonstrated
	}

	if proficiency == ProficiencyExpert && strength < expertStrengthFloor {
		strength = expertStrengthFloor
	}

	return SkillSignal{
		Name:               ev.name,
		Canonical:          ev.canonical,
		Proficiency:        proficiency,
		Sources:            sources,
		ValidationStrength: strength,
	}
}
