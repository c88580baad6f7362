package gaps

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/catalog"
	"github.com/jtarasov/rolefit/internal/signals"
)

// ImportanceLevel grades how urgent a skill gap is.
type ImportanceLevel string

const (
	LevelCritical   ImportanceLevel = "CRITICAL"
	LevelImportant  ImportanceLevel = "IMPORTANT"
	LevelNiceToHave ImportanceLevel = "NICE_TO_HAVE"
)

func (l ImportanceLevel) rank() int {
	switch l {
	case LevelCritical:
		return 3
	case LevelImportant:
		return 2
	case LevelNiceToHave:
		return 1
	default:
		return 0
	}
}

// Gap is one missing or weakly-evidenced skill with a templated suggestion.
type Gap struct {
	SkillName  string          `json:"skill_name"`
	Importance ImportanceLevel `json:"importance_level"`
	Suggestion string          `json:"suggestion"`
}

// GapAnalysis is the prioritized gap report for one recommended role.
type GapAnalysis struct {
	MissingSkills []Gap    `json:"missing_skills"`
	PriorityAreas []string `json:"priority_areas"`
}

const maxGaps = 4

// Analyzer diffs an archetype's requirements against the profile.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer builds a gap analyzer.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Analyze walks the archetype's required skills in declared order and grades
// each absent or merely-mentioned skill. Absent CORE skills are CRITICAL,
// absent PREFERRED skills IMPORTANT, absent BONUS skills NICE_TO_HAVE;
// mentioned-but-undemonstrated skills land one level lower, with
// mentioned-only BONUS skills dropped entirely. The top candidates (at most
// four) are returned ordered by severity, with declaration order breaking
// ties.
func (a *Analyzer) Analyze(archetype catalog.RoleArchetype, profile *signals.ProfileSignals) *GapAnalysis {
	var candidates []Gap

	for _, rs := range archetype.RequiredSkills {
		level, ok := gradeGap(rs, profile)
		if !ok {
			continue
		}
		candidates = append(candidates, Gap{
			SkillName:  rs.Name,
			Importance: level,
			Suggestion: suggestionFor(rs.Category, level, rs.Name),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Importance.rank() > candidates[j].Importance.rank()
	})

	if len(candidates) > maxGaps {
		candidates = candidates[:maxGaps]
	}

	analysis := &GapAnalysis{MissingSkills: candidates}
	for _, gap := range candidates {
		analysis.PriorityAreas = append(analysis.PriorityAreas, gap.SkillName)
	}

	a.logger.Debug("gap analysis",
		zap.String("archetype", archetype.ID),
		zap.Int("gaps", len(candidates)),
	)

	return analysis
}

// gradeGap maps one required skill to a gap level, or reports no gap.
func gradeGap(rs catalog.RequiredSkill, profile *signals.ProfileSignals) (ImportanceLevel, bool) {
	matched, ok := profile.Match(rs)
	if !ok {
		switch rs.Importance {
		case catalog.ImportanceCore:
			return LevelCritical, true
		case catalog.ImportancePreferred:
			return LevelImportant, true
		default:
			return LevelNiceToHave, true
		}
	}

	if matched.Proficiency != signals.ProficiencyMentioned {
		return "", false
	}

	switch rs.Importance {
	case catalog.ImportanceCore:
		return LevelImportant, true
	case catalog.ImportancePreferred:
		return LevelNiceToHave, true
	default:
		// A mentioned bonus skill is not worth surfacing.
		return "", false
	}
}

type templateKey struct {
	category string
	level    ImportanceLevel
}

// suggestionTemplates are fixed by (skill category, importance level); no
// free-text generation, so gap output stays deterministic and curriculum-free.
var suggestionTemplates = map[templateKey]string{
	{"language", LevelCritical}:  "Build and ship a project in %s; it is a core requirement for this role",
	{"language", LevelImportant}: "Deepen your working knowledge of %s with hands-on practice",
	{"database", LevelCritical}:  "Gain production experience with %s; data work is central to this role",
	{"database", LevelImportant}: "Work %s into an existing project to build practical familiarity",
	{"cloud", LevelCritical}:     "Get hands-on with %s through a deployed side project",
	{"cloud", LevelImportant}:    "Add %s exposure by migrating a small workload",
	{"tooling", LevelImportant}:  "Adopt %s in your daily workflow to close the tooling gap",
	{"practice", LevelImportant}: "Apply %s on a real project to demonstrate the practice",

	{"general", LevelCritical}:   "Focus on acquiring %s; it is critical for this role",
	{"general", LevelImportant}:  "Consider developing %s to strengthen your profile",
	{"general", LevelNiceToHave}: "Learning %s would be beneficial but not essential",
}

func suggestionFor(category string, level ImportanceLevel, skill string) string {
	if tmpl, ok := suggestionTemplates[templateKey{category, level}]; ok {
		return fmt.Sprintf(tmpl, skill)
	}
	return fmt.Sprintf(suggestionTemplates[templateKey{"general", level}], skill)
}
