package inference

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/catalog"
	"github.com/jtarasov/rolefit/internal/gaps"
	"github.com/jtarasov/rolefit/internal/narrative"
	"github.com/jtarasov/rolefit/internal/seniority"
	"github.com/jtarasov/rolefit/internal/signals"
)

const (
	// fitScoreFloor is the score below which an archetype is not worth
	// recommending on its own merits.
	fitScoreFloor = 30
	// minRoles/maxRoles bound the recommendation list per industry.
	minRoles = 2
	maxRoles = 5

	defaultNarrativeTimeout = 30 * time.Second
)

// Justification explains why a role was recommended. All fields except
// Summary are assembled deterministically from the profile and archetype.
type Justification struct {
	Summary             string   `json:"summary"`
	SkillAlignment      []string `json:"skill_alignment,omitempty"`
	ProjectRelevance    []string `json:"project_relevance,omitempty"`
	TechnologyMatch     []string `json:"technology_match,omitempty"`
	ExperienceAlignment string   `json:"experience_alignment"`
}

// RecommendedRole is one ranked recommendation. Created once per inference
// run and immutable after the result is returned.
type RecommendedRole struct {
	ArchetypeID     string            `json:"archetype_id"`
	Title           string            `json:"title"`
	Industry        string            `json:"industry"`
	Seniority       seniority.Tier    `json:"seniority"`
	FitScore        int               `json:"fit_score"`
	Justification   Justification     `json:"justification"`
	GapAnalysis     *gaps.GapAnalysis `json:"gap_analysis,omitempty"`
	ConflictGroupID string            `json:"conflict_group_id,omitempty"`

	// archetype keeps the source archetype available for gap analysis.
	archetype catalog.RoleArchetype
}

// Archetype returns the catalog archetype behind the recommendation.
func (r *RecommendedRole) Archetype() catalog.RoleArchetype { return r.archetype }

// IndustryResult is the ranked recommendation list for one industry.
type IndustryResult struct {
	Industry string
	Roles    []*RecommendedRole
	// BelowFloor marks a best-effort result where fewer than two
	// archetypes cleared the fit-score floor.
	BelowFloor bool
}

// Engine scores archetypes against an aggregated profile, ranks them,
// detects conflicting signal clusters and assembles justifications.
type Engine struct {
	catalog          *catalog.Catalog
	summarizer       narrative.Summarizer
	narrativeTimeout time.Duration
	logger           *zap.Logger
}

// NewEngine builds an engine over a read-only catalog. The summarizer is
// optional; when nil every summary is the deterministic fallback.
func NewEngine(cat *catalog.Catalog, summarizer narrative.Summarizer, narrativeTimeout time.Duration, logger *zap.Logger) *Engine {
	if narrativeTimeout <= 0 {
		narrativeTimeout = defaultNarrativeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		catalog:          cat,
		summarizer:       summarizer,
		narrativeTimeout: narrativeTimeout,
		logger:           logger,
	}
}

// scoredArchetype is an archetype with its fit score and matching evidence.
type scoredArchetype struct {
	archetype catalog.RoleArchetype
	fitScore  int
	// matchedKeys are the folded names of required skills the profile
	// satisfies; used for conflict-overlap comparison.
	matchedKeys map[string]bool
	// alignment are matched CORE/PREFERRED skill names in declared order.
	alignment []string
	// techMatch are matched skill names evidenced by code-host or
	// portfolio sources.
	techMatch []string
}

// InferIndustry scores every archetype of one industry against the profile
// and returns the ranked recommendation list. The result always carries at
// least two roles unless the catalog itself has none for the industry.
func (e *Engine) InferIndustry(ctx context.Context, profile *signals.ProfileSignals, tier seniority.Tier, industry string, specializations []string) (*IndustryResult, error) {
	archetypes, err := e.catalog.Lookup(industry, specializations)
	if err != nil {
		return nil, err
	}
	if len(archetypes) == 0 {
		return nil, fmt.Errorf("%w: %s", catalog.ErrInsufficientArchetypes, industry)
	}

	scored := make([]scoredArchetype, 0, len(archetypes))
	for _, archetype := range archetypes {
		scored = append(scored, scoreArchetype(archetype, profile))
	}

	// Stable sort keeps catalog declaration order as the tie-break.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].fitScore > scored[j].fitScore
	})

	aboveFloor := 0
	for _, s := range scored {
		if s.fitScore >= fitScoreFloor {
			aboveFloor++
		}
	}

	take := aboveFloor
	if take < minRoles {
		take = minRoles
	}
	if take > maxRoles {
		take = maxRoles
	}
	if take > len(scored) {
		take = len(scored)
	}
	belowFloor := aboveFloor < minRoles

	selected := scored[:take]

	roles := make([]*RecommendedRole, 0, len(selected))
	for _, s := range selected {
		roles = append(roles, &RecommendedRole{
			ArchetypeID: s.archetype.ID,
			Title:       s.archetype.Title,
			Industry:    s.archetype.Industry,
			Seniority:   tier,
			FitScore:    s.fitScore,
			archetype:   s.archetype,
		})
	}

	conflicts := detectConflicts(selected)
	for i, role := range roles {
		role.ConflictGroupID = conflicts[i]
	}

	e.assembleJustifications(ctx, profile, tier, roles, selected)

	e.logger.Debug("industry inference complete",
		zap.String("industry", industry),
		zap.Int("archetypes", len(archetypes)),
		zap.Int("selected", len(roles)),
		zap.Int("above_floor", aboveFloor),
		zap.Bool("below_floor", belowFloor),
	)

	return &IndustryResult{
		Industry:   industry,
		Roles:      roles,
		BelowFloor: belowFloor,
	}, nil
}

// scoreArchetype computes the weighted fit score of one archetype. The score
// is the profile's validation-weighted coverage of the archetype's skill
// requirements, normalized to 0-100.
func scoreArchetype(archetype catalog.RoleArchetype, profile *signals.ProfileSignals) scoredArchetype {
	raw := 0.0
	max := 0.0
	matchedKeys := make(map[string]bool)
	var alignment, techMatch []string

	for _, rs := range archetype.RequiredSkills {
		weight := rs.Importance.Weight()
		max += weight

		matched, ok := profile.Match(rs)
		if !ok {
			continue
		}

		raw += weight * matched.ValidationStrength
		matchedKeys[catalog.Fold(rs.Name)] = true

		if rs.Importance == catalog.ImportanceCore || rs.Importance == catalog.ImportancePreferred {
			alignment = append(alignment, rs.Name)
		}
		if matched.HasSource(signals.SourceCodeHost) || matched.HasSource(signals.SourcePortfolio) {
			techMatch = append(techMatch, rs.Name)
		}
	}

	fitScore := 0
	if max > 0 {
		fitScore = int(math.Round(100 * raw / max))
	}

	return scoredArchetype{
		archetype:   archetype,
		fitScore:    fitScore,
		matchedKeys: matchedKeys,
		alignment:   alignment,
		techMatch:   techMatch,
	}
}

// relevantProjects returns the names of profile projects whose technology
// list intersects the archetype's required skills.
func relevantProjects(archetype catalog.RoleArchetype, profile *signals.ProfileSignals) []string {
	required := make(map[string]bool)
	for _, rs := range archetype.RequiredSkills {
		required[catalog.Fold(rs.Name)] = true
		for _, alt := range rs.Alternatives {
			required[catalog.Fold(alt)] = true
		}
	}

	var names []string
	seen := make(map[string]bool)
	for _, project := range profile.Projects {
		if project.Name == "" || seen[project.Name] {
			continue
		}
		for _, tech := range project.Technologies {
			if required[catalog.Fold(tech)] {
				seen[project.Name] = true
				names = append(names, project.Name)
				break
			}
		}
	}

	return names
}

// experienceAlignment is the templated experience sentence, parameterized by
// tier, years and title.
func experienceAlignment(tier seniority.Tier, years float64, title string) string {
	return fmt.Sprintf("%.1f years of experience aligns with a %s %s position.",
		years, strings.ToLower(string(tier)), title)
}
