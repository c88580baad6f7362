package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/narrative"
	"github.com/jtarasov/rolefit/internal/seniority"
	"github.com/jtarasov/rolefit/internal/signals"
)

// assembleJustifications fills in every role's justification. The structured
// fields are computed locally and deterministically; only the summary may
// come from the narrative summarizer, under a timeout budgeted across roles.
// A summarizer failure degrades that one role's summary to the deterministic
// fallback and never aborts the rest of the computation.
func (e *Engine) assembleJustifications(ctx context.Context, profile *signals.ProfileSignals, tier seniority.Tier, roles []*RecommendedRole, selected []scoredArchetype) {
	perRoleBudget := e.narrativeTimeout
	if len(roles) > 0 {
		perRoleBudget = e.narrativeTimeout / time.Duration(len(roles))
	}

	for i, role := range roles {
		s := selected[i]

		role.Justification = Justification{
			SkillAlignment:      s.alignment,
			ProjectRelevance:    relevantProjects(s.archetype, profile),
			TechnologyMatch:     s.techMatch,
			ExperienceAlignment: experienceAlignment(tier, profile.ExperienceYears, role.Title),
		}

		if role.ConflictGroupID != "" {
			// Conflicting paths name their own supporting signals so
			// neither plausible alternative is silently discarded.
			role.Justification.Summary = conflictSummary(role)
			continue
		}

		role.Justification.Summary = e.summarize(ctx, role, perRoleBudget)
	}
}

// summarize consults the optional narrative summarizer, falling back to the
// deterministic concatenation of the structured fields on any failure.
func (e *Engine) summarize(ctx context.Context, role *RecommendedRole, budget time.Duration) string {
	input := narrative.Input{
		RoleTitle:           role.Title,
		Seniority:           string(role.Seniority),
		FitScore:            role.FitScore,
		SkillAlignment:      role.Justification.SkillAlignment,
		ExperienceAlignment: role.Justification.ExperienceAlignment,
	}

	if e.summarizer == nil {
		return narrative.Fallback(input)
	}

	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	summary, err := e.summarizer.Summarize(callCtx, input)
	if err != nil {
		e.logger.Debug("narrative summary unavailable; using fallback",
			zap.String("archetype_id", role.ArchetypeID),
			zap.Error(err),
		)
		return narrative.Fallback(input)
	}

	return summary
}

// conflictSummary names the skill cluster and projects supporting one of
// several comparably-strong role paths.
func conflictSummary(role *RecommendedRole) string {
	var b strings.Builder

	fmt.Fprintf(&b, "One of several plausible paths: %s is supported", role.Title)

	if len(role.Justification.SkillAlignment) > 0 {
		shown := role.Justification.SkillAlignment
		if len(shown) > 3 {
			shown = shown[:3]
		}
		fmt.Fprintf(&b, " by %s", strings.Join(shown, ", "))
	} else {
		b.WriteString(" by a distinct signal cluster")
	}

	if len(role.Justification.ProjectRelevance) > 0 {
		shown := role.Justification.ProjectRelevance
		if len(shown) > 2 {
			shown = shown[:2]
		}
		fmt.Fprintf(&b, " and by projects such as %s", strings.Join(shown, ", "))
	}

	b.WriteString(".")

	return b.String()
}
