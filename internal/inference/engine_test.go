package inference

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/catalog"
	"github.com/jtarasov/rolefit/internal/narrative"
	"github.com/jtarasov/rolefit/internal/seniority"
	"github.com/jtarasov/rolefit/internal/signals"
)

type stubSummarizer struct {
	response  string
	err       error
	calls     int
	lastInput narrative.Input
	block     bool
}

func (s *stubSummarizer) Summarize(ctx context.Context, input narrative.Input) (string, error) {
	s.calls++
	s.lastInput = input
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func buildProfile(t *testing.T, cat *catalog.Catalog, resume *signals.ResumeSignals, bySource map[signals.Source]*signals.SourceSignals) *signals.ProfileSignals {
	t.Helper()
	return signals.NewAggregator(cat.Vocabulary(), zap.NewNop()).Aggregate(resume, bySource)
}

func dataEngineerCatalog() *catalog.Catalog {
	return catalog.New([]catalog.RoleArchetype{
		{
			ID: "technology_data_engineer", Industry: "Technology", Title: "Data Engineer",
			RequiredSkills: []catalog.RequiredSkill{
				{Name: "Python", Importance: catalog.ImportanceCore, Category: "language"},
				{Name: "SQL", Importance: catalog.ImportanceCore, Category: "database"},
				{Name: "Docker", Importance: catalog.ImportancePreferred, Category: "tooling"},
			},
		},
	})
}

func TestInferIndustryFitScore(t *testing.T) {
	cat := dataEngineerCatalog()

	// Python resolves to strength 0.8 (resume + code host); SQL and Docker
	// are absent: round(100 * 3*0.8 / 7.5) = 32.
	profile := buildProfile(t, cat,
		&signals.ResumeSignals{Skills: []string{"Python"}, ExperienceYears: 1},
		map[signals.Source]*signals.SourceSignals{
			signals.SourceCodeHost: {
				Projects: []signals.Project{{Name: "etl", Technologies: []string{"Python"}}},
			},
		},
	)

	engine := NewEngine(cat, nil, 0, zap.NewNop())

	result, err := engine.InferIndustry(context.Background(), profile, seniority.TierJunior, "Technology", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Roles) != 1 {
		t.Fatalf("expected 1 role from a single-archetype catalog, got %d", len(result.Roles))
	}

	role := result.Roles[0]
	if role.FitScore != 32 {
		t.Fatalf("expected fit score 32, got %d", role.FitScore)
	}
	if role.Seniority != seniority.TierJunior {
		t.Fatalf("unexpected seniority: %s", role.Seniority)
	}

	// One archetype above the floor is still below the two-role minimum.
	if !result.BelowFloor {
		t.Fatalf("expected below-floor flag with a single candidate")
	}

	if role.Justification.SkillAlignment[0] != "Python" {
		t.Fatalf("unexpected skill alignment: %v", role.Justification.SkillAlignment)
	}
	if len(role.Justification.ProjectRelevance) != 1 || role.Justification.ProjectRelevance[0] != "etl" {
		t.Fatalf("unexpected project relevance: %v", role.Justification.ProjectRelevance)
	}
	if len(role.Justification.TechnologyMatch) != 1 || role.Justification.TechnologyMatch[0] != "Python" {
		t.Fatalf("unexpected technology match: %v", role.Justification.TechnologyMatch)
	}
	if role.Justification.ExperienceAlignment == "" {
		t.Fatalf("expected a templated experience sentence")
	}
}

func TestInferIndustryDeterministic(t *testing.T) {
	cat := dataEngineerCatalog()
	profile := buildProfile(t, cat,
		&signals.ResumeSignals{Skills: []string{"Python", "SQL"}},
		nil,
	)

	engine := NewEngine(cat, nil, 0, zap.NewNop())

	first, err := engine.InferIndustry(context.Background(), profile, seniority.TierMid, "Technology", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.InferIndustry(context.Background(), profile, seniority.TierMid, "Technology", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Roles[0].FitScore != second.Roles[0].FitScore {
		t.Fatalf("fit score not reproducible: %d vs %d", first.Roles[0].FitScore, second.Roles[0].FitScore)
	}
}

func TestInferIndustryRoleBounds(t *testing.T) {
	var archetypes []catalog.RoleArchetype
	titles := []string{"Backend", "Platform", "SRE", "Tooling", "API", "Infra"}
	for _, title := range titles {
		archetypes = append(archetypes, catalog.RoleArchetype{
			ID: "technology_" + strings.ToLower(title), Industry: "Technology", Title: title,
			RequiredSkills: []catalog.RequiredSkill{
				{Name: "Go", Importance: catalog.ImportanceCore, Category: "language"},
			},
		})
	}
	cat := catalog.New(archetypes)

	strong := buildProfile(t, cat,
		&signals.ResumeSignals{Skills: []string{"Go"}},
		map[signals.Source]*signals.SourceSignals{
			signals.SourceCodeHost: {Skills: []string{"Go"}},
		},
	)

	engine := NewEngine(cat, nil, 0, zap.NewNop())

	result, err := engine.InferIndustry(context.Background(), strong, seniority.TierMid, "Technology", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Roles) != 5 {
		t.Fatalf("expected the role list capped at 5, got %d", len(result.Roles))
	}
	if result.BelowFloor {
		t.Fatalf("did not expect below-floor flag for strong matches")
	}

	// An empty profile still yields two best-effort roles.
	empty := buildProfile(t, cat, nil, nil)
	result, err = engine.InferIndustry(context.Background(), empty, seniority.TierJunior, "Technology", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Roles) != 2 {
		t.Fatalf("expected 2 best-effort roles, got %d", len(result.Roles))
	}
	if !result.BelowFloor {
		t.Fatalf("expected below-floor flag for an empty profile")
	}
}

func TestInferIndustryUnknownIndustry(t *testing.T) {
	cat := dataEngineerCatalog()
	profile := buildProfile(t, cat, nil, nil)
	engine := NewEngine(cat, nil, 0, zap.NewNop())

	_, err := engine.InferIndustry(context.Background(), profile, seniority.TierMid, "Healthcare", nil)
	if !errors.Is(err, catalog.ErrUnknownIndustry) {
		t.Fatalf("expected ErrUnknownIndustry, got %v", err)
	}
}

func TestInferIndustryConflictDetection(t *testing.T) {
	cat := catalog.New([]catalog.RoleArchetype{
		{
			ID: "technology_backend", Industry: "Technology", Title: "Backend Engineer",
			RequiredSkills: []catalog.RequiredSkill{
				{Name: "Go", Importance: catalog.ImportanceCore, Category: "language"},
			},
		},
		{
			ID: "technology_data", Industry: "Technology", Title: "Data Engineer",
			RequiredSkills: []catalog.RequiredSkill{
				{Name: "Python", Importance: catalog.ImportanceCore, Category: "language"},
			},
		},
	})

	// Both skills equally validated: equal scores, disjoint evidence.
	profile := buildProfile(t, cat,
		&signals.ResumeSignals{Skills: []string{"Go", "Python"}},
		map[signals.Source]*signals.SourceSignals{
			signals.SourceCodeHost: {Skills: []string{"Go", "Python"}},
		},
	)

	summarizer := &stubSummarizer{response: "polished summary"}
	engine := NewEngine(cat, summarizer, time.Second, zap.NewNop())

	result, err := engine.InferIndustry(context.Background(), profile, seniority.TierMid, "Technology", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(result.Roles))
	}

	a, b := result.Roles[0], result.Roles[1]
	if a.ConflictGroupID == "" || a.ConflictGroupID != b.ConflictGroupID {
		t.Fatalf("expected a shared conflict group, got %q and %q", a.ConflictGroupID, b.ConflictGroupID)
	}

	// Conflicting paths describe their own signal cluster instead of
	// consulting the summarizer.
	if summarizer.calls != 0 {
		t.Fatalf("expected no summarizer calls for conflicting roles, got %d", summarizer.calls)
	}
	if !strings.Contains(a.Justification.Summary, "plausible paths") {
		t.Fatalf("unexpected conflict summary: %q", a.Justification.Summary)
	}
}

func TestInferIndustrySummarizerUsed(t *testing.T) {
	cat := dataEngineerCatalog()
	profile := buildProfile(t, cat, &signals.ResumeSignals{Skills: []string{"Python"}}, nil)

	summarizer := &stubSummarizer{response: "A strong match for data work."}
	engine := NewEngine(cat, summarizer, time.Second, zap.NewNop())

	result, err := engine.InferIndustry(context.Background(), profile, seniority.TierMid, "Technology", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summarizer.calls != 1 {
		t.Fatalf("expected 1 summarizer call, got %d", summarizer.calls)
	}
	if result.Roles[0].Justification.Summary != "A strong match for data work." {
		t.Fatalf("unexpected summary: %q", result.Roles[0].Justification.Summary)
	}
	if summarizer.lastInput.RoleTitle != "Data Engineer" {
		t.Fatalf("unexpected summarizer input: %+v", summarizer.lastInput)
	}
}

func TestInferIndustrySummarizerErrorFallsBack(t *testing.T) {
	cat := dataEngineerCatalog()
	profile := buildProfile(t, cat, &signals.ResumeSignals{Skills: []string{"Python"}, ExperienceYears: 2}, nil)

	summarizer := &stubSummarizer{err: narrative.ErrUnavailable}
	engine := NewEngine(cat, summarizer, time.Second, zap.NewNop())

	result, err := engine.InferIndustry(context.Background(), profile, seniority.TierMid, "Technology", nil)
	if err != nil {
		t.Fatalf("expected summarizer failure to stay local, got %v", err)
	}

	summary := result.Roles[0].Justification.Summary
	if !strings.Contains(summary, "Recommended as a mid Data Engineer.") {
		t.Fatalf("expected deterministic fallback summary, got %q", summary)
	}
}

func TestInferIndustrySummarizerTimeoutFallsBack(t *testing.T) {
	cat := dataEngineerCatalog()
	profile := buildProfile(t, cat, &signals.ResumeSignals{Skills: []string{"Python"}}, nil)

	summarizer := &stubSummarizer{block: true}
	engine := NewEngine(cat, summarizer, 20*time.Millisecond, zap.NewNop())

	result, err := engine.InferIndustry(context.Background(), profile, seniority.TierMid, "Technology", nil)
	if err != nil {
		t.Fatalf("expected timeout to stay local, got %v", err)
	}

	if !strings.HasPrefix(result.Roles[0].Justification.Summary, "Recommended as a") {
		t.Fatalf("expected fallback summary after timeout, got %q", result.Roles[0].Justification.Summary)
	}
}
