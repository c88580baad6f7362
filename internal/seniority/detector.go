package seniority

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/signals"
)

// Tier is the detected seniority level.
type Tier string

const (
	TierJunior Tier = "JUNIOR"
	TierMid    Tier = "MID"
	TierSenior Tier = "SENIOR"
)

// NoteTenureUncorroborated is appended to the rationale when long tenure is
// capped at MID for lack of supporting evidence. The confidence calculator
// treats its presence as a consistency penalty.
const NoteTenureUncorroborated = "experience duration not corroborated by project complexity or skill depth"

const (
	yearsWeight      = 0.35
	complexityWeight = 0.30
	leadershipWeight = 0.20
	depthWeight      = 0.15

	juniorThreshold = 0.35
	seniorThreshold = 0.65

	// yearsFullScale is the tenure, in years, that saturates the years
	// sub-score.
	yearsFullScale = 8.0
	// expertFullScale is the EXPERT skill count that saturates the depth
	// sub-score.
	expertFullScale = 3.0
)

// Detector classifies an aggregated profile into a seniority tier.
type Detector struct {
	logger *zap.Logger
}

// NewDetector builds a detector.
func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{logger: logger}
}

// Detect scores the profile on tenure, project complexity, leadership and
// skill depth, and returns the tier with a human-readable rationale. Pure
// tenure never yields SENIOR on its own: when neither project complexity nor
// skill depth backs it up, the result is capped at MID.
func (d *Detector) Detect(profile *signals.ProfileSignals) (Tier, []string) {
	yearsScore := clamp01(profile.ExperienceYears / yearsFullScale)

	totalProjects := profile.TotalProjectCount()
	complexityScore := 0.0
	if totalProjects > 0 {
		complexityScore = float64(profile.ProjectComplexity[signals.ComplexityComplex]) / float64(totalProjects)
	}

	leadershipScore := 0.0
	leaders := len(profile.LeadershipIndicators)
	if leaders > 0 {
		leadershipScore = 1
	}
	if leaders >= 3 {
		leadershipScore += 0.5
	}
	leadershipScore = clamp01(leadershipScore)

	depthScore := clamp01(float64(profile.ExpertSkillCount()) / expertFullScale)

	overall := yearsWeight*yearsScore +
		complexityWeight*complexityScore +
		leadershipWeight*leadershipScore +
		depthWeight*depthScore

	tier := TierJunior
	switch {
	case overall >= seniorThreshold:
		tier = TierSenior
	case overall >= juniorThreshold:
		tier = TierMid
	}

	rationale := []string{
		fmt.Sprintf("%.1f years of experience (score %.2f)", profile.ExperienceYears, yearsScore),
		fmt.Sprintf("%d of %d projects are complex (score %.2f)", profile.ProjectComplexity[signals.ComplexityComplex], totalProjects, complexityScore),
		fmt.Sprintf("%d leadership indicators (score %.2f)", leaders, leadershipScore),
		fmt.Sprintf("%d expert-level skills (score %.2f)", profile.ExpertSkillCount(), depthScore),
	}

	if yearsScore >= seniorThreshold && complexityScore < 1.0/3 && depthScore < 1.0/3 {
		if tier == TierSenior {
			tier = TierMid
		}
		rationale = append(rationale, NoteTenureUncorroborated)
	}

	d.logger.Debug("seniority detected",
		zap.String("tier", string(tier)),
		zap.Float64("overall", overall),
		zap.Float64("years_score", yearsScore),
		zap.Float64("complexity_score", complexityScore),
		zap.Float64("leadership_score", leadershipScore),
		zap.Float64("depth_score", depthScore),
	)

	return tier, rationale
}

// HasTenureNote reports whether the rationale carries the uncorroborated
// tenure note.
func HasTenureNote(rationale []string) bool {
	for _, note := range rationale {
		if note == NoteTenureUncorroborated {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
