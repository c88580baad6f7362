package confidence

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/signals"
)

// Level is the calibrated recommendation confidence.
type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

const (
	completenessWeight = 0.4
	consistencyWeight  = 0.4
	experienceWeight   = 0.2

	lowThreshold  = 0.4
	highThreshold = 0.7

	// tenurePenalty is applied when the seniority detector flagged tenure
	// that projects and skill depth do not corroborate.
	tenurePenalty = 0.1
)

// Penalties carries downstream consistency signals that lower confidence.
type Penalties struct {
	// BelowScoreFloor marks a result where fewer than two archetypes
	// cleared the fit-score floor and best-effort roles were returned.
	BelowScoreFloor bool
	// TenureUncorroborated mirrors the seniority detector's cap note.
	TenureUncorroborated bool
}

// Calculator scores overall recommendation confidence from data completeness
// and cross-source agreement.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator builds a calculator.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Calculate returns the confidence level together with human-readable factors
// naming the weakest contributing terms and what would improve them.
func (c *Calculator) Calculate(profile *signals.ProfileSignals, penalties Penalties) (Level, []string) {
	provided := 0
	var missing []string
	for _, src := range signals.AllSources() {
		if profile.DataCompleteness[src] {
			provided++
		} else {
			missing = append(missing, string(src))
		}
	}
	completeness := float64(provided) / float64(len(signals.AllSources()))

	total := profile.SkillCount()
	corroborated := 0
	for _, s := range profile.Skills() {
		if len(s.Sources) >= 2 {
			corroborated++
		}
	}
	consistency := 0.0
	if total > 0 {
		consistency = float64(corroborated) / float64(total)
	}

	hasExperience := 0.0
	if profile.ExperienceYears > 0 {
		hasExperience = 1
	}

	score := completenessWeight*completeness +
		consistencyWeight*consistency +
		experienceWeight*hasExperience

	var factors []string
	if completeness < 1 {
		factors = append(factors, fmt.Sprintf(
			"only %d of %d data sources provided; adding %s would improve confidence",
			provided, len(signals.AllSources()), strings.Join(missing, ", ")))
	}
	if consistency < 0.5 {
		factors = append(factors,
			"few skills are corroborated by more than one source; add a code-hosting or portfolio profile to improve consistency")
	}
	if hasExperience == 0 {
		factors = append(factors,
			"no experience timeline found in the resume; include dated roles to establish tenure")
	}

	if penalties.TenureUncorroborated {
		score -= tenurePenalty
		factors = append(factors,
			"stated experience is not corroborated by project complexity or skill depth")
	}

	level := LevelLow
	switch {
	case score > highThreshold:
		level = LevelHigh
	case score >= lowThreshold:
		level = LevelMedium
	}

	if penalties.BelowScoreFloor {
		level = LevelLow
		factors = append(factors,
			"no archetype cleared the fit-score floor; recommendations are best-effort")
	}

	c.logger.Debug("confidence calculated",
		zap.String("level", string(level)),
		zap.Float64("score", score),
		zap.Float64("completeness", completeness),
		zap.Float64("consistency", consistency),
		zap.Float64("has_experience", hasExperience),
	)

	return level, factors
}
