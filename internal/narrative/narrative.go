package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Input carries the structured justification fields the summarizer may phrase
// into a one-sentence human-readable summary.
type Input struct {
	RoleTitle           string
	Seniority           string
	FitScore            int
	SkillAlignment      []string
	ExperienceAlignment string
}

// ErrUnavailable marks a summarizer that cannot serve requests right now.
// Callers treat it, like a timeout, as "no summary" and fall back.
var ErrUnavailable = errors.New("narrative summarizer unavailable")

// Summarizer is the optional external capability consulted for narrative
// polish. It is never used for scoring decisions.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
}

// Fallback deterministically concatenates the structured fields into a
// serviceable summary. Used whenever the summarizer is absent, errors, or
// times out.
func Fallback(input Input) string {
	var b strings.Builder

	title := strings.TrimSpace(input.RoleTitle)
	seniority := strings.ToLower(strings.TrimSpace(input.Seniority))
	switch {
	case title != "" && seniority != "":
		fmt.Fprintf(&b, "Recommended as a %s %s.", seniority, title)
	case title != "":
		fmt.Fprintf(&b, "Recommended as a %s.", title)
	default:
		b.WriteString("Recommended role.")
	}

	if len(input.SkillAlignment) > 0 {
		shown := input.SkillAlignment
		if len(shown) > 3 {
			shown = shown[:3]
		}
		if input.FitScore > 0 {
			fmt.Fprintf(&b, " Skill alignment is %d%% based on %s.", input.FitScore, strings.Join(shown, ", "))
		} else {
			fmt.Fprintf(&b, " Supported by %s.", strings.Join(shown, ", "))
		}
	}

	if alignment := strings.TrimSpace(input.ExperienceAlignment); alignment != "" {
		fmt.Fprintf(&b, " %s", alignment)
	}

	return b.String()
}
