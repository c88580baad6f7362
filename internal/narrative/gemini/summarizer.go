package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/logger"
	"github.com/jtarasov/rolefit/internal/narrative"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Summarizer phrases role summaries through Gemini. It implements
// narrative.Summarizer; all scoring stays deterministic upstream.
type Summarizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewSummarizer builds a Summarizer over a content generator.
func NewSummarizer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Summarizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Summarizer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Summarize renders the prompt template and returns Gemini's cleaned response.
func (s *Summarizer) Summarize(ctx context.Context, input narrative.Input) (string, error) {
	if s.generator == nil {
		return "", narrative.ErrUnavailable
	}

	prompt := buildPrompt(input)

	s.logger.Debug("gemini summarize request",
		zap.String("role_title", input.RoleTitle),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	s.logger.Debug("gemini summarize response",
		zap.String("role_title", input.RoleTitle),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	summary := cleanResponse(raw)
	if summary == "" {
		return "", fmt.Errorf("empty summary for role %s", input.RoleTitle)
	}

	return summary, nil
}

func buildPrompt(input narrative.Input) string {
	skills := strings.Join(input.SkillAlignment, ", ")
	if skills == "" {
		skills = "none listed"
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{ROLE_TITLE}}", input.RoleTitle)
	prompt = strings.ReplaceAll(prompt, "{{SENIORITY}}", input.Seniority)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", skills)
	prompt = strings.ReplaceAll(prompt, "{{EXPERIENCE}}", input.ExperienceAlignment)

	return prompt
}

// cleanResponse strips code fences and surrounding quotes that models
// occasionally wrap short answers in, and collapses the text to one line.
func cleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
	}
	cleaned = strings.Trim(cleaned, "`\" \n")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	return cleaned
}
