package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/narrative"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestSummarize(t *testing.T) {
	stub := &stubGenerator{response: "A strong fit for senior backend work."}
	summarizer := NewSummarizer(stub, zap.NewNop(), 0)

	input := narrative.Input{
		RoleTitle:           "Backend Engineer",
		Seniority:           "SENIOR",
		SkillAlignment:      []string{"Go", "PostgreSQL"},
		ExperienceAlignment: "8.0 years of experience aligns with a senior Backend Engineer position.",
	}

	summary, err := summarizer.Summarize(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary != "A strong fit for senior backend work." {
		t.Fatalf("unexpected summary: %q", summary)
	}

	if stub.lastPrompt == "" {
		t.Fatalf("expected prompt to be sent")
	}
	for _, expected := range []string{"Backend Engineer", "SENIOR", "Go, PostgreSQL"} {
		if !strings.Contains(stub.lastPrompt, expected) {
			t.Fatalf("expected %q in prompt: %s", expected, stub.lastPrompt)
		}
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("unreplaced placeholder in prompt: %s", stub.lastPrompt)
	}
}

func TestSummarizeEmptySkills(t *testing.T) {
	stub := &stubGenerator{response: "ok"}
	summarizer := NewSummarizer(stub, zap.NewNop(), 0)

	if _, err := summarizer.Summarize(context.Background(), narrative.Input{RoleTitle: "X"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "none listed") {
		t.Fatalf("expected skills placeholder for empty alignment: %s", stub.lastPrompt)
	}
}

func TestSummarizeGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	summarizer := NewSummarizer(&stubGenerator{err: boom}, zap.NewNop(), 0)

	_, err := summarizer.Summarize(context.Background(), narrative.Input{RoleTitle: "X"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestSummarizeEmptyResponse(t *testing.T) {
	summarizer := NewSummarizer(&stubGenerator{response: "```\n```"}, zap.NewNop(), 0)

	_, err := summarizer.Summarize(context.Background(), narrative.Input{RoleTitle: "X"})
	if err == nil {
		t.Fatalf("expected error for empty cleaned response")
	}
}

func TestSummarizeNilGenerator(t *testing.T) {
	summarizer := NewSummarizer(nil, zap.NewNop(), 0)

	_, err := summarizer.Summarize(context.Background(), narrative.Input{RoleTitle: "X"})
	if !errors.Is(err, narrative.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCleanResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		expect string
	}{
		{
			name:   "plain text",
			raw:    "A concise summary.",
			expect: "A concise summary.",
		},
		{
			name:   "code fenced",
			raw:    "```text\nA concise summary.\n```",
			expect: "text A concise summary.",
		},
		{
			name:   "quoted",
			raw:    "\"A concise summary.\"",
			expect: "A concise summary.",
		},
		{
			name:   "multiline collapsed",
			raw:    "A concise\n  summary.",
			expect: "A concise summary.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanResponse(tt.raw); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
