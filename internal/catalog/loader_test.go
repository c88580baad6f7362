package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const catalogYAML = `archetypes:
  - industry: Technology
    title: Backend Engineer
    description: Builds server-side systems
    required_skills:
      - name: Go
        importance: core
        category: language
        alternatives: [Golang]
      - name: PostgreSQL
        category: database
      - name: Docker
        importance: BONUS
    seniority_markers:
      SENIOR: [architecture, mentoring]
`

func TestLoadSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	c, err := Load(path, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("expected 1 archetype, got %d", c.Len())
	}

	archetypes, err := c.Lookup("technology", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := archetypes[0]
	if a.ID != "technology_backend_engineer" {
		t.Fatalf("expected generated ID, got %q", a.ID)
	}

	if a.RequiredSkills[0].Importance != ImportanceCore {
		t.Fatalf("expected lower-case importance to be normalized, got %q", a.RequiredSkills[0].Importance)
	}

	// Omitted importance defaults to PREFERRED, omitted category to general.
	if a.RequiredSkills[1].Importance != ImportancePreferred {
		t.Fatalf("expected default importance, got %q", a.RequiredSkills[1].Importance)
	}
	if a.RequiredSkills[1].Category != "database" || a.RequiredSkills[2].Category != "general" {
		t.Fatalf("unexpected categories: %q, %q", a.RequiredSkills[1].Category, a.RequiredSkills[2].Category)
	}

	if _, ok := c.Vocabulary().Normalize("golang"); !ok {
		t.Fatalf("expected alternatives to enter the vocabulary")
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()

	first := `archetypes:
  - industry: Technology
    title: Backend Engineer
    required_skills:
      - name: Go
        importance: CORE
`
	second := `- industry: Finance
  title: Quant Developer
  required_skills:
    - name: Python
      importance: CORE
`

	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(first), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte(second), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not yaml"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	c, err := Load(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Len() != 2 {
		t.Fatalf("expected 2 archetypes, got %d", c.Len())
	}

	if len(c.Industries()) != 2 {
		t.Fatalf("expected 2 industries, got %v", c.Industries())
	}
}

func TestLoadValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	broken := `archetypes:
  - industry: Technology
    title: ""
    required_skills:
      - name: Go
        importance: CORE
`
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := Load(path, zap.NewNop())
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	_, err := Load(t.TempDir(), zap.NewNop())
	if err == nil {
		t.Fatalf("expected error for directory without catalog files")
	}
}
