package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/catalog"
	"github.com/jtarasov/rolefit/internal/recommend"
)

func testHandler() *Handler {
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

	service := recommend.NewService(recommend.Deps{Catalog: cat, Logger: zap.NewNop()})

	return NewHandler(service, zap.NewNop())
}

func TestHealthz(t *testing.T) {
	server := httptest.NewServer(testHandler().Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	server := httptest.NewServer(testHandler().Router())
	defer server.Close()

	body := `{
		"resume_signals": {"skills": ["Go"], "experience_years": 4},
		"selected_industries": ["Technology"]
	}`

	resp, err := http.Post(server.URL+"/v1/recommendations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var response recommend.Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if response.RequestID == "" {
		t.Fatalf("expected a request ID")
	}
	if len(response.Results) != 1 || len(response.Results[0].Roles) != 2 {
		t.Fatalf("unexpected results: %+v", response.Results)
	}
}

func TestRecommendationsMalformedBody(t *testing.T) {
	server := httptest.NewServer(testHandler().Router())
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/recommendations", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRecommendationsNoIndustries(t *testing.T) {
	server := httptest.NewServer(testHandler().Router())
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/recommendations", "application/json",
		strings.NewReader(`{"resume_signals": {"skills": ["Go"]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRecommendationsAllIndustriesFailed(t *testing.T) {
	server := httptest.NewServer(testHandler().Router())
	defer server.Close()

	body := `{
		"resume_signals": {"skills": ["Go"]},
		"selected_industries": ["Healthcare"]
	}`

	resp, err := http.Post(server.URL+"/v1/recommendations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected an error message")
	}
}
