package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jtarasov/rolefit/internal/catalog"
	"github.com/jtarasov/rolefit/internal/confidence"
	"github.com/jtarasov/rolefit/internal/gaps"
	"github.com/jtarasov/rolefit/internal/inference"
	"github.com/jtarasov/rolefit/internal/narrative"
	"github.com/jtarasov/rolefit/internal/seniority"
	"github.com/jtarasov/rolefit/internal/signals"
)

// Request is the inbound recommendation request from the UI or API layer.
type Request struct {
	Resume          *signals.ResumeSignals                    `json:"resume_signals,omitempty"`
	Profiles        map[signals.Source]*signals.SourceSignals `json:"profile_signals_by_source,omitempty"`
	Industries      []string                                  `json:"selected_industries"`
	Specializations []string                                  `json:"selected_specializations,omitempty"`
}

// Result is the recommendation set for one industry.
type Result struct {
	Industry          string                       `json:"industry"`
	Roles             []*inference.RecommendedRole `json:"roles"`
	OverallConfidence confidence.Level             `json:"overall_confidence"`
	ConfidenceFactors []string                     `json:"confidence_factors,omitempty"`
}

// Response is the complete per-request recommendation outcome. Constructed
// per request, returned to the caller, never mutated after return.
type Response struct {
	RequestID          string         `json:"request_id"`
	Seniority          seniority.Tier `json:"seniority"`
	SeniorityRationale []string       `json:"seniority_rationale,omitempty"`
	Results            []Result       `json:"results"`
	Warnings           []string       `json:"warnings,omitempty"`
}

// ErrNoIndustries is returned when the request selects no industries.
var ErrNoIndustries = errors.New("no industries selected")

// Deps aggregates the dependencies the service is built from.
type Deps struct {
	Catalog          *catalog.Catalog
	Summarizer       narrative.Summarizer
	NarrativeTimeout time.Duration
	Logger           *zap.Logger
}

// Service runs the whole recommendation pipeline: signal aggregation,
// seniority detection, per-industry role inference, gap analysis and
// confidence calculation.
type Service struct {
	catalog    *catalog.Catalog
	aggregator *signals.Aggregator
	detector   *seniority.Detector
	engine     *inference.Engine
	analyzer   *gaps.Analyzer
	calculator *confidence.Calculator
	logger     *zap.Logger
}

// NewService wires the pipeline components from the provided dependencies.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		catalog:    deps.Catalog,
		aggregator: signals.NewAggregator(deps.Catalog.Vocabulary(), logger),
		detector:   seniority.NewDetector(logger),
		engine:     inference.NewEngine(deps.Catalog, deps.Summarizer, deps.NarrativeTimeout, logger),
		analyzer:   gaps.NewAnalyzer(logger),
		calculator: confidence.NewCalculator(logger),
		logger:     logger,
	}
}

// Industries lists the industries the loaded catalog knows about.
func (s *Service) Industries() []string {
	return s.catalog.Industries()
}

// Recommend executes one recommendation request. Failures scoped to a single
// industry become warnings; the call errors only when no industry could be
// served at all. A sparse profile is not an error: the result is best-effort
// roles at LOW confidence.
func (s *Service) Recommend(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || len(req.Industries) == 0 {
		return nil, ErrNoIndustries
	}

	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	logger.Info("starting recommendation",
		zap.Int("industries", len(req.Industries)),
		zap.Bool("resume_present", req.Resume != nil),
		zap.Int("profile_sources", len(req.Profiles)),
	)

	profile := s.aggregator.Aggregate(req.Resume, req.Profiles)
	tier, rationale := s.detector.Detect(profile)

	logger.Info("profile aggregated",
		zap.Int("skills", profile.SkillCount()),
		zap.String("seniority", string(tier)),
	)

	// Per-industry inference is independent: each task reads the same
	// immutable profile and the same read-only catalog.
	inferred := make([]*inference.IndustryResult, len(req.Industries))
	inferErrs := make([]error, len(req.Industries))

	g, gctx := errgroup.WithContext(ctx)
	for i, industry := range req.Industries {
		g.Go(func() error {
			result, err := s.engine.InferIndustry(gctx, profile, tier, industry, req.Specializations)
			if err != nil {
				// Industry-scoped failures must not abort the
				// other industries; recorded and reported as
				// warnings below.
				inferErrs[i] = err
				return nil
			}
			inferred[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	response := &Response{
		RequestID:          requestID,
		Seniority:          tier,
		SeniorityRationale: rationale,
	}

	tenureNote := seniority.HasTenureNote(rationale)

	for i, industry := range req.Industries {
		if err := inferErrs[i]; err != nil {
			logger.Warn("industry skipped",
				zap.String("industry", industry),
				zap.Error(err),
			)
			response.Warnings = append(response.Warnings, industryWarning(industry, err))
			continue
		}

		result := inferred[i]
		for _, role := range result.Roles {
			role.GapAnalysis = s.analyzer.Analyze(role.Archetype(), profile)
		}

		level, factors := s.calculator.Calculate(profile, confidence.Penalties{
			BelowScoreFloor:      result.BelowFloor,
			TenureUncorroborated: tenureNote,
		})

		response.Results = append(response.Results, Result{
			Industry:          result.Industry,
			Roles:             result.Roles,
			OverallConfidence: level,
			ConfidenceFactors: factors,
		})
	}

	if len(response.Results) == 0 {
		return nil, fmt.Errorf("no industry could be served: %v", response.Warnings)
	}

	logger.Info("recommendation complete",
		zap.Int("industries_served", len(response.Results)),
		zap.Int("warnings", len(response.Warnings)),
	)

	return response, nil
}

func industryWarning(industry string, err error) string {
	switch {
	case errors.Is(err, catalog.ErrUnknownIndustry):
		return fmt.Sprintf("industry %q is not in the catalog", industry)
	case errors.Is(err, catalog.ErrInsufficientArchetypes):
		return fmt.Sprintf("catalog has no archetypes for industry %q", industry)
	default:
		return fmt.Sprintf("industry %q failed: %v", industry, err)
	}
}
