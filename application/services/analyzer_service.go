package services

import (
	"context"

	"go.uber.org/zap"

	"inquiry-backend/application/ports"
	"inquiry-backend/domain/core/valueobjects"
	pkgerrors "inquiry-backend/pkg/errors"
)

// AnalysisResult is the generator's assessment of a whole complex
type AnalysisResult struct {
	OverallStrength float64  `json:"overallStrength"`
	CoherenceScore  float64  `json:"coherenceScore"`
	KeyInsights     []string `json:"keyInsights"`
	Suggestions     []string `json:"suggestions"`
}

// analysisResponse uses pointers for the numeric fields so a reply that
// parses as JSON but omits them is still rejected
type analysisResponse struct {
	OverallStrength *float64 `json:"overallStrength"`
	CoherenceScore  *float64 `json:"coherenceScore"`
	KeyInsights     []string `json:"keyInsights"`
	Suggestions     []string `json:"suggestions"`
}

// AnalyzerService asks the generator to assess a complex as a whole. It is
// strictly read-only: analysis never adds nodes or touches the registry
// beyond the lookup.
type AnalyzerService struct {
	registry  ports.ComplexRegistry
	generator ports.ContentGenerator
	genParams ports.GenerationParams
	logger    *zap.Logger
}

// NewAnalyzerService creates a new analyzer service
func NewAnalyzerService(
	registry ports.ComplexRegistry,
	generator ports.ContentGenerator,
	genParams ports.GenerationParams,
	logger *zap.Logger,
) *AnalyzerService {
	return &AnalyzerService{
		registry:  registry,
		generator: generator,
		genParams: genParams,
		logger:    logger,
	}
}

// Analyze summarizes the complex for the generator and returns its structured
// assessment
func (s *AnalyzerService) Analyze(ctx context.Context, complexID valueobjects.ComplexID) (*AnalysisResult, error) {
	complex, err := s.registry.Get(complexID)
	if err != nil {
		return nil, err
	}

	summary := formatPath(complex.NodesInOrder())

	raw, err := s.generator.Generate(ctx, analysisPrompt(complex.CentralQuestion(), summary), s.genParams)
	if err != nil {
		return nil, err
	}

	var resp analysisResponse
	if err := decodeGeneratorResponse(raw, &resp); err != nil {
		return nil, err
	}
	if resp.OverallStrength == nil || resp.CoherenceScore == nil {
		return nil, pkgerrors.NewGenerationContentError("analysis response is missing required scores")
	}

	result := &AnalysisResult{
		OverallStrength: clamp01(*resp.OverallStrength),
		CoherenceScore:  clamp01(*resp.CoherenceScore),
		KeyInsights:     resp.KeyInsights,
		Suggestions:     resp.Suggestions,
	}
	if result.KeyInsights == nil {
		result.KeyInsights = []string{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}

	s.logger.Info("Analyzed complex",
		zap.String("complexID", complexID.String()),
		zap.Int("nodeCount", complex.NodeCount()),
		zap.Float64("overallStrength", result.OverallStrength),
	)

	return result, nil
}
