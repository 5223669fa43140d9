package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inquiry-backend/domain/core/aggregates"
	"inquiry-backend/domain/core/entities"
	"inquiry-backend/infrastructure/persistence/memory"
	pkgerrors "inquiry-backend/pkg/errors"
)

func newAnalyzerFixture(t *testing.T, gen *stubGenerator) (*AnalyzerService, *aggregates.Complex) {
	t.Helper()
	logger := zap.NewNop()
	registry := memory.NewComplexRegistry(logger)

	complex, err := aggregates.NewComplex("Is X true?", "X is true.", entities.Metadata{Strength: 0.8})
	require.NoError(t, err)
	_, err = complex.AddNode(complex.CentralPointID(), entities.TypeObjection, "But Y", entities.Metadata{Strength: 0.5})
	require.NoError(t, err)
	require.NoError(t, registry.Put(complex))

	return NewAnalyzerService(registry, gen, testGenParams, logger), complex
}

func TestAnalyzerService_Analyze(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"overallStrength": 0.72, "coherenceScore": 0.81, "keyInsights": ["Y is underexplored"], "suggestions": ["refute Y"]}`,
	}}
	svc, complex := newAnalyzerFixture(t, gen)

	result, err := svc.Analyze(context.Background(), complex.ID())

	require.NoError(t, err)
	assert.Equal(t, 0.72, result.OverallStrength)
	assert.Equal(t, 0.81, result.CoherenceScore)
	assert.Equal(t, []string{"Y is underexplored"}, result.KeyInsights)
	assert.Equal(t, []string{"refute Y"}, result.Suggestions)

	// Analysis is read-only.
	assert.Equal(t, 2, complex.NodeCount())

	// The prompt carries the graph summary.
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "X is true.")
	assert.Contains(t, gen.prompts[0], "But Y")
}

func TestAnalyzerService_Analyze_MissingScores(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"keyInsights": ["no numbers though"]}`,
	}}
	svc, complex := newAnalyzerFixture(t, gen)

	_, err := svc.Analyze(context.Background(), complex.ID())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsGenerationContent(err))
}

func TestAnalyzerService_Analyze_ClampsScores(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"overallStrength": 1.4, "coherenceScore": -0.2}`,
	}}
	svc, complex := newAnalyzerFixture(t, gen)

	result, err := svc.Analyze(context.Background(), complex.ID())

	require.NoError(t, err)
	assert.Equal(t, 1.0, result.OverallStrength)
	assert.Equal(t, 0.0, result.CoherenceScore)
	assert.NotNil(t, result.KeyInsights)
	assert.NotNil(t, result.Suggestions)
}

func TestAnalyzerService_Analyze_ParseFailure(t *testing.T) {
	gen := &stubGenerator{responses: []string{"the inquiry looks fine to me"}}
	svc, complex := newAnalyzerFixture(t, gen)

	_, err := svc.Analyze(context.Background(), complex.ID())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsGenerationParse(err))
}
