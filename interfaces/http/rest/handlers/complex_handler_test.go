package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inquiry-backend/application/ports"
	"inquiry-backend/application/services"
	"inquiry-backend/domain/core/aggregates"
	"inquiry-backend/infrastructure/persistence/memory"
)

// scriptedGenerator replays canned generator output
type scriptedGenerator struct {
	responses []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string, params ports.GenerationParams) (string, error) {
	if len(g.responses) == 0 {
		return `{"content": "default", "strength": 0.5}`, nil
	}
	resp := g.responses[0]
	g.responses = g.responses[1:]
	return resp, nil
}

// nullStore satisfies ports.ComplexStore for handler tests that never persist
type nullStore struct{}

func (nullStore) Save(ctx context.Context, snapshot *aggregates.ComplexSnapshot) error {
	return nil
}

func (nullStore) Load(ctx context.Context, complexID string) (*aggregates.ComplexSnapshot, error) {
	return nil, nil
}

func newTestRouter(gen ports.ContentGenerator) (chi.Router, *services.ComplexService) {
	logger := zap.NewNop()
	registry := memory.NewComplexRegistry(logger)
	genParams := ports.GenerationParams{Temperature: 0.2, MaxTokens: 256}

	complexes := services.NewComplexService(registry, nullStore{}, gen, genParams, logger)
	expansion := services.NewExpansionService(registry, gen, genParams, logger)
	analyzer := services.NewAnalyzerService(registry, gen, genParams, logger)

	complexHandler := NewComplexHandler(complexes, logger)
	expansionHandler := NewExpansionHandler(expansion, nil, logger)
	analysisHandler := NewAnalysisHandler(analyzer, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/complexes", func(r chi.Router) {
		r.Post("/", complexHandler.CreateComplex)
		r.Get("/", complexHandler.ListComplexes)
		r.Route("/{complexID}", func(r chi.Router) {
			r.Get("/", complexHandler.GetComplex)
			r.Delete("/", complexHandler.DeleteComplex)
			r.Get("/export", complexHandler.ExportComplex)
			r.Post("/analyze", analysisHandler.AnalyzeComplex)
			r.Post("/nodes/{nodeID}/expand", expansionHandler.ExpandNode)
		})
	})
	return r, complexes
}

func TestComplexHandler_CreateComplex(t *testing.T) {
	// Arrange
	router, _ := newTestRouter(&scriptedGenerator{})
	body := bytes.NewBufferString(`{"question": "Is X true?", "centralContent": "X is true."}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/complexes", body)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)

	var snapshot aggregates.ComplexSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "Is X true?", snapshot.CentralQuestion)
	require.Len(t, snapshot.Nodes, 1)
	assert.Equal(t, "point", snapshot.Nodes[0].Type)
	assert.Equal(t, "X is true.", snapshot.Nodes[0].Content)
}

func TestComplexHandler_CreateComplex_MissingQuestion(t *testing.T) {
	router, _ := newTestRouter(&scriptedGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/complexes", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplexHandler_GetComplex_NotFound(t *testing.T) {
	router, _ := newTestRouter(&scriptedGenerator{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/complexes/6f1f64a1-58b1-41d0-a72a-7f8d4a9e3b10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComplexHandler_GetComplex_InvalidID(t *testing.T) {
	router, _ := newTestRouter(&scriptedGenerator{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/complexes/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpansionHandler_ExpandNode(t *testing.T) {
	// Arrange: create a complex, then expand its central point
	gen := &scriptedGenerator{responses: []string{
		`{"objections": [{"content": "But Y", "strength": 0.5}]}`,
	}}
	router, complexes := newTestRouter(gen)

	complex, err := complexes.CreateComplex(context.Background(), "Is X true?", "X is true.")
	require.NoError(t, err)

	url := "/api/v1/complexes/" + complex.ID().String() + "/nodes/" + complex.CentralPointID().String() + "/expand"
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBufferString(`{"type": "objections"}`))
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		NewNodeIDs []string `json:"newNodeIds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.NewNodeIDs, 1)
	assert.Equal(t, 2, complex.NodeCount())
}

func TestExpansionHandler_ExpandNode_BadType(t *testing.T) {
	router, complexes := newTestRouter(&scriptedGenerator{})

	complex, err := complexes.CreateComplex(context.Background(), "Is X true?", "X is true.")
	require.NoError(t, err)

	url := "/api/v1/complexes/" + complex.ID().String() + "/nodes/" + complex.CentralPointID().String() + "/expand"
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBufferString(`{"type": "rebuttal"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisHandler_AnalyzeComplex(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"overallStrength": 0.7, "coherenceScore": 0.8, "keyInsights": [], "suggestions": []}`,
	}}
	router, complexes := newTestRouter(gen)

	complex, err := complexes.CreateComplex(context.Background(), "Is X true?", "X is true.")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complexes/"+complex.ID().String()+"/analyze", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0.7, result.OverallStrength)
}
