package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"inquiry-backend/application/services"
	"inquiry-backend/domain/core/aggregates"
	"inquiry-backend/domain/core/valueobjects"
	"inquiry-backend/pkg/utils"
)

// ComplexHandler handles complex lifecycle HTTP requests
type ComplexHandler struct {
	complexes *services.ComplexService
	logger    *zap.Logger
}

// NewComplexHandler creates a new complex handler
func NewComplexHandler(complexes *services.ComplexService, logger *zap.Logger) *ComplexHandler {
	return &ComplexHandler{
		complexes: complexes,
		logger:    logger,
	}
}

// CreateComplexRequest is the request body for creating a complex
type CreateComplexRequest struct {
	Question       string `json:"question" validate:"required,min=1,max=1000"`
	CentralContent string `json:"centralContent,omitempty"`
}

// ComplexSummary is the list/get DTO for a complex
type ComplexSummary struct {
	ID              string         `json:"id"`
	CentralQuestion string         `json:"centralQuestion"`
	CentralPointID  string         `json:"centralPointId"`
	NodeCount       int            `json:"nodeCount"`
	MaxDepth        int            `json:"maxDepth"`
	NodesByType     map[string]int `json:"nodesByType"`
	CreatedAt       string         `json:"createdAt"`
}

func summarize(complex *aggregates.Complex) ComplexSummary {
	byType := make(map[string]int)
	for t, n := range complex.NodesByType() {
		byType[string(t)] = n
	}
	return ComplexSummary{
		ID:              complex.ID().String(),
		CentralQuestion: complex.CentralQuestion(),
		CentralPointID:  complex.CentralPointID().String(),
		NodeCount:       complex.NodeCount(),
		MaxDepth:        complex.MaxDepth(),
		NodesByType:     byType,
		CreatedAt:       complex.CreatedAt().Format(time.RFC3339Nano),
	}
}

// CreateComplex handles POST /complexes
func (h *ComplexHandler) CreateComplex(w http.ResponseWriter, r *http.Request) {
	var req CreateComplexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	complex, err := h.complexes.CreateComplex(r.Context(), req.Question, req.CentralContent)
	if err != nil {
		h.logger.Error("Failed to create complex", zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, complex.Snapshot())
}

// ListComplexes handles GET /complexes
func (h *ComplexHandler) ListComplexes(w http.ResponseWriter, r *http.Request) {
	complexes := h.complexes.ListComplexes()

	summaries := make([]ComplexSummary, 0, len(complexes))
	for _, complex := range complexes {
		summaries = append(summaries, summarize(complex))
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"complexes": summaries,
		"count":     len(summaries),
	})
}

// GetComplex handles GET /complexes/{complexID}
func (h *ComplexHandler) GetComplex(w http.ResponseWriter, r *http.Request) {
	id, ok := h.complexID(w, r)
	if !ok {
		return
	}

	complex, err := h.complexes.GetComplex(id)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, complex.Snapshot())
}

// DeleteComplex handles DELETE /complexes/{complexID}
func (h *ComplexHandler) DeleteComplex(w http.ResponseWriter, r *http.Request) {
	id, ok := h.complexID(w, r)
	if !ok {
		return
	}

	if err := h.complexes.DeleteComplex(id); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportComplex handles GET /complexes/{complexID}/export
func (h *ComplexHandler) ExportComplex(w http.ResponseWriter, r *http.Request) {
	id, ok := h.complexID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.complexes.Export(id)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, snapshot)
}

// ImportComplex handles POST /complexes/import
func (h *ComplexHandler) ImportComplex(w http.ResponseWriter, r *http.Request) {
	var snapshot aggregates.ComplexSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid snapshot body")
		return
	}

	complex, err := h.complexes.Import(&snapshot)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, summarize(complex))
}

// SaveComplex handles POST /complexes/{complexID}/save
func (h *ComplexHandler) SaveComplex(w http.ResponseWriter, r *http.Request) {
	id, ok := h.complexID(w, r)
	if !ok {
		return
	}

	if err := h.complexes.SaveSnapshot(r.Context(), id); err != nil {
		h.logger.Error("Failed to save complex", zap.String("complexID", id.String()), zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"saved": id.String(),
	})
}

// RestoreComplex handles POST /complexes/restore/{complexID}
func (h *ComplexHandler) RestoreComplex(w http.ResponseWriter, r *http.Request) {
	complexID := chi.URLParam(r, "complexID")
	if complexID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "Complex ID is required")
		return
	}

	complex, err := h.complexes.RestoreSnapshot(r.Context(), complexID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, summarize(complex))
}

func (h *ComplexHandler) complexID(w http.ResponseWriter, r *http.Request) (valueobjects.ComplexID, bool) {
	raw := chi.URLParam(r, "complexID")
	id, err := valueobjects.NewComplexIDFromString(raw)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid complex ID")
		return valueobjects.ComplexID{}, false
	}
	return id, true
}
