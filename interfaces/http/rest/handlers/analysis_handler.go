package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"inquiry-backend/application/services"
	"inquiry-backend/domain/core/valueobjects"
)

// AnalysisHandler handles whole-complex analysis HTTP requests
type AnalysisHandler struct {
	analyzer *services.AnalyzerService
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analyzer *services.AnalyzerService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// AnalyzeComplex handles POST /complexes/{complexID}/analyze
func (h *AnalysisHandler) AnalyzeComplex(w http.ResponseWriter, r *http.Request) {
	complexID, err := valueobjects.NewComplexIDFromString(chi.URLParam(r, "complexID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid complex ID")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), complexID)
	if err != nil {
		h.logger.Warn("Analysis failed",
			zap.String("complexID", complexID.String()),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
