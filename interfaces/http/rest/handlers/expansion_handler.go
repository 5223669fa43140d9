package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"inquiry-backend/application/services"
	"inquiry-backend/domain/core/valueobjects"
	"inquiry-backend/pkg/utils"
)

// ExpansionHandler handles node expansion and auto-expansion HTTP requests
type ExpansionHandler struct {
	expansion *services.ExpansionService
	planner   *services.PlannerService
	logger    *zap.Logger
}

// NewExpansionHandler creates a new expansion handler
func NewExpansionHandler(expansion *services.ExpansionService, planner *services.PlannerService, logger *zap.Logger) *ExpansionHandler {
	return &ExpansionHandler{
		expansion: expansion,
		planner:   planner,
		logger:    logger,
	}
}

// ExpandRequest is the request body for a single expansion
type ExpandRequest struct {
	Type         string `json:"type" validate:"required,oneof=objections refutation synthesis"`
	TargetNodeID string `json:"targetNodeId,omitempty"`
}

// AutoExpandRequest is the request body for auto-expansion
type AutoExpandRequest struct {
	TargetDepth int `json:"targetDepth" validate:"required,min=1,max=20"`
	MaxNodes    int `json:"maxNodes" validate:"required,min=1,max=100"`
}

// ExpandNode handles POST /complexes/{complexID}/nodes/{nodeID}/expand
func (h *ExpansionHandler) ExpandNode(w http.ResponseWriter, r *http.Request) {
	complexID, err := valueobjects.NewComplexIDFromString(chi.URLParam(r, "complexID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid complex ID")
		return
	}
	nodeID, err := valueobjects.NewNodeIDFromString(chi.URLParam(r, "nodeID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid node ID")
		return
	}

	var req ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	expansionType, err := services.ParseExpansionType(req.Type)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	var targetID *valueobjects.NodeID
	if req.TargetNodeID != "" {
		target, err := valueobjects.NewNodeIDFromString(req.TargetNodeID)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "Invalid target node ID")
			return
		}
		targetID = &target
	}

	newIDs, err := h.expansion.ExpandNode(r.Context(), complexID, nodeID, expansionType, targetID)
	if err != nil {
		h.logger.Warn("Expansion failed",
			zap.String("complexID", complexID.String()),
			zap.String("nodeID", nodeID.String()),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"newNodeIds": newIDs,
	})
}

// AutoExpand handles POST /complexes/{complexID}/auto-expand
func (h *ExpansionHandler) AutoExpand(w http.ResponseWriter, r *http.Request) {
	complexID, err := valueobjects.NewComplexIDFromString(chi.URLParam(r, "complexID"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid complex ID")
		return
	}

	var req AutoExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.planner.AutoExpand(r.Context(), complexID, req.TargetDepth, req.MaxNodes)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
