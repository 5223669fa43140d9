package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	pkgerrors "inquiry-backend/pkg/errors"
)

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

// respondAppError maps a service error onto the HTTP status carried by the
// application error type; unknown errors become a 500
func respondAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		body := map[string]interface{}{
			"error":   true,
			"type":    string(appErr.Type),
			"message": appErr.Message,
			"code":    appErr.HTTPStatus,
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		respondJSON(w, logger, appErr.HTTPStatus, body)
		return
	}
	respondError(w, logger, http.StatusInternalServerError, "Internal server error")
}
