package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/cafoodfinder/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an error kind to an HTTP status. Only validation and
// not-found messages are echoed; provider failures get a generic message.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.LoggerFromContext(r.Context())
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		logger.Error().Err(err).Msg("unclassified request error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeExternal:
		logger.Warn().Err(err).Msg("places provider request failed")
		respondWithError(w, http.StatusBadGateway, "places provider request failed")
	default:
		logger.Error().Err(err).Msg("internal error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
