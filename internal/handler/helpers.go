package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

// ============================================================
// Shared helper functions
// ============================================================

const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx API response. Message is a
// string, or a list of strings for schema validation failures.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Path       string `json:"path"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg any) {
	writeJSON(w, status, errorResponse{StatusCode: status, Message: msg, Path: r.URL.Path})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON reads the request body into dst. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, []string{"invalid request body"})
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. A value that is not a UUID cannot
// name any entity, so it is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, resource string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, http.StatusNotFound, (&domain.ErrNotFound{Resource: resource, ID: raw}).Error())
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var domainRule *domain.ErrDomainRule
	var businessRule *domain.ErrBusinessRule
	var circuitOpen *domain.ErrCircuitOpen

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.Strings("messages", validation.Messages))
		writeError(w, r, http.StatusBadRequest, validation.Messages)
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", notFound.Error()))
		writeError(w, r, http.StatusNotFound, notFound.Error())
	case errors.As(err, &domainRule):
		logger.Debug("domain rule violated", zap.String("reason", domainRule.Reason))
		writeError(w, r, http.StatusBadRequest, domainRule.Reason)
	case errors.As(err, &businessRule):
		logger.Warn("business rule violated", zap.String("reason", businessRule.Reason))
		writeError(w, r, http.StatusUnprocessableEntity, businessRule.Reason)
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		w.Header().Set("Retry-After", "10")
		writeError(w, r, http.StatusServiceUnavailable, "service temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, r, http.StatusGatewayTimeout, "request timed out")
	default:
		logger.Error("unhandled error",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
