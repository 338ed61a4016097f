package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// serviceError maps service-layer errors onto the HTTP taxonomy and
// writes the response. Unrecognized errors become a 500 and are logged;
// recognized ones carry enough context for the caller to act on.
func serviceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		status  int
		code    string
		message string
	)

	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		status, code, message = http.StatusBadRequest, "invalid_input", "Request input is missing or malformed"
	case errors.Is(err, apperrors.ErrInvalidCategory):
		status, code, message = http.StatusBadRequest, "invalid_category", "Category must be counsellor or legal"
	case errors.Is(err, apperrors.ErrForbidden):
		status, code, message = http.StatusForbidden, "forbidden", "Caller does not hold an assignment for this victim"
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "No such assignment"
	case errors.Is(err, apperrors.ErrNoProfessionalsAvailable):
		status, code, message = http.StatusNotFound, "no_professionals_available", "No professional is available at the moment. Please contact support."
	case errors.Is(err, apperrors.ErrConflict):
		status, code, message = http.StatusConflict, "conflict", "Assignment already exists"
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		status, code, message = http.StatusServiceUnavailable, "store_unavailable", "Storage is temporarily unavailable, please retry"
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		status, code, message = http.StatusInternalServerError, "internal_error", "Internal server error"
	}

	if err := ErrorResponse(w, status, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
