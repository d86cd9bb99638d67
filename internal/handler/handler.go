package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"productapi/internal/middleware"
	"productapi/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies read by handlers.
const maxBodyBytes = 1 << 20

// SuccessResponse is the body returned by create and update.
type SuccessResponse struct {
	Success string `json:"Success"`
}

// writeJSON writes a JSON response with the given status code.
// Encoding failures are logged; the status line has already been sent.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode response body")
	}
}

// writeError writes a coded error body carrying the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	event := logger.Debug()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("request_id", requestID).
		Str("code", code).
		Int("status", status).
		Msg(message)

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: requestID,
	}, logger)
}

// writeFailure maps an error from decoding or the service to a response.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, verr.Fields, logger)
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		writeError(w, r, statusForCode(derr.Code), derr.Code, derr.Message, logger)
		return
	}

	logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeProductNotFound, model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeProductConflict:
		return http.StatusConflict
	case model.ErrCodeInvalidJSON, model.ErrCodeInvalidProductID:
		return http.StatusBadRequest
	case model.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case model.ErrCodeNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NotFound answers requests that match no route.
func NotFound(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "no route for "+r.URL.Path, logger)
	}
}

// MethodNotAllowed answers requests whose path matches but method does not.
func MethodNotAllowed(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method "+r.Method+" not allowed", logger)
	}
}
