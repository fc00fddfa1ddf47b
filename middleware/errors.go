package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"betlearning/learning"

	"github.com/rs/zerolog/log"
)

// HTTPError is an error with the status code it should be served with
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ToHTTPError maps service errors to transport errors. Unknown errors become
// a 500 without leaking their text.
func ToHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, learning.ErrValidation):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, learning.ErrNotFound):
		return &HTTPError{StatusCode: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, learning.ErrAlreadyVerified):
		return &HTTPError{StatusCode: http.StatusConflict, Message: err.Error()}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
	}
}

// WriteError writes {"success": false, "error": ...} with the mapped status
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := ToHTTPError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	}
	WriteJSON(w, httpErr.StatusCode, map[string]interface{}{
		"success": false,
		"error":   httpErr.Message,
	})
}

// WriteSuccess writes {"success": true, "data": ..., "message": ...}
func WriteSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	body := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	WriteJSON(w, status, body)
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
