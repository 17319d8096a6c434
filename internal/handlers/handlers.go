package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/service"
)

// statusForCode maps service error codes onto HTTP statuses.
var statusForCode = map[string]int{
	service.CodeInvalidRequest: http.StatusBadRequest,
	service.CodeNotFound:       http.StatusNotFound,
	service.CodeUnauthorized:   http.StatusUnauthorized,
	service.CodeForbidden:      http.StatusForbidden,
	service.CodeConflict:       http.StatusConflict,
	service.CodeLaunchGated:    http.StatusForbidden,
	service.CodeQuotaExceeded:  http.StatusTooManyRequests,
	service.CodeInternal:       http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, errorCode, message string, status int) {
	writeJSON(w, status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    errorCode,
			Message: message,
		},
	})
}

// respondServiceError translates a service failure into the error
// envelope. Unknown errors become opaque 500s; the detail goes to the log
// only.
func respondServiceError(w http.ResponseWriter, log logging.Logger, err error) {
	if serviceErr, ok := err.(*service.ServiceError); ok {
		status, known := statusForCode[serviceErr.Code]
		if !known {
			status = http.StatusInternalServerError
		}
		writeError(w, serviceErr.Code, serviceErr.Message, status)
		return
	}
	log.Errorf("unhandled service error: %v", err)
	writeError(w, service.CodeInternal, "Internal server error", http.StatusInternalServerError)
}

// queryInt reads an integer query parameter, falling back on absence or
// garbage.
func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func decodeBody(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, service.CodeInvalidRequest, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}
