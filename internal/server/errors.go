package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the structured JSON error body for all failed requests.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func errValidation(message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, ErrorCode: "VALIDATION_FAILED", Message: message}
}

func errInsufficientData(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "INSUFFICIENT_DATA", Message: message}
}

func errRetrieval(message string) *APIError {
	return &APIError{StatusCode: http.StatusBadGateway, ErrorCode: "RETRIEVAL_FAILURE", Message: message}
}

func errInternal(message string) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, ErrorCode: "INTERNAL_ERROR", Message: message}
}
