package middleware

import (
	"encoding/json"
	"net/http"
)

const (
	contentTypeHeader = "Content-Type"
	applicationJSON   = "application/json"

	CodeInvalidQuery  = "INVALID_QUERY"
	CodeInternalError = "INTERNAL_ERROR"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
)

// ErrorResponse is the body of every error answered by the service.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set(contentTypeHeader, applicationJSON)
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
