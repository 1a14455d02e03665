// Package httputil centralizes JSON response writing so every handler emits
// the same envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	derrors "roomalchemy/pkg/domain-errors"
)

// ErrorResponse is the shared error envelope: {error: <kind>, message: <text>}.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes v with the given status and a JSON content type.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the shared envelope. Internal and
// upstream failures get a generic message; their detail stays in local logs.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorStatus(w, derrors.ToHTTPStatus(derrors.CodeOf(err)), err)
}

// WriteErrorStatus is WriteError with an explicit status for the few endpoints
// whose contract reuses one code across two statuses.
func WriteErrorStatus(w http.ResponseWriter, status int, err error) {
	code := derrors.CodeOf(err)
	message := "Request failed."
	var de *derrors.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	switch code {
	case derrors.CodeInternal:
		message = "An unexpected error occurred."
	case derrors.CodeUpstreamError:
		message = "AI rendering service is unavailable. Please try again later."
	}
	WriteJSON(w, status, ErrorResponse{Error: string(code), Message: message})
}
