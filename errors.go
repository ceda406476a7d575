package main

import (
	"errors"
	"log"
	"net/http"
)

// APIError is a domain failure with a fixed HTTP status. The set below is
// closed; handlers return these values (or wrap them) and the boundary
// writers turn them into the uniform error envelope. Match with errors.Is.
type APIError struct {
	Status  int
	Message string
	Detail  any
}

func (e *APIError) Error() string { return e.Message }

var (
	// 401 — authentication
	ErrInvalidCredentials = &APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &APIError{Status: http.StatusUnauthorized, Message: "Invalid token"}
	ErrTokenExpired       = &APIError{Status: http.StatusUnauthorized, Message: "Token has expired"}

	// 403 — authorization
	ErrInactiveUser   = &APIError{Status: http.StatusForbidden, Message: "User account is inactive"}
	ErrUnverifiedUser = &APIError{Status: http.StatusForbidden, Message: "User account is not verified"}

	// 404 / 409 — resources
	ErrUserNotFound      = &APIError{Status: http.StatusNotFound, Message: "User not found"}
	ErrNotFound          = &APIError{Status: http.StatusNotFound, Message: "Resource not found"}
	ErrUserAlreadyExists = &APIError{Status: http.StatusConflict, Message: "User with this email already exists"}
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}

// writeError translates a failure into the uniform envelope. Anything that is
// not an *APIError is unexpected: it is logged with full request context and
// reported as a bare 500 with no detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Status, errorEnvelope{Message: apiErr.Message, Detail: apiErr.Detail})
		return
	}
	log.Printf("[http] %s %s: %v", r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{Message: "Internal server error"})
}
