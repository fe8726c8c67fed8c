package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind tags a backend failure with its classification. Every non-2xx
// response from the backend is mapped to exactly one kind at the client
// boundary; controllers and handlers consume the tag, never raw status codes.
type ErrorKind string

const (
	// KindNotAuthenticated covers 401-class failures: missing, expired, or
	// rejected credentials.
	KindNotAuthenticated ErrorKind = "not_authenticated"
	// KindFieldValidation covers 400-class failures carrying per-field
	// validation messages.
	KindFieldValidation ErrorKind = "field_validation"
	// KindNotFound covers 404-class failures (detail views only).
	KindNotFound ErrorKind = "not_found"
	// KindOperationFailed covers every other network or server failure.
	KindOperationFailed ErrorKind = "operation_failed"
)

// APIError is the tagged error returned for every failed backend call.
type APIError struct {
	Kind ErrorKind
	// Status is the HTTP status code, or 0 for transport-level failures.
	Status int
	// Message is a short human-readable summary.
	Message string
	// Fields holds per-field validation messages for KindFieldValidation,
	// keyed by the backend's field names.
	Fields map[string][]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, strings.Join(parts, ", "))
}

// ClassifyStatus maps an HTTP status code to an ErrorKind.
func ClassifyStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindNotAuthenticated
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindFieldValidation
	default:
		return KindOperationFailed
	}
}

// ErrorKindOf returns the classification of err, or KindOperationFailed when
// err is not an APIError (transport failures, context cancellation).
func ErrorKindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindOperationFailed
}
