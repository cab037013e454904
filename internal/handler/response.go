// Package handler implements the HTTP layer: it parses requests, calls
// services, and renders JSON. No business rules live here — a handler that
// needs an if-statement about recipes is a handler doing the service's job.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/recipebox/internal/apperror"
)

// ErrorResponse is the error shape every endpoint returns:
//
//	{"error": "not_found", "message": "recipe not found with id abc", "field": ""}
//
// The frontend switches on the machine-readable "error" type; "field" is set
// for validation failures so forms can highlight the offending input.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the first body write — Encode writes the body, so the order
// here is fixed.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// The service layer returns apperror sentinels without knowing about HTTP;
// this is the single place that knowledge lives. errors.Is walks the wrap
// chain, so a service error like
//
//	fmt.Errorf("creating recipe: %w", apperror.ValidationFailed(...))
//
// still maps to 400.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown error. The raw message might contain SQL or file paths —
	// never expose it to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON parses a request body into dst, rejecting unknown fields so
// typos like "tittle" fail loudly instead of silently dropping data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "request body is not valid JSON: "+err.Error())
	}
	return nil
}
