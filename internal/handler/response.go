package handler

// Every response from the API is JSON. Errors always have the same shape:
//
//	{"error": "not_found", "message": "video not found with id v9"}
//
// so the frontend can branch on "error" without caring about the status code.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/luzplay/internal/apperror"
)

// maxBodyBytes caps request bodies. The largest legitimate body is an ad
// with embedded HTML.
const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable, e.g. "not_found"
	Message string `json:"message"` // human-readable
}

// writeJSON sets the header, then the status, then the body. Headers set
// after the first Write are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already on the wire
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to a status code.
//
//	ErrValidation   → 400
//	ErrForbidden    → 403
//	ErrNotFound     → 404
//	ErrConflict     → 409
//	ErrPrecondition → 422
//	anything else   → 500, with the details kept out of the response
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrPrecondition):
			status = http.StatusUnprocessableEntity
			errorType = "precondition_failed"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	slog.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// readJSON decodes the request body into dst. Unknown fields, trailing data
// and oversized bodies are validation errors.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperror.ValidationFailed("body", fmt.Sprintf("request body must be %d bytes or less", maxBodyBytes))
		}
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("body", "request body is empty")
		}
		return apperror.ValidationFailed("body", "invalid JSON body: "+err.Error())
	}
	if dec.More() {
		return apperror.ValidationFailed("body", "request body must contain a single JSON value")
	}
	return nil
}
