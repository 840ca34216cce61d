package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"mbtid/internal/predictor"
	"mbtid/pkg/types"
)

// Fixed client-facing error bodies. Server errors never carry internal detail.
var (
	errNoMessageQuery = types.ErrorResponse{
		Code:        http.StatusBadRequest,
		Description: "Bad Request. No message was provided.",
		Message:     "Use the message parameter to make a GET request.",
	}
	errNoMessageForm = types.ErrorResponse{
		Code:        http.StatusBadRequest,
		Description: "Bad Request. No message was provided.",
		Message:     "Fill in the message field of the form.",
	}
	errBadForm = types.ErrorResponse{
		Code:        http.StatusBadRequest,
		Description: "Bad Request. The form could not be read.",
		Message:     "Send the fields as application/x-www-form-urlencoded, multipart/form-data or JSON.",
	}
	errTooLarge = types.ErrorResponse{
		Code:        http.StatusRequestEntityTooLarge,
		Description: "Request Entity Too Large.",
		Message:     "The request body exceeds the configured limit.",
	}
	errNotFound = types.ErrorResponse{
		Code:        http.StatusNotFound,
		Description: "Not Found.",
		Message:     "The requested URL was not found on the server.",
	}
	errMethodNotAllowed = types.ErrorResponse{
		Code:        http.StatusMethodNotAllowed,
		Description: "Method Not Allowed.",
		Message:     "The method is not allowed for the requested URL.",
	}
	errInternal = types.ErrorResponse{
		Code:        http.StatusInternalServerError,
		Description: "Internal Server Error.",
		Message:     "The prediction could not be completed.",
	}
	errUnavailable = types.ErrorResponse{
		Code:        http.StatusServiceUnavailable,
		Description: "Service Unavailable.",
		Message:     "The server is shutting down.",
	}
)

// predictErrorBody maps a Predict error to its response body. invalid is the
// body used for a missing message, which differs between query and form input.
func predictErrorBody(err error, invalid types.ErrorResponse) types.ErrorResponse {
	if predictor.IsInvalidInput(err) {
		return invalid
	}
	return errInternal
}

// formErrorBody maps a body parsing error.
func formErrorBody(err error) types.ErrorResponse {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return errTooLarge
	}
	return errBadForm
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, body types.ErrorResponse) {
	writeJSON(w, body.Code, body)
}
