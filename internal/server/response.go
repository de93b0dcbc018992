package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	trainyard "github.com/eugener/trainyard/internal"
)

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func errorResponse(status int, msg string) apiError {
	var e apiError
	e.Error.Message = msg
	switch {
	case status == http.StatusNotFound:
		e.Error.Type = "not_found_error"
	case status >= 500:
		e.Error.Type = "server_error"
	default:
		e.Error.Type = "invalid_request_error"
	}
	return e
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, trainyard.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, trainyard.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes it. Server-side failures are
// logged and their detail withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status >= 500 {
		slog.LogAttrs(r.Context(), slog.LevelError, "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
			slog.String("request_id", trainyard.RequestIDFromContext(r.Context())),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse(status, msg))
}

// jsonCT is a pre-allocated header value slice; direct map assignment skips
// the []string{v} alloc that Header.Set creates on every call.
var jsonCT = []string{"application/json"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header()["Content-Type"] = jsonCT
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
