package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	MsgUnauthorized  = "unauthorized"
	MsgInvalidToken  = "invalid or expired token"
	MsgInternalError = "internal server error"
)

// Error is a failure that is safe to show to the client.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func BadRequest(format string, args ...any) error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// JSONHandler wraps handlers that return error. *Error values are written
// as-is; anything else is logged and reported as a bare 500.
type JSONHandler func(http.ResponseWriter, *http.Request) error

func (h JSONHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}
	var he *Error
	if errors.As(err, &he) {
		_ = WriteJSON(w, he.Status, ErrorBody(he.Message))
		return
	}
	slog.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestID(r.Context()),
		"error", err,
	)
	_ = WriteJSON(w, http.StatusInternalServerError, ErrorBody(MsgInternalError))
}

func ErrorBody(msg string) map[string]string { return map[string]string{"error": msg} }

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
