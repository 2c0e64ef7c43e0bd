package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"agri-chat/pkg/api"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

const internalServerErrorMessage = "Internal server error"

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

func ParseRequest[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request body")
	}
	return data, nil
}

func ParseRequestQueryParams[T any](r *http.Request) (T, error) {
	var data T
	if err := r.ParseForm(); err != nil {
		slog.Error("error parsing form", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(&data, r.Form); err != nil {
		slog.Error("error decoding query params", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request query params")
	}

	return data, nil
}

// RestHandler turns a handler's result into a JSON response. Errors become a
// JSON {"error": ...} body; internal errors are logged and never leak their
// message to the caller.
func RestHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			var cerr *codedError
			if errors.As(err, &cerr) && cerr.code != http.StatusInternalServerError {
				WriteJsonError(w, cerr.code, err.Error())
				return
			}

			slog.Error("internal server error received in endpoint", "path", r.URL.Path, "error", err)
			WriteJsonError(w, http.StatusInternalServerError, internalServerErrorMessage)
			return
		}

		if res == nil {
			res = struct{}{}
		}

		WriteJsonResponse(w, http.StatusOK, res)
	}
}

func WriteJsonResponse(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		http.Error(w, fmt.Sprintf("error serializing response body: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("error writing response body", "error", err)
	}
}

func WriteJsonError(w http.ResponseWriter, code int, message string) {
	WriteJsonResponse(w, code, api.ErrorResponse{Error: message})
}

// ParseSessionID normalizes an optional session id. The empty string is kept
// as is and selects the shared default session.
func ParseSessionID(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", CodedErrorf(http.StatusBadRequest, "invalid session id '%v' provided: %w", raw, err)
	}

	return id.String(), nil
}
