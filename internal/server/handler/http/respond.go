package http

import (
	"encoding/json"
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// writeJSON sends v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage sends {"message": msg}.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps a service error to a status code and message body.
// Internal errors are reported without their details.
func writeError(w http.ResponseWriter, err error) {
	var e *goerrors.Error
	if !errors.As(err, &e) || e.Category == goerrors.CategoryInternal {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch e.Category {
	case goerrors.CategoryAuth:
		status = http.StatusUnauthorized
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		status = http.StatusBadRequest
	case goerrors.CategoryNotFound:
		status = http.StatusNotFound
	case goerrors.CategoryConflict:
		status = http.StatusConflict
	}

	body := map[string]any{"message": e.Message}
	if len(e.ValidationErrors) > 0 {
		body["errors"] = e.ValidationErrors
	}
	writeJSON(w, status, body)
}

// decodeJSON reads the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}
