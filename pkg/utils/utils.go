package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// ParseJSON decodes the request body into v. Bodies over 1MB and bodies
// carrying more than one JSON value are rejected.
func ParseJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("missing request body")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body: unexpected data after JSON value")
	}
	return nil
}

func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, map[string]string{"error": message})
}

// WriteFieldErrors reports a message together with per-field details.
func WriteFieldErrors(w http.ResponseWriter, status int, message string, fields any) error {
	return WriteJSON(w, status, map[string]any{"error": message, "fields": fields})
}
