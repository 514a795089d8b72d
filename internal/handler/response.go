package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

const (
	msgNotFound     = "Endpoint not found"
	msgRateLimited  = "Rate limit exceeded. Please try again later."
	msgInternal     = "Internal server error"
	msgNoData       = "No data provided"
	msgContactError = "An error occurred while processing your request. Please try again."
)

// envelope is the common {success, message} response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func writeOK(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

var errEmptyBody = errors.New("empty body")

// decodeBody reads a JSON object into dst. A missing body, malformed JSON or
// an empty object all yield an error.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(raw, dst)
}

// truthy decodes any JSON scalar using the usual truthiness rules, so
// "newsletter": "on" and "newsletter": 1 both count as opted in.
type truthy bool

func (t *truthy) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*t = truthy(x)
	case string:
		*t = x != ""
	case float64:
		*t = x != 0
	case nil:
		*t = false
	default:
		*t = true
	}
	return nil
}

// text decodes a JSON string, treating null and non-string scalars leniently.
type text string

func (s *text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*s = text(x)
	case nil:
		*s = ""
	default:
		*s = text(string(b))
	}
	return nil
}
