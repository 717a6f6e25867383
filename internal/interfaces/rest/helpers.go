package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 100 << 10

var ErrMalformedBody = errors.New("malformed JSON body")

// Body is a decoded JSON object whose fields are read lazily by the validator.
type Body map[string]json.RawMessage

// DecodeBody reads a JSON object body. An empty body decodes to an empty Body.
func DecodeBody(w http.ResponseWriter, r *http.Request) (Body, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	body := Body{}
	if len(data) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return body, nil
}

// String returns the field as text: strings verbatim, other JSON values as their literal.
func (b Body) String(field string) string {
	_, text := fieldValue(b[field])
	return text
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
