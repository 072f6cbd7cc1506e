package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyBody is returned by Decode for requests without a body.
var ErrEmptyBody = errors.New("empty request body")

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, map[string]string{"error": message})
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}
