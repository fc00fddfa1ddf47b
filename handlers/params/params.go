// Package params parses path and query parameters shared by the handlers.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"betlearning/learning"

	"github.com/gorilla/mux"
)

// PathInt64 reads a numeric mux path variable
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", learning.ErrValidation, name, raw)
	}
	return id, nil
}

// Int reads an integer query parameter, returning def when it is absent
func Int(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", learning.ErrValidation, name)
	}
	return v, nil
}

// OptionalInt64 reads an integer query parameter, nil when absent
func OptionalInt64(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", learning.ErrValidation, name)
	}
	return &v, nil
}

// OptionalString returns nil for an absent or blank query parameter
func OptionalString(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}

// OptionalBool treats true, 1 and yes as true and any other present value as false
func OptionalBool(r *http.Request, name string) *bool {
	raw := OptionalString(r, name)
	if raw == nil {
		return nil
	}
	switch strings.ToLower(*raw) {
	case "true", "1", "yes":
		v := true
		return &v
	default:
		v := false
		return &v
	}
}

const maxBodyBytes = 1 << 20

// DecodeJSON decodes a request body of at most 1 MiB into dst
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body required", learning.ErrValidation)
		}
		return fmt.Errorf("%w: invalid request body: %v", learning.ErrValidation, err)
	}
	return nil
}
