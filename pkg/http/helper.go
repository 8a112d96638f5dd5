package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "cleanbook/pkg/errors"
)

// DecodeJSON reads a single JSON object from the request body, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("Request body is empty")
		case errors.As(err, &maxErr):
			return apperrors.InvalidInput("Request body too large")
		default:
			return apperrors.InvalidInput("Invalid request body")
		}
	}
	if dec.More() {
		return apperrors.InvalidInput("Request body must contain a single JSON object")
	}
	return nil
}

// QueryInt parses an integer query parameter. present is false when the parameter is absent.
func QueryInt(r *http.Request, name string) (value int, present bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, true, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s", name, raw))
	}
	return v, true, nil
}

// QueryBool treats "true" and "1" as set.
func QueryBool(r *http.Request, name string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name))) {
	case "true", "1":
		return true
	}
	return false
}
