package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/go-chi/render"
)

// MaxJSONBody bounds JSON request bodies.
const MaxJSONBody = 10 << 20

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// DecodeJSON reads a JSON body into dst. Malformed or oversized bodies come
// back as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apierror.Validation("Request body is required")
	case errors.As(err, &tooLarge):
		return apierror.Validation("Request body too large")
	default:
		return apierror.Validation("Invalid request body", err.Error())
	}
}
