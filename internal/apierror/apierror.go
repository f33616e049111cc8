// Package apierror is the error taxonomy shared by every handler and the JSON
// shape errors are written in.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeDuplicateKey  = "DUPLICATE_KEY_ERROR"
	CodeDuplicateMail = "DUPLICATE_EMAIL"
	CodeInvalidID     = "INVALID_ID"
	CodeNotFound      = "NOT_FOUND"
	CodeRouteNotFound = "ROUTE_NOT_FOUND"
	CodeNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeNoToken       = "NO_TOKEN"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeForbidden     = "FORBIDDEN"
	CodeNoFile        = "NO_FILE"
	CodeFileTooLarge  = "FILE_TOO_LARGE"
	CodeInvalidFile   = "INVALID_FILE_TYPE"
	CodeRateLimited   = "RATE_LIMITED"
	CodeTimeout       = "REQUEST_TIMEOUT"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
	CodeServer        = "SERVER_ERROR"
)

// Error is an error that knows its HTTP status and client-facing code.
type Error struct {
	Status  int
	Code    string
	Message string
	Details []string
	// Err is the underlying cause. It is logged, never sent to the client.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Body is the JSON shape of every error response.
type Body struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func Validation(message string, details ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func Duplicate(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

func InvalidID(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeInvalidID, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

func Upload(code, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: message}
}

func Upstream(message string, err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: CodeUpstream, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeServer, Message: "Internal Server Error", Err: err}
}

// FromDB maps a persistence error onto the taxonomy. notFound is returned for
// missing records; duplicate-key violations become 409s; anything else is a 500.
func FromDB(err error, notFound *Error, duplicate *Error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNotFound(err) && notFound != nil:
		return notFound
	case db.IsDuplicateKey(err):
		if duplicate != nil {
			return duplicate
		}
		return Duplicate(CodeDuplicateKey, "Record already exists")
	default:
		return Internal(err)
	}
}

// Write renders err as JSON. Errors outside the taxonomy are logged with the
// request path and reported as a generic 500.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Internal(err)
	}

	if apiErr.Status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", apiErr.Status),
			zap.Error(apiErr.Err),
		)
	}

	render.Status(r, apiErr.Status)
	render.JSON(w, r, Body{
		Success: false,
		Message: apiErr.Message,
		Error:   apiErr.Code,
		Details: apiErr.Details,
	})
}

// NotFoundHandler answers unknown routes.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	Write(w, r, NotFound(CodeRouteNotFound, "Route not found"))
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	Write(w, r, New(http.StatusMethodNotAllowed, CodeNotAllowed, "Method not allowed"))
}
