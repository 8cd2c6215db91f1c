package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Taxonomy. A missing path and a path owned by someone else share
// ErrNotFoundOrForbidden so callers cannot probe for existence.
var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrNotFoundOrForbidden = errors.New("learning path not found")
	ErrBadRequest          = errors.New("bad request")
	ErrGenerationFailed    = errors.New("roadmap generation failed")
	ErrVersionConflict     = errors.New("document version conflict")
)

// Classify maps err to an HTTP status and error code. An *Error anywhere in
// the chain wins; otherwise the taxonomy sentinels are consulted.
func Classify(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		code := ae.Code
		if code == "" {
			code = "error"
		}
		return ae.Status, code
	}
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, ErrNotFoundOrForbidden):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrGenerationFailed):
		return http.StatusInternalServerError, "generation_failed"
	case errors.Is(err, ErrVersionConflict):
		return http.StatusConflict, "version_conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
