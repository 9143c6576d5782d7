package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/joelkehle/revenue-readiness/internal/store"
)

const (
	CodeValidation   = "validation"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeRateLimited  = "rate_limited"
	CodeInternal     = "internal"
)

// Error is returned by every Service method that fails for a reason the
// caller should see. Status is the HTTP status the API maps it to.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusForCode(code)}
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(CodeNotFound, what+" not found")
	}
	return newError(CodeInternal, "load "+what+": "+err.Error())
}
