package rpc

import (
	"errors"

	"github.com/hugh/buddy-tracker/internal/api/dto"
	"github.com/hugh/buddy-tracker/internal/policy"
	"github.com/hugh/buddy-tracker/internal/repository"
)

// Error is a failure reported to the caller with a stable code.
type Error struct {
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func badRequest(msg string, details map[string]string) *Error {
	return &Error{Code: dto.CodeBadRequest, Message: msg, Details: details}
}

var (
	errUnauthorized = &Error{Code: dto.CodeUnauthorized, Message: "Please login"}
	errAdminOnly    = &Error{Code: dto.CodeForbidden, Message: "You do not have required permission", Err: policy.ErrForbidden}
)

// AsError classifies err into the caller-facing taxonomy. Errors that match
// no known condition become INTERNAL_SERVER_ERROR.
func AsError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	switch {
	case errors.Is(err, policy.ErrForbidden):
		return &Error{Code: dto.CodeForbidden, Message: "You do not have required permission", Err: err}
	case errors.Is(err, repository.ErrNotFound):
		return &Error{Code: dto.CodeNotFound, Message: notFoundMessage(err), Err: err}
	case errors.Is(err, repository.ErrConflict):
		return &Error{Code: dto.CodeConflict, Message: "Record already exists", Err: err}
	case errors.Is(err, repository.ErrStoreUnavailable):
		return &Error{Code: dto.CodeStoreUnavailable, Message: "Store unavailable", Err: err}
	default:
		return &Error{Code: dto.CodeInternal, Message: "Internal server error", Err: err}
	}
}

func notFoundMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "Not found"
	}
	return msg
}
