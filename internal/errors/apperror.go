package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to the response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AppError is an error tagged with a Kind. Message is safe to show to API clients.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound builds the "<Entity> not found" error.
func NotFound(entity string) *AppError {
	return &AppError{Kind: KindNotFound, Code: ResourceNotFound, Message: entity + " not found"}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Code: ResourceConflict, Message: message}
}

func Validation(message string, details ...string) *AppError {
	return &AppError{Kind: KindValidation, Code: ValidationInvalidInput, Message: message, Details: details}
}

func Unauthorized(code, message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: code, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: AuthzForbidden, Message: message}
}

func TooManyRequests(message string) *AppError {
	return &AppError{Kind: KindTooManyRequests, Code: RateLimited, Message: message}
}

// Internal wraps an unexpected error; its message is echoed to the client.
func Internal(err error) *AppError {
	msg := "internal server error"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{Kind: KindInternal, Code: InternalServerError, Message: msg, Err: err}
}

// Wrap tags err with kind while keeping it in the chain, so errors.Is on service sentinels still works.
func Wrap(kind Kind, code string, err error) *AppError {
	return &AppError{Kind: kind, Code: code, Message: err.Error(), Err: err}
}

// As extracts the AppError from err's chain, treating anything else as internal.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf reports the Kind of err, KindInternal when untagged.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
