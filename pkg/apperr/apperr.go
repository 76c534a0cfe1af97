package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a client-facing failure.
type Kind string

const (
	KindDuplicateAccount   Kind = "duplicate_account"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindNotAuthorized      Kind = "not_authorized"
	KindUserNotFound       Kind = "user_not_found"
	KindBookNotFound       Kind = "book_not_found"
	KindProtectedAccount   Kind = "protected_account"
	KindValidation         Kind = "validation_error"
	KindInternal           Kind = "internal_error"
)

// Error is the single error type returned by the service layer. Two errors
// compare equal under errors.Is when their kinds match.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
	status  int
}

// Sentinels for errors.Is checks.
var (
	ErrDuplicateAccount   = &Error{Kind: KindDuplicateAccount}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrNotAuthorized      = &Error{Kind: KindNotAuthorized}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound}
	ErrBookNotFound       = &Error{Kind: KindBookNotFound}
	ErrProtectedAccount   = &Error{Kind: KindProtectedAccount}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInternal           = &Error{Kind: KindInternal}
)

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// StatusCode returns the HTTP status the error should be rendered with.
func (e *Error) StatusCode() int {
	if e == nil || e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

func DuplicateAccount(msg string) *Error {
	return newError(KindDuplicateAccount, msg, nil, http.StatusBadRequest)
}

func InvalidCredentials(msg string) *Error {
	return newError(KindInvalidCredentials, msg, nil, http.StatusBadRequest)
}

func NotAuthorized(msg string) *Error {
	return newError(KindNotAuthorized, msg, nil, http.StatusUnauthorized)
}

func UserNotFound(msg string) *Error {
	return newError(KindUserNotFound, msg, nil, http.StatusNotFound)
}

func BookNotFound(msg string) *Error {
	return newError(KindBookNotFound, msg, nil, http.StatusNotFound)
}

func ProtectedAccount(msg string) *Error {
	return newError(KindProtectedAccount, msg, nil, http.StatusUnauthorized)
}

// Validation reports a missing or malformed field. fields may be nil.
func Validation(msg string, fields map[string]string) *Error {
	e := newError(KindValidation, msg, nil, http.StatusBadRequest)
	e.Fields = fields
	return e
}

// Internal wraps an unexpected store or infrastructure failure. The cause is
// kept for logging and never rendered to the client.
func Internal(err error) *Error {
	return newError(KindInternal, "Internal server error", err, http.StatusInternalServerError)
}

// FromError converts any error into an *Error, treating unknown errors as internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func newError(kind Kind, msg string, err error, status int) *Error {
	return &Error{
		Kind:    kind,
		Message: msg,
		Err:     err,
		status:  status,
	}
}
