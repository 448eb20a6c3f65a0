// Package apperr defines the error taxonomy shared by services and the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindNotFound                 Kind = "NOT_FOUND"
	KindForbidden                Kind = "FORBIDDEN"
	KindInvalidArgument          Kind = "INVALID_ARGUMENT"
	KindInvalidState             Kind = "INVALID_STATE"
	KindPaymentDeclined          Kind = "PAYMENT_DECLINED"
	KindPersistenceInconsistency Kind = "PERSISTENCE_INCONSISTENCY"
	KindConflict                 Kind = "CONFLICT"
	KindUnauthorized             Kind = "UNAUTHORIZED"
	KindInternal                 Kind = "INTERNAL"
)

// Error is a classified error carrying a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match for any *Error of the same kind, so sentinel checks like
// errors.Is(err, apperr.ErrNotFound) work regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound                 = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrForbidden                = &Error{Kind: KindForbidden, Message: "access to this resource is forbidden"}
	ErrInvalidArgument          = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrInvalidState             = &Error{Kind: KindInvalidState, Message: "operation not allowed in current state"}
	ErrPaymentDeclined          = &Error{Kind: KindPaymentDeclined, Message: "payment declined"}
	ErrPersistenceInconsistency = &Error{Kind: KindPersistenceInconsistency, Message: "persisted state does not match the written state"}
	ErrConflict                 = &Error{Kind: KindConflict, Message: "resource already exists"}
	ErrUnauthorized             = &Error{Kind: KindUnauthorized, Message: "not authenticated"}
)

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error  { return newf(KindNotFound, format, args...) }
func Forbidden(format string, args ...any) *Error { return newf(KindForbidden, format, args...) }
func InvalidArgument(format string, args ...any) *Error {
	return newf(KindInvalidArgument, format, args...)
}
func InvalidState(format string, args ...any) *Error { return newf(KindInvalidState, format, args...) }
func PaymentDeclined(format string, args ...any) *Error {
	return newf(KindPaymentDeclined, format, args...)
}
func Conflict(format string, args ...any) *Error     { return newf(KindConflict, format, args...) }
func Unauthorized(format string, args ...any) *Error { return newf(KindUnauthorized, format, args...) }

// PersistenceInconsistency is fatal: it means storage did not keep what was written.
func PersistenceInconsistency(format string, args ...any) *Error {
	return newf(KindPersistenceInconsistency, format, args...)
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsClientError reports whether err was caused by caller input rather than the server.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindForbidden, KindInvalidArgument, KindInvalidState,
		KindPaymentDeclined, KindConflict, KindUnauthorized:
		return true
	}
	return false
}
