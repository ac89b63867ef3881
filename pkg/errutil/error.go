package errutil

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindRateLimited        Kind = "rate_limited"
	KindTransientProvider  Kind = "transient_provider_failure"
	KindTransactionAborted Kind = "transaction_aborted"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) error {
	return New(KindValidation, message, nil)
}

func NotFound(message string) error {
	return New(KindNotFound, message, nil)
}

func Conflict(message string) error {
	return New(KindConflict, message, nil)
}

func RateLimited(message string) error {
	return New(KindRateLimited, message, nil)
}

func TransientProvider(message string, err error) error {
	return New(KindTransientProvider, message, err)
}

func TransactionAborted(message string, err error) error {
	return New(KindTransactionAborted, message, err)
}

// KindOf returns the kind of the outermost *Error in err's chain, or "" when none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindTransientProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
