package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a failure as seen by API callers.
type Kind string

const (
	KindUnauthenticated  Kind = "unauthenticated"
	KindInvalidArgument  Kind = "invalid_argument"
	KindDenied           Kind = "denied"
	KindUpstream         Kind = "upstream_error"
	KindSignatureInvalid Kind = "signature_invalid"
	KindStore            Kind = "store_error"
	KindNotFound         Kind = "not_found"
	KindInternal         Kind = "internal"
)

// Error carries a Kind, the operation that failed and an optional cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error.
func E(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func Unauthenticated(op, msg string) *Error { return E(KindUnauthenticated, op, msg, nil) }
func InvalidArgument(op, msg string) *Error { return E(KindInvalidArgument, op, msg, nil) }
func NotFound(op, msg string) *Error        { return E(KindNotFound, op, msg, nil) }
func Store(op string, err error) *Error     { return E(KindStore, op, "", err) }

// Upstream wraps a billing provider failure. Msg keeps the provider's text
// so it can be shown to the caller.
func Upstream(op string, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return E(KindUpstream, op, msg, err)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a Kind to the response status used by the API.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidArgument, KindSignatureInvalid:
		return http.StatusBadRequest
	case KindDenied:
		return http.StatusPaymentRequired
	case KindUpstream:
		return http.StatusBadGateway
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text returned to API clients. Store and internal
// failures stay generic.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Internal error"
	}
	switch e.Kind {
	case KindStore, KindInternal:
		return "Something went wrong, please try again"
	case KindSignatureInvalid:
		return "Signature verification failed"
	}
	if e.Msg != "" {
		return e.Msg
	}
	return string(e.Kind)
}
