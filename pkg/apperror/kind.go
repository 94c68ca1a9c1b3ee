package apperror

import (
	"context"
	"errors"
	"net/http"
)

// Kind classifies a failure for the caller that has to present it
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindServer
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
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
	case KindServer:
		return "server"
	case KindCanceled:
		return "canceled"
	}
	return "unknown"
}

// GenericMessage is shown when a failure carries no usable server message
const GenericMessage = "Something went wrong. Please try again."

// TransportError wraps a failure that happened before any HTTP response was read
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + " " + e.URL + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// KindOf classifies err
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch {
		case appErr.Code == http.StatusUnauthorized:
			return KindUnauthorized
		case appErr.Code == http.StatusForbidden:
			return KindForbidden
		case appErr.Code == http.StatusNotFound:
			return KindNotFound
		case appErr.Code == http.StatusConflict:
			return KindConflict
		case appErr.Code >= 400 && appErr.Code < 500:
			return KindValidation
		default:
			return KindServer
		}
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return KindTransport
	}
	return KindServer
}

// IsForbidden reports whether err is a permission denial
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// UserMessage returns the text to show to a user for err: the server
// message when there is one, otherwise fallback (or GenericMessage).
func UserMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = GenericMessage
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
