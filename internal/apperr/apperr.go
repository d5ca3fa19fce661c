package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	InvalidCount    Kind = "invalid_count"
	InvalidAgeRange Kind = "invalid_age_range"
	InvalidFilter   Kind = "invalid_filter"
	ServiceError    Kind = "service_error"
	NetworkError    Kind = "network_error"
	EncodingError   Kind = "encoding_error"
)

// Status maps a kind to the HTTP status the API answers with.
func (k Kind) Status() int {
	switch k {
	case InvalidCount, InvalidAgeRange, InvalidFilter:
		return http.StatusBadRequest
	case ServiceError:
		return http.StatusBadGateway
	case NetworkError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsValidation reports whether the kind is a request-construction error.
func (k Kind) IsValidation() bool {
	return k == InvalidCount || k == InvalidAgeRange || k == InvalidFilter
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
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

// UserMessage renders err for display. Validation failures, service
// rejections and network failures each get a distinct prefix.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return "Unexpected error: " + err.Error()
	}
	switch {
	case e.Kind.IsValidation():
		return "Invalid input: " + e.Message
	case e.Kind == ServiceError:
		return "Persona service error: " + e.Message
	case e.Kind == NetworkError:
		msg := "Network error: the persona service could not be reached"
		if e.Err != nil {
			msg += " (" + e.Err.Error() + ")"
		}
		return msg
	case e.Kind == EncodingError:
		return "Export failed: " + e.Message
	}
	return e.Error()
}
