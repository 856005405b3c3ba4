package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a failed request attempt
type Kind int

const (
	KindNetwork Kind = iota
	KindTimeout
	KindHTTPStatus
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "network"
	}
}

// Error is returned by every failed attempt
type Error struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int // set for KindHTTPStatus
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("%s %s: request timed out", e.Method, e.URL)
	case KindHTTPStatus:
		return fmt.Sprintf("%s %s: HTTP error status %d", e.Method, e.URL, e.StatusCode)
	case KindMalformedResponse:
		return fmt.Sprintf("%s %s: failed to parse JSON response: %v", e.Method, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a fetch error, or false if err is not one
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

func IsTimeout(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindTimeout
}

// StatusCode returns the HTTP status of a KindHTTPStatus error, 0 otherwise
func StatusCode(err error) int {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind == KindHTTPStatus {
		return fe.StatusCode
	}
	return 0
}
