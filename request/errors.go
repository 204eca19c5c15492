package request

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates the failures a task reports
type ErrorKind string

const (
	KindURLBuild        ErrorKind = "url_build"
	KindRequestBuild    ErrorKind = "request_build"
	KindMissingResponse ErrorKind = "missing_response"
	KindRejectedStatus  ErrorKind = "rejected_status"
	KindOther           ErrorKind = "other"
)

// Reasons reported by the build steps
const (
	ReasonInvalidURL        = "request URL is not valid"
	ReasonURLComponents     = "URL couldn't be created from components"
	ReasonInvalidDescriptor = "descriptor is not valid"
	ReasonNewRequest        = "couldn't create request"
	ReasonEditRequest       = "request edit returned no request"
)

// Error is implemented by every failure in the taxonomy
type Error interface {
	error
	Kind() ErrorKind
}

// URLBuildError reports that the URL could not be built from the descriptor.
type URLBuildError struct {
	Reason string
	Err    error
}

func (e *URLBuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("url build error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("url build error: %s", e.Reason)
}

func (e *URLBuildError) Kind() ErrorKind { return KindURLBuild }
func (e *URLBuildError) Unwrap() error   { return e.Err }

// RequestBuildError reports that the *http.Request could not be built.
type RequestBuildError struct {
	Reason string
	Err    error
}

func (e *RequestBuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request build error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("request build error: %s", e.Reason)
}

func (e *RequestBuildError) Kind() ErrorKind { return KindRequestBuild }
func (e *RequestBuildError) Unwrap() error   { return e.Err }

// MissingResponseError reports a dispatch that finished without error and without a response.
type MissingResponseError struct{}

func (e *MissingResponseError) Error() string   { return "missing response" }
func (e *MissingResponseError) Kind() ErrorKind { return KindMissingResponse }

// RejectedStatusError reports a status code that fell in one of the rejection ranges.
type RejectedStatusError struct {
	StatusCode int
	Range      StatusRange
}

func (e *RejectedStatusError) Error() string {
	return fmt.Sprintf("rejected status code %d (rejection range %s)", e.StatusCode, e.Range)
}

func (e *RejectedStatusError) Kind() ErrorKind { return KindRejectedStatus }

// OtherError wraps a failure the descriptor's ParseError declined to map.
type OtherError struct {
	Err error
}

func (e *OtherError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *OtherError) Kind() ErrorKind { return KindOther }
func (e *OtherError) Unwrap() error   { return e.Err }

// IsKind reports whether err, or any error it wraps, is a taxonomy error of kind.
func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(Error); ok && e.Kind() == kind {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return IsKind(u.Unwrap(), kind)
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if IsKind(inner, kind) {
				return true
			}
		}
	}
	return false
}

// RejectedStatusCode returns the status code of a RejectedStatusError in err's chain.
func RejectedStatusCode(err error) (int, bool) {
	var rejected *RejectedStatusError
	if errors.As(err, &rejected) {
		return rejected.StatusCode, true
	}
	return 0, false
}
