package request

import (
	"net/http"
	"net/url"
)

// BasicAuth is the username/password pair sent as an Authorization: Basic header.
type BasicAuth struct {
	Username string
	Password string
}

// URLComponents are the descriptor inputs used to build the request URL.
type URLComponents interface {
	// URL is the base URL. It must parse and must not be empty.
	URL() string
	// Path overrides the path of the base URL when ok is true.
	Path() (path string, ok bool)
	// QueryParameters replaces the query of the base URL when non-nil.
	QueryParameters() map[string]string
	// EditURL gets the last word on the URL before it is finalized.
	EditURL(u *url.URL) *url.URL
}

// RequestComponents are the descriptor inputs used to build the *http.Request.
type RequestComponents interface {
	Method() string
	Body() []byte
	Headers() map[string]string
	Authentication() *BasicAuth
	// EditRequest is the last point of control before dispatch.
	EditRequest(r *http.Request) *http.Request
}

// Descriptor is the full contract of one endpoint returning values of type V.
type Descriptor[V any] interface {
	URLComponents
	RequestComponents

	// RejectionCodes lists half-open status ranges treated as failures. The first
	// matching range wins and ParseValue is not called.
	RejectionCodes() []StatusRange

	// ParseValue turns a response that was not rejected into a value.
	ParseValue(resp *http.Response, body []byte) (V, error)

	// ParseError maps any failure of the task into a domain error. resp and body are
	// nil when no response was received. Returning nil declines, and the task reports
	// the failure wrapped in an OtherError.
	ParseError(err error, resp *http.Response, body []byte) error
}

// Validator is implemented by descriptors that can check their own inputs. Validate
// runs while the request is built; a failure becomes a RequestBuildError.
type Validator interface {
	Validate() error
}

// Defaults supplies the default of every Descriptor method except URL, ParseValue and
// ParseError. Embed it and override what the endpoint needs.
type Defaults struct{}

// DefaultMethod is used when a descriptor does not override Method.
const DefaultMethod = http.MethodGet

func (Defaults) Path() (string, bool)               { return "", false }
func (Defaults) QueryParameters() map[string]string { return nil }
func (Defaults) Authentication() *BasicAuth         { return nil }
func (Defaults) Headers() map[string]string         { return nil }
func (Defaults) Method() string                     { return DefaultMethod }
func (Defaults) Body() []byte                       { return nil }
func (Defaults) RejectionCodes() []StatusRange      { return nil }

// EditURL returns u unchanged.
func (Defaults) EditURL(u *url.URL) *url.URL { return u }

// EditRequest returns r unchanged.
func (Defaults) EditRequest(r *http.Request) *http.Request { return r }
