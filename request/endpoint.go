package request

import (
	"net/http"
	"net/url"
)

// Endpoint is a Descriptor assembled from fields instead of methods. Zero-valued
// fields resolve to the defaults of Defaults; ParseErrorFunc nil declines every error.
//
//	users := request.Endpoint[[]User]{
//		BaseURL:        "https://api.example.com/users",
//		Reject:         []request.StatusRange{request.Range(400, 600)},
//		ParseValueFunc: decodeUsers,
//	}
type Endpoint[V any] struct {
	BaseURL string `validate:"required,url"`
	// RequestPath overrides the path of BaseURL when non-empty
	RequestPath string
	Query       map[string]string
	Auth        *BasicAuth
	Header      map[string]string `validate:"dive,keys,required,endkeys"`
	HTTPMethod  string
	Payload     []byte
	Reject      []StatusRange `validate:"dive"`

	ParseValueFunc  func(resp *http.Response, body []byte) (V, error) `validate:"required"`
	ParseErrorFunc  func(err error, resp *http.Response, body []byte) error
	EditURLFunc     func(u *url.URL) *url.URL
	EditRequestFunc func(r *http.Request) *http.Request
}

var (
	_ Descriptor[any] = Endpoint[any]{}
	_ Validator       = Endpoint[any]{}
)

// Validate checks the validate tags of the endpoint.
func (e Endpoint[V]) Validate() error {
	return ValidateStruct(e)
}

func (e Endpoint[V]) URL() string { return e.BaseURL }

func (e Endpoint[V]) Path() (string, bool) {
	return e.RequestPath, e.RequestPath != ""
}

func (e Endpoint[V]) QueryParameters() map[string]string { return e.Query }
func (e Endpoint[V]) Authentication() *BasicAuth         { return e.Auth }
func (e Endpoint[V]) Headers() map[string]string         { return e.Header }
func (e Endpoint[V]) Body() []byte                       { return e.Payload }
func (e Endpoint[V]) RejectionCodes() []StatusRange      { return e.Reject }

func (e Endpoint[V]) Method() string {
	if e.HTTPMethod == "" {
		return DefaultMethod
	}
	return e.HTTPMethod
}

func (e Endpoint[V]) ParseValue(resp *http.Response, body []byte) (V, error) {
	return e.ParseValueFunc(resp, body)
}

func (e Endpoint[V]) ParseError(err error, resp *http.Response, body []byte) error {
	if e.ParseErrorFunc == nil {
		return nil
	}
	return e.ParseErrorFunc(err, resp, body)
}

func (e Endpoint[V]) EditURL(u *url.URL) *url.URL {
	if e.EditURLFunc == nil {
		return u
	}
	return e.EditURLFunc(u)
}

func (e Endpoint[V]) EditRequest(r *http.Request) *http.Request {
	if e.EditRequestFunc == nil {
		return r
	}
	return e.EditRequestFunc(r)
}
