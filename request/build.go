package request

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// BuildURL builds the request URL of c: parse URL, apply the path override and the
// query parameters, then EditURL. Failures are *URLBuildError.
func BuildURL(c URLComponents) (*url.URL, error) {
	raw := c.URL()
	if raw == "" {
		return nil, &URLBuildError{Reason: ReasonInvalidURL}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &URLBuildError{Reason: ReasonInvalidURL, Err: err}
	}

	if path, ok := c.Path(); ok {
		u.Path = path
		u.RawPath = ""
	}

	if params := c.QueryParameters(); params != nil {
		values := make(url.Values, len(params))
		for key, value := range params {
			values.Set(key, value)
		}
		u.RawQuery = values.Encode()
	}

	u = c.EditURL(u)
	if err := finalizeURL(u); err != nil {
		return nil, err
	}
	return u, nil
}

// finalizeURL rejects URLs that cannot address a request.
func finalizeURL(u *url.URL) error {
	switch {
	case u == nil:
		return &URLBuildError{Reason: ReasonURLComponents}
	case u.Scheme == "" || u.Host == "":
		return &URLBuildError{Reason: ReasonURLComponents}
	case u.Path != "" && !strings.HasPrefix(u.Path, "/"):
		return &URLBuildError{Reason: ReasonURLComponents}
	}
	return nil
}

// BuildRequest builds the *http.Request for u from c. Headers are set before the
// Authorization header, and EditRequest runs last. Failures are *RequestBuildError.
func BuildRequest(ctx context.Context, c RequestComponents, u *url.URL) (*http.Request, error) {
	if v, ok := c.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, &RequestBuildError{Reason: ReasonInvalidDescriptor, Err: err}
		}
	}

	method := c.Method()
	if method == "" {
		method = DefaultMethod
	}

	var body io.Reader
	if payload := c.Body(); payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &RequestBuildError{Reason: ReasonNewRequest, Err: err}
	}

	// keys differing only in case append to the same canonical header
	for key, value := range c.Headers() {
		req.Header.Add(key, value)
	}

	if auth := c.Authentication(); auth != nil {
		req.SetBasicAuth(auth.Username, auth.Password)
	}

	req = c.EditRequest(req)
	if req == nil {
		return nil, &RequestBuildError{Reason: ReasonEditRequest}
	}
	return req, nil
}

// Build runs BuildURL then BuildRequest for d.
func Build[V any](ctx context.Context, d Descriptor[V]) (*http.Request, error) {
	u, err := BuildURL(d)
	if err != nil {
		return nil, err
	}
	return BuildRequest(ctx, d, u)
}
