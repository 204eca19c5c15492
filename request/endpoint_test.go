package request

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseInt(_ *http.Response, body []byte) (int, error) {
	return strconv.Atoi(string(body))
}

func TestEndpointDefaults(t *testing.T) {
	e := Endpoint[int]{BaseURL: "https://example.com", ParseValueFunc: parseInt}

	require.NoError(t, e.Validate())
	assert.Equal(t, http.MethodGet, e.Method())
	_, ok := e.Path()
	assert.False(t, ok)
	assert.Nil(t, e.QueryParameters())
	assert.Nil(t, e.Authentication())
	assert.Nil(t, e.RejectionCodes())
	assert.NoError(t, e.ParseError(errors.New("boom"), nil, nil))

	u, _ := url.Parse("https://example.com")
	assert.Same(t, u, e.EditURL(u))
	v, err := e.ParseValue(nil, []byte("42"))
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestEndpointBuild(t *testing.T) {
	e := Endpoint[int]{
		BaseURL:        "https://example.com/base",
		RequestPath:    "/users/dot/gists",
		Query:          map[string]string{"per_page": "5"},
		Auth:           &BasicAuth{Username: "u", Password: "p"},
		Header:         map[string]string{"Accept": "application/json"},
		HTTPMethod:     http.MethodPut,
		Payload:        []byte("7"),
		ParseValueFunc: parseInt,
		EditRequestFunc: func(r *http.Request) *http.Request {
			r.Header.Set("X-Edited", "1")
			return r
		},
	}

	req, err := Build[int](context.Background(), e)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/users/dot/gists?per_page=5", req.URL.String())
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "Basic dTpw", req.Header.Get("Authorization"))
	assert.Equal(t, "1", req.Header.Get("X-Edited"))
}

func TestEndpointParseErrorFunc(t *testing.T) {
	domainErr := errors.New("user not found")
	e := Endpoint[int]{
		BaseURL:        "https://example.com",
		ParseValueFunc: parseInt,
		ParseErrorFunc: func(err error, _ *http.Response, _ []byte) error {
			if code, ok := RejectedStatusCode(err); ok && code == http.StatusNotFound {
				return domainErr
			}
			return nil
		},
	}

	assert.Equal(t, domainErr, e.ParseError(&RejectedStatusError{StatusCode: 404}, nil, nil))
	assert.NoError(t, e.ParseError(&MissingResponseError{}, nil, nil))
}

func TestEndpointValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *Endpoint[int])
		field  string
	}{
		{name: "missing url", mutate: func(e *Endpoint[int]) { e.BaseURL = "" }, field: "BaseURL"},
		{name: "not a url", mutate: func(e *Endpoint[int]) { e.BaseURL = "not a url" }, field: "BaseURL"},
		{name: "missing parser", mutate: func(e *Endpoint[int]) { e.ParseValueFunc = nil }, field: "ParseValueFunc"},
		{name: "empty range", mutate: func(e *Endpoint[int]) { e.Reject = []StatusRange{Range(400, 400)} }, field: "Upper"},
		{name: "negative lower bound", mutate: func(e *Endpoint[int]) { e.Reject = []StatusRange{Range(-1, 100)} }, field: "Lower"},
		{name: "empty header name", mutate: func(e *Endpoint[int]) { e.Header = map[string]string{"": "x"} }, field: "Header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Endpoint[int]{BaseURL: "https://example.com", ParseValueFunc: parseInt}
			tt.mutate(&e)

			err := e.Validate()
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.True(t, validationErr.HasField(tt.field), "expected %s in %v", tt.field, validationErr.Errors)
		})
	}
}

func TestEndpointAcceptsAuthWithoutUsername(t *testing.T) {
	e := Endpoint[int]{
		BaseURL:        "https://example.com",
		ParseValueFunc: parseInt,
		Auth:           &BasicAuth{Password: "token"},
	}
	require.NoError(t, e.Validate())

	req, err := Build[int](context.Background(), e)
	require.NoError(t, err)
	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Empty(t, user)
	assert.Equal(t, "token", pass)
}

func TestValidationErrorMessage(t *testing.T) {
	e := Endpoint[int]{}
	err := e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed: 2 errors")
}
