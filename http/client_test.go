package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"

	"github.com/gaborage/go-dots/config"
	"github.com/gaborage/go-dots/http/internal/tracking"
	"github.com/gaborage/go-dots/logger"
	obtest "github.com/gaborage/go-dots/observability/testing"
	dotstrace "github.com/gaborage/go-dots/trace"
)

// Test constants to avoid string duplication
const (
	testAPIKey      = "X-API-Key"
	testAPIValue    = "test-key"
	testUserAgent   = "User-Agent"
	testAgentValue  = "test-agent"
	testIntercepted = "X-Intercepted"
	testCustomTrace = "custom-trace-123"
	testTimeout     = 5 * time.Second
)

var traceParentPattern = regexp.MustCompile(`^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`)

type roundTripperFunc func(*nethttp.Request) (*nethttp.Response, error)

func (f roundTripperFunc) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	return f(req)
}

type result struct {
	body []byte
	resp *nethttp.Response
	err  error
}

// dispatch runs req through c and waits for the completion
func dispatch(t *testing.T, c Client, req *nethttp.Request) result {
	t.Helper()
	_, done := dispatchAsync(c, req)
	return wait(t, done)
}

func dispatchAsync(c Client, req *nethttp.Request) (Handle, <-chan result) {
	done := make(chan result, 1)
	h := c.Dispatch(req, func(body []byte, resp *nethttp.Response, err error) {
		done <- result{body: body, resp: resp, err: err}
	})
	return h, done
}

func wait(t *testing.T, done <-chan result) result {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(testTimeout):
		t.Fatal("dispatch did not complete")
		return result{}
	}
}

func newRequest(t *testing.T, ctx context.Context, method, url string, body io.Reader) *nethttp.Request {
	t.Helper()
	req, err := nethttp.NewRequestWithContext(ctx, method, url, body)
	require.NoError(t, err)
	return req
}

func get(t *testing.T, url string) *nethttp.Request {
	t.Helper()
	return newRequest(t, context.Background(), nethttp.MethodGet, url, nil)
}

// echoHeaders answers with the request headers of interest
func echoHeaders(names ...string) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		for _, name := range names {
			w.Header().Set("Echo-"+name, r.Header.Get(name))
		}
		w.WriteHeader(nethttp.StatusOK)
	})
}

func TestNewClient(t *testing.T) {
	c := NewClient(logger.Nop())
	require.NotNil(t, c)

	impl := c.(*client)
	assert.Equal(t, DefaultTimeout, impl.httpClient.Timeout)
	assert.Equal(t, HeaderXRequestID, impl.config.TraceIDHeader)
	assert.Equal(t, DefaultMaxPayloadLogBytes, impl.config.MaxPayloadLogBytes)
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default().(*client), Default().(*client))
}

func TestBuilder(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		assert.NotNil(t, NewBuilder(nil).Build())
	})

	t.Run("custom configuration", func(t *testing.T) {
		c := NewBuilder(logger.Nop()).
			WithTimeout(3*time.Second).
			WithDefaultHeader(testAPIKey, testAPIValue).
			WithTraceIDHeader("X-Correlation-ID").
			WithW3CTrace(true).
			WithLogPayloads(true).
			WithMaxPayloadLogBytes(64).
			Build().(*client)

		assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
		assert.Equal(t, testAPIValue, c.config.DefaultHeaders[testAPIKey])
		assert.Equal(t, "X-Correlation-ID", c.config.TraceIDHeader)
		assert.True(t, c.config.EnableW3CTrace)
		assert.True(t, c.config.LogPayloads)
		assert.Equal(t, 64, c.config.MaxPayloadLogBytes)
	})

	t.Run("ignored values keep defaults", func(t *testing.T) {
		c := NewBuilder(logger.Nop()).
			WithTraceIDHeader("").
			WithMaxPayloadLogBytes(0).
			Build().(*client)

		assert.Equal(t, HeaderXRequestID, c.config.TraceIDHeader)
		assert.Equal(t, DefaultMaxPayloadLogBytes, c.config.MaxPayloadLogBytes)
	})

	t.Run("custom http client timeout wins", func(t *testing.T) {
		custom := &nethttp.Client{Timeout: time.Second}
		c := NewBuilder(logger.Nop()).WithHTTPClient(custom).WithTimeout(time.Minute).Build().(*client)
		assert.NotSame(t, custom, c.httpClient)
		assert.Equal(t, time.Second, c.httpClient.Timeout)
	})

	t.Run("custom http client without timeout", func(t *testing.T) {
		c := NewBuilder(logger.Nop()).WithHTTPClient(&nethttp.Client{}).WithTimeout(time.Minute).Build().(*client)
		assert.Equal(t, time.Minute, c.httpClient.Timeout)
	})

	t.Run("shared http client is not modified", func(t *testing.T) {
		jar, err := cookiejar.New(nil)
		require.NoError(t, err)
		shared := &nethttp.Client{Jar: jar}
		rt := roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) { return nil, errors.New("unused") })

		c := NewBuilder(logger.Nop()).
			WithHTTPClient(shared).
			WithTimeout(2 * time.Second).
			WithTransport(rt).
			Build().(*client)

		assert.Zero(t, shared.Timeout)
		assert.Nil(t, shared.Transport)
		assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
		assert.NotNil(t, c.httpClient.Transport)
		assert.Same(t, jar, c.httpClient.Jar)
	})
}

func TestDispatchSuccess(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{},{},{}]`))
	}))
	defer srv.Close()

	r := dispatch(t, NewClient(logger.Nop()), get(t, srv.URL+"/items"))

	require.NoError(t, r.err)
	require.NotNil(t, r.resp)
	assert.Equal(t, nethttp.StatusOK, r.resp.StatusCode)
	assert.Equal(t, "application/json", r.resp.Header.Get("Content-Type"))
	assert.Equal(t, `[{},{},{}]`, string(r.body))
	assert.Equal(t, nethttp.NoBody, r.resp.Body)
}

func TestDispatchErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	r := dispatch(t, NewClient(logger.Nop()), get(t, srv.URL))

	require.NoError(t, r.err)
	assert.Equal(t, nethttp.StatusNotFound, r.resp.StatusCode)
	assert.Equal(t, `{"message":"Not Found"}`, string(r.body))
}

func TestDispatchSendsMethodAndBody(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = fmt.Fprintf(w, "%s %s", r.Method, body)
	}))
	defer srv.Close()

	req := newRequest(t, context.Background(), nethttp.MethodPost, srv.URL, strings.NewReader(`{"a":1}`))
	r := dispatch(t, NewClient(logger.Nop()), req)

	require.NoError(t, r.err)
	assert.Equal(t, `POST {"a":1}`, string(r.body))
}

func TestDispatchValidation(t *testing.T) {
	r := dispatch(t, NewClient(logger.Nop()), nil)

	assert.Nil(t, r.resp)
	assert.True(t, IsErrorType(r.err, ValidationError))
	assert.Contains(t, r.err.Error(), "request cannot be nil")
}

func TestDefaultHeaders(t *testing.T) {
	srv := httptest.NewServer(echoHeaders(testAPIKey, testUserAgent))
	defer srv.Close()

	c := NewBuilder(logger.Nop()).
		WithDefaultHeader(testAPIKey, testAPIValue).
		WithDefaultHeader(testUserAgent, testAgentValue).
		Build()

	req := get(t, srv.URL)
	req.Header.Set(testAPIKey, "per-request")
	r := dispatch(t, c, req)

	require.NoError(t, r.err)
	assert.Equal(t, "per-request", r.resp.Header.Get("Echo-"+testAPIKey))
	assert.Equal(t, testAgentValue, r.resp.Header.Get("Echo-"+testUserAgent))
	assert.Empty(t, req.Header.Get(testUserAgent), "the caller's request is not mutated")
}

func TestTraceIDPropagation(t *testing.T) {
	srv := httptest.NewServer(echoHeaders(HeaderXRequestID, "X-Correlation-ID"))
	defer srv.Close()

	t.Run("from context", func(t *testing.T) {
		ctx := dotstrace.WithTraceID(context.Background(), testCustomTrace)
		r := dispatch(t, NewClient(logger.Nop()), newRequest(t, ctx, nethttp.MethodGet, srv.URL, nil))
		require.NoError(t, r.err)
		assert.Equal(t, testCustomTrace, r.resp.Header.Get("Echo-"+HeaderXRequestID))
	})

	t.Run("generated uuid", func(t *testing.T) {
		r := dispatch(t, NewClient(logger.Nop()), get(t, srv.URL))
		require.NoError(t, r.err)
		assert.Len(t, r.resp.Header.Get("Echo-"+HeaderXRequestID), 36)
	})

	t.Run("custom generator and header", func(t *testing.T) {
		c := NewBuilder(logger.Nop()).
			WithTraceIDHeader("X-Correlation-ID").
			WithTraceIDGenerator(func() string { return "generated-1" }).
			Build()
		r := dispatch(t, c, get(t, srv.URL))
		require.NoError(t, r.err)
		assert.Equal(t, "generated-1", r.resp.Header.Get("Echo-X-Correlation-ID"))
		assert.Empty(t, r.resp.Header.Get("Echo-"+HeaderXRequestID))
	})

	t.Run("extractor wins over context", func(t *testing.T) {
		c := NewBuilder(logger.Nop()).
			WithTraceIDExtractor(func(context.Context) (string, bool) { return "extracted", true }).
			Build()
		ctx := dotstrace.WithTraceID(context.Background(), testCustomTrace)
		r := dispatch(t, c, newRequest(t, ctx, nethttp.MethodGet, srv.URL, nil))
		require.NoError(t, r.err)
		assert.Equal(t, "extracted", r.resp.Header.Get("Echo-"+HeaderXRequestID))
	})

	t.Run("existing header kept", func(t *testing.T) {
		req := get(t, srv.URL)
		req.Header.Set(HeaderXRequestID, "caller-set")
		r := dispatch(t, NewClient(logger.Nop()), req)
		require.NoError(t, r.err)
		assert.Equal(t, "caller-set", r.resp.Header.Get("Echo-"+HeaderXRequestID))
	})
}

func TestW3CTrace(t *testing.T) {
	srv := httptest.NewServer(echoHeaders(HeaderTraceParent, HeaderTraceState))
	defer srv.Close()

	t.Run("disabled by default", func(t *testing.T) {
		r := dispatch(t, NewClient(logger.Nop()), get(t, srv.URL))
		require.NoError(t, r.err)
		assert.Empty(t, r.resp.Header.Get("Echo-"+HeaderTraceParent))
	})

	t.Run("generated traceparent", func(t *testing.T) {
		c := NewBuilder(logger.Nop()).WithW3CTrace(true).Build()
		r := dispatch(t, c, get(t, srv.URL))
		require.NoError(t, r.err)
		assert.Regexp(t, traceParentPattern, r.resp.Header.Get("Echo-"+HeaderTraceParent))
	})

	t.Run("from context", func(t *testing.T) {
		const parent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
		ctx := dotstrace.WithTraceParent(context.Background(), parent)
		ctx = dotstrace.WithTraceState(ctx, "vendor=value")

		c := NewBuilder(logger.Nop()).WithW3CTrace(true).Build()
		r := dispatch(t, c, newRequest(t, ctx, nethttp.MethodGet, srv.URL, nil))
		require.NoError(t, r.err)
		assert.Equal(t, parent, r.resp.Header.Get("Echo-"+HeaderTraceParent))
		assert.Equal(t, "vendor=value", r.resp.Header.Get("Echo-"+HeaderTraceState))
	})
}

func TestInterceptors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		hits.Add(1)
		w.Header().Set("Echo-"+testIntercepted, r.Header.Get(testIntercepted))
		w.WriteHeader(nethttp.StatusAccepted)
	}))
	defer srv.Close()

	t.Run("request and response interceptors", func(t *testing.T) {
		var seenStatus int
		c := NewBuilder(logger.Nop()).
			WithRequestInterceptor(func(_ context.Context, req *nethttp.Request) error {
				req.Header.Set(testIntercepted, "yes")
				return nil
			}).
			WithResponseInterceptor(func(_ context.Context, _ *nethttp.Request, resp *nethttp.Response) error {
				seenStatus = resp.StatusCode
				return nil
			}).
			Build()

		r := dispatch(t, c, get(t, srv.URL))
		require.NoError(t, r.err)
		assert.Equal(t, "yes", r.resp.Header.Get("Echo-"+testIntercepted))
		assert.Equal(t, nethttp.StatusAccepted, seenStatus)
	})

	t.Run("request interceptor failure aborts", func(t *testing.T) {
		before := hits.Load()
		cause := errors.New("missing credentials")
		c := NewBuilder(logger.Nop()).
			WithRequestInterceptor(func(context.Context, *nethttp.Request) error { return cause }).
			Build()

		r := dispatch(t, c, get(t, srv.URL))
		assert.True(t, IsErrorType(r.err, InterceptorError))
		assert.ErrorIs(t, r.err, cause)
		assert.Nil(t, r.resp)
		assert.Equal(t, before, hits.Load())
	})

	t.Run("response interceptor failure", func(t *testing.T) {
		c := NewBuilder(logger.Nop()).
			WithResponseInterceptor(func(context.Context, *nethttp.Request, *nethttp.Response) error {
				return errors.New("unexpected content type")
			}).
			Build()

		r := dispatch(t, c, get(t, srv.URL))
		assert.True(t, IsErrorType(r.err, InterceptorError))
		assert.Contains(t, r.err.Error(), "stage: response")
		assert.Nil(t, r.resp)
	})
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	c := NewBuilder(logger.Nop()).
		WithTransport(roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) {
			return nil, cause
		})).
		Build()

	r := dispatch(t, c, get(t, "http://api.example.com"))
	assert.True(t, IsErrorType(r.err, NetworkError))
	assert.ErrorIs(t, r.err, cause)
	assert.Nil(t, r.resp)
	assert.Nil(t, r.body)
}

func TestTimeoutError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewBuilder(logger.Nop()).WithTimeout(50 * time.Millisecond).Build()
	r := dispatch(t, c, get(t, srv.URL))

	assert.True(t, IsErrorType(r.err, TimeoutError), "got %v", r.err)
	assert.Contains(t, r.err.Error(), "timeout: 50ms")
	var netErr net.Error
	assert.ErrorAs(t, r.err, &netErr)
}

func TestCancel(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(nethttp.HandlerFunc(func(_ nethttp.ResponseWriter, r *nethttp.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	h, done := dispatchAsync(NewClient(logger.Nop()), get(t, srv.URL))
	<-started
	h.Cancel()

	r := wait(t, done)
	assert.True(t, IsErrorType(r.err, CanceledError), "got %v", r.err)
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.Nil(t, r.resp)

	// completed handles ignore further calls
	h.Cancel()
	h.Suspend()
	h.Resume()
}

func TestParentContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	c := NewBuilder(logger.Nop()).
		WithTransport(roundTripperFunc(func(req *nethttp.Request) (*nethttp.Response, error) {
			calls.Add(1)
			return nil, req.Context().Err()
		})).
		Build()

	r := dispatch(t, c, newRequest(t, ctx, nethttp.MethodGet, "http://api.example.com", nil))
	assert.True(t, IsErrorType(r.err, CanceledError), "got %v", r.err)
	assert.Zero(t, calls.Load(), "a canceled dispatch is not sent")
}

func TestSuspendHoldsBodyRead(t *testing.T) {
	reader, writer := io.Pipe()
	reached := make(chan struct{})
	proceed := make(chan struct{})
	c := NewBuilder(logger.Nop()).
		WithTransport(roundTripperFunc(func(req *nethttp.Request) (*nethttp.Response, error) {
			return &nethttp.Response{
				StatusCode: nethttp.StatusOK,
				Header:     nethttp.Header{},
				Body:       reader,
				Request:    req,
			}, nil
		})).
		WithResponseInterceptor(func(context.Context, *nethttp.Request, *nethttp.Response) error {
			close(reached)
			<-proceed
			return nil
		}).
		Build()

	h, done := dispatchAsync(c, get(t, "http://api.example.com"))
	<-reached
	h.Suspend()
	close(proceed)

	go func() {
		_, _ = writer.Write([]byte("chunk"))
		_ = writer.Close()
	}()

	select {
	case <-done:
		t.Fatal("body read while suspended")
	case <-time.After(100 * time.Millisecond):
	}

	h.Resume()
	r := wait(t, done)
	require.NoError(t, r.err)
	assert.Equal(t, "chunk", string(r.body))
}

func TestSuspendedDispatchIsNotSent(t *testing.T) {
	var calls atomic.Int32
	c := NewBuilder(logger.Nop()).
		WithTransport(roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) {
			calls.Add(1)
			return nil, errors.New("unreachable")
		})).
		Build().(*client)

	ctx, cancel := context.WithCancel(context.Background())
	h := newHandle(cancel)
	h.Suspend()
	req := get(t, "http://api.example.com")

	done := make(chan error, 1)
	go func() {
		_, _, err := c.execute(ctx, h, req)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("suspended dispatch was sent")
	case <-time.After(50 * time.Millisecond):
	}

	h.Cancel()
	select {
	case err := <-done:
		assert.True(t, IsErrorType(err, CanceledError), "got %v", err)
	case <-time.After(testTimeout):
		t.Fatal("dispatch did not complete")
	}
	assert.Zero(t, calls.Load())
}

func TestHandleWait(t *testing.T) {
	h := newHandle(func() {})
	require.NoError(t, h.wait(context.Background()))

	h.Suspend()
	h.Suspend()
	assert.True(t, h.suspended())

	released := make(chan error, 1)
	go func() { released <- h.wait(context.Background()) }()

	select {
	case <-released:
		t.Fatal("wait returned while suspended")
	case <-time.After(50 * time.Millisecond):
	}

	h.Resume()
	h.Resume()
	assert.False(t, h.suspended())
	select {
	case err := <-released:
		assert.NoError(t, err)
	case <-time.After(testTimeout):
		t.Fatal("wait did not return after resume")
	}

	h.Suspend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.wait(ctx), context.Canceled)
}

func TestDispatchTelemetry(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNoContent)
	}))
	defer srv.Close()

	tp := obtest.NewTestTraceProvider()
	mp := obtest.NewTestMeterProvider()
	defer func() {
		require.NoError(t, tp.Shutdown(context.Background()))
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	c := NewBuilder(logger.Nop()).WithTracerProvider(tp).WithMeterProvider(mp).Build()

	r := dispatch(t, c, get(t, srv.URL))
	require.NoError(t, r.err)

	failing := NewBuilder(logger.Nop()).
		WithTracerProvider(tp).
		WithMeterProvider(mp).
		WithTransport(roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) {
			return nil, errors.New("connection reset")
		})).
		Build()
	r = dispatch(t, failing, get(t, "http://api.example.com"))
	require.Error(t, r.err)

	obtest.NewSpanCollector(t, tp.Exporter).WithName(nethttp.MethodGet).AssertCount(2)
	spans := tp.Exporter.GetSpans()
	require.Len(t, spans, 2)

	ok := spans[0]
	obtest.AssertSpanAttribute(t, &ok, "http.response.status_code", nethttp.StatusNoContent)
	obtest.AssertSpanStatus(t, &ok, codes.Unset)

	failed := spans[1]
	obtest.AssertSpanAttribute(t, &failed, "error.type", string(NetworkError))
	obtest.AssertSpanStatus(t, &failed, codes.Error)

	rm := mp.Collect(t)
	obtest.AssertHistogramCount(t, rm, tracking.MetricRequestDuration, 2)
	obtest.AssertSumValue(t, rm, tracking.MetricActiveDispatches, 0)
}

func TestLogging(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug", false, nil)
	c := NewBuilder(log).WithLogPayloads(true).WithMaxPayloadLogBytes(10).Build()

	req := get(t, srv.URL)
	req.Header.Set("Authorization", "Basic dTpw")
	r := dispatch(t, c, req)
	require.NoError(t, r.err)
	assert.Len(t, r.body, 100, "payload logging does not truncate the body")

	out := buf.String()
	assert.Contains(t, out, "HTTP client request")
	assert.Contains(t, out, "HTTP client response")
	assert.Contains(t, out, "HTTP client response payload")
	assert.NotContains(t, out, "dTpw")
	assert.NotContains(t, out, strings.Repeat("x", 11))
}

func TestNewFromConfig(t *testing.T) {
	srv := httptest.NewServer(echoHeaders(testUserAgent, "Accept", "X-Correlation-ID", HeaderTraceParent))
	defer srv.Close()

	cfg, err := config.Load(config.WithoutEnv(), config.WithYAML([]byte(`
http:
  timeout: 2s
  useragent: gists-cli/2.0
  headers:
    Accept: application/vnd.github+json
  trace:
    header: X-Correlation-ID
    w3c: true
`)))
	require.NoError(t, err)

	c := NewFromConfig(&cfg.HTTP, logger.Nop())
	assert.Equal(t, 2*time.Second, c.(*client).httpClient.Timeout)

	r := dispatch(t, c, get(t, srv.URL))
	require.NoError(t, r.err)
	assert.Equal(t, "gists-cli/2.0", r.resp.Header.Get("Echo-"+testUserAgent))
	assert.Equal(t, "application/vnd.github+json", r.resp.Header.Get("Echo-Accept"))
	assert.NotEmpty(t, r.resp.Header.Get("Echo-X-Correlation-ID"))
	assert.Regexp(t, traceParentPattern, r.resp.Header.Get("Echo-"+HeaderTraceParent))
}

func TestNewFromNilConfig(t *testing.T) {
	c := NewFromConfig(nil, logger.Nop()).(*client)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Empty(t, c.config.DefaultHeaders)
}
