package http

import (
	"context"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-dots/http/internal/tracking"
	"github.com/gaborage/go-dots/logger"
	dotstrace "github.com/gaborage/go-dots/trace"
)

const (
	// DefaultTimeout is the default request timeout duration
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPayloadLogBytes caps logged body bytes when payload logging is enabled
	DefaultMaxPayloadLogBytes = 4096
)

// client implements the Client interface
type client struct {
	httpClient           *nethttp.Client
	logger               logger.Logger
	config               *Config
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	recorder             *tracking.Recorder
	callCount            int64
}

var defaultClient = sync.OnceValue(func() Client {
	return NewClient(logger.Nop())
})

// Default returns the process-wide client used when a task is created without one.
func Default() Client {
	return defaultClient()
}

// NewClient creates a new client with default configuration
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

func defaultConfig() *Config {
	return &Config{
		Timeout:              DefaultTimeout,
		RequestInterceptors:  []RequestInterceptor{},
		ResponseInterceptors: []ResponseInterceptor{},
		DefaultHeaders:       make(map[string]string),
		MaxPayloadLogBytes:   DefaultMaxPayloadLogBytes,
		TraceIDHeader:        HeaderXRequestID,
	}
}

// Builder provides a fluent interface for configuring the client
type Builder struct {
	config         *Config
	logger         logger.Logger
	httpClient     *nethttp.Client
	transport      nethttp.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// NewBuilder creates a new client builder
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		config: defaultConfig(),
		logger: log,
	}
}

// WithTimeout sets the request timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithHTTPClient uses a caller-provided *http.Client. Its Timeout wins when non-zero.
func (b *Builder) WithHTTPClient(c *nethttp.Client) *Builder {
	b.httpClient = c
	return b
}

// WithTransport sets the round tripper of the underlying client
func (b *Builder) WithTransport(rt nethttp.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithDefaultHeader adds a header sent with every request that does not set it
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithTraceIDHeader sets the trace ID header name; empty keeps the default
func (b *Builder) WithTraceIDHeader(header string) *Builder {
	if header != "" {
		b.config.TraceIDHeader = header
	}
	return b
}

// WithTraceIDGenerator sets the generator used when the context has no trace ID
func (b *Builder) WithTraceIDGenerator(gen func() string) *Builder {
	b.config.NewTraceID = gen
	return b
}

// WithTraceIDExtractor sets a custom trace ID lookup on the request context
func (b *Builder) WithTraceIDExtractor(extract func(context.Context) (string, bool)) *Builder {
	b.config.TraceIDExtractor = extract
	return b
}

// WithW3CTrace toggles traceparent/tracestate propagation
func (b *Builder) WithW3CTrace(enabled bool) *Builder {
	b.config.EnableW3CTrace = enabled
	return b
}

// WithLogPayloads toggles debug logging of headers and bodies
func (b *Builder) WithLogPayloads(enabled bool) *Builder {
	b.config.LogPayloads = enabled
	return b
}

// WithMaxPayloadLogBytes caps logged body bytes; non-positive values keep the default
func (b *Builder) WithMaxPayloadLogBytes(n int) *Builder {
	if n > 0 {
		b.config.MaxPayloadLogBytes = n
	}
	return b
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider
func (b *Builder) WithTracerProvider(tp trace.TracerProvider) *Builder {
	b.tracerProvider = tp
	return b
}

// WithMeterProvider overrides the global OpenTelemetry meter provider
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.meterProvider = mp
	return b
}

// Build creates the client with the configured options
func (b *Builder) Build() Client {
	// copy, so a shared client such as nethttp.DefaultClient is never modified
	httpClient := &nethttp.Client{}
	if b.httpClient != nil {
		c := *b.httpClient
		httpClient = &c
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = b.config.Timeout
	}
	if b.transport != nil {
		httpClient.Transport = b.transport
	}

	tp := b.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := b.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	return &client{
		httpClient:           httpClient,
		logger:               b.logger,
		config:               b.config,
		requestInterceptors:  b.config.RequestInterceptors,
		responseInterceptors: b.config.ResponseInterceptors,
		recorder:             tracking.NewRecorder(tp, mp),
	}
}

// Dispatch starts req on a new goroutine and returns its handle.
// A nil request completes immediately with a ValidationError.
func (c *client) Dispatch(req *nethttp.Request, done Completion) Handle {
	parent := context.Background()
	if req != nil {
		parent = req.Context()
	}
	ctx, cancel := context.WithCancel(parent)
	h := newHandle(cancel)

	go func() {
		defer cancel()
		body, resp, err := c.execute(ctx, h, req)
		done(body, resp, err)
	}()
	return h
}

// execute runs one dispatch to completion
func (c *client) execute(ctx context.Context, h *handle, req *nethttp.Request) ([]byte, *nethttp.Response, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	callCount := atomic.AddInt64(&c.callCount, 1)
	ctx, dispatch := c.recorder.Start(ctx, req)
	httpReq := req.Clone(ctx)

	if h.suspended() {
		dispatch.MarkSuspended()
	}
	if err := h.wait(ctx); err != nil {
		err = c.classify(ctx, err)
		dispatch.End(ctx, 0, errorTypeOf(err), err)
		return nil, nil, err
	}

	c.applyHeaders(ctx, httpReq)
	if err := c.runRequestInterceptors(ctx, httpReq); err != nil {
		err = NewInterceptorError("request interceptor failed", "request", err)
		dispatch.End(ctx, 0, errorTypeOf(err), err)
		return nil, nil, err
	}

	c.logRequest(httpReq, callCount)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = c.classify(ctx, err)
		c.logFailure(httpReq, callCount, err)
		dispatch.End(ctx, 0, errorTypeOf(err), err)
		return nil, nil, err
	}

	body, err := c.readResponse(ctx, h, httpReq, httpResp)
	if err != nil {
		c.logFailure(httpReq, callCount, err)
		dispatch.End(ctx, httpResp.StatusCode, errorTypeOf(err), err)
		return nil, nil, err
	}

	c.logResponse(httpReq, httpResp, body, callCount, time.Since(start))
	dispatch.End(ctx, httpResp.StatusCode, "", nil)
	return body, httpResp, nil
}

// readResponse runs response interceptors and reads the body through the suspension gate.
func (c *client) readResponse(ctx context.Context, h *handle, httpReq *nethttp.Request, httpResp *nethttp.Response) ([]byte, error) {
	defer httpResp.Body.Close()

	if err := c.runResponseInterceptors(ctx, httpReq, httpResp); err != nil {
		return nil, NewInterceptorError("response interceptor failed", "response", err)
	}

	body, err := io.ReadAll(&gatedReader{ctx: ctx, h: h, r: httpResp.Body})
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.classify(ctx, err)
		}
		return nil, NewNetworkError("failed to read response body", err)
	}
	httpResp.Body = nethttp.NoBody
	return body, nil
}

// classify maps a transport failure onto the client error taxonomy
func (c *client) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return NewCanceledError(err)
	}
	if c.isTimeout(err) {
		return NewTimeoutError("request timeout", c.httpClient.Timeout, err)
	}
	return NewNetworkError("request execution failed", err)
}

func (c *client) isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// validateRequest validates the request before sending
func (c *client) validateRequest(req *nethttp.Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if req.URL == nil || req.URL.String() == "" {
		return NewValidationError("URL cannot be empty", "url")
	}
	return nil
}

// applyHeaders fills in default headers and trace propagation headers the request lacks
func (c *client) applyHeaders(ctx context.Context, req *nethttp.Request) {
	for key, value := range c.config.DefaultHeaders {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	header := c.config.TraceIDHeader
	if header == "" {
		header = HeaderXRequestID
	}
	if req.Header.Get(header) == "" {
		req.Header.Set(header, c.traceID(ctx))
	}

	if c.config.EnableW3CTrace {
		dotstrace.InjectW3C(ctx, req.Header)
	}
}

func (c *client) traceID(ctx context.Context) string {
	if c.config.TraceIDExtractor != nil {
		if id, ok := c.config.TraceIDExtractor(ctx); ok && id != "" {
			return id
		}
	}
	if id, ok := dotstrace.IDFromContext(ctx); ok {
		return id
	}
	if c.config.NewTraceID != nil {
		if id := c.config.NewTraceID(); id != "" {
			return id
		}
	}
	return dotstrace.EnsureTraceID(ctx)
}

// runRequestInterceptors executes all request interceptors
func (c *client) runRequestInterceptors(ctx context.Context, req *nethttp.Request) error {
	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// runResponseInterceptors executes all response interceptors
func (c *client) runResponseInterceptors(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return err
		}
	}
	return nil
}
