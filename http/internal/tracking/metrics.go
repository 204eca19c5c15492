// Package tracking records OpenTelemetry spans and metrics for client dispatches.
package tracking

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Instrumentation scope for tracer and meter
	instrumentationName = "go-dots/http"

	// Metric names following OpenTelemetry HTTP client semantic conventions
	MetricRequestDuration  = "http.client.request.duration"  // Histogram in seconds
	MetricActiveDispatches = "http.client.active_dispatches" // UpDownCounter

	attrMethod     = "http.request.method"
	attrStatusCode = "http.response.status_code"
	attrServerAddr = "server.address"
	attrURLFull    = "url.full"
	attrErrorType  = "error.type"
	attrSuspended  = "dots.suspended"
)

// Recorder creates one span and records the duration of every dispatch.
type Recorder struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// logMetricError logs a metric initialization error to stderr.
func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize http metric %s: %v\n", metricName, err)
	}
}

// NewRecorder builds a Recorder from the given providers.
func NewRecorder(tp trace.TracerProvider, mp metric.MeterProvider) *Recorder {
	meter := mp.Meter(instrumentationName)
	r := &Recorder{tracer: tp.Tracer(instrumentationName)}

	var err error
	r.duration, err = meter.Float64Histogram(
		MetricRequestDuration,
		metric.WithDescription("Duration of HTTP client dispatches"),
		metric.WithUnit("s"),
	)
	logMetricError(MetricRequestDuration, err)

	r.active, err = meter.Int64UpDownCounter(
		MetricActiveDispatches,
		metric.WithDescription("Number of in-flight HTTP client dispatches"),
		metric.WithUnit("{dispatch}"),
	)
	logMetricError(MetricActiveDispatches, err)

	return r
}

// Dispatch tracks a single in-flight request.
type Dispatch struct {
	r      *Recorder
	span   trace.Span
	start  time.Time
	method string
	host   string
}

// Start opens a client span for req and returns the context carrying it.
func (r *Recorder) Start(ctx context.Context, req *nethttp.Request) (context.Context, *Dispatch) {
	ctx, span := r.tracer.Start(ctx, req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(attrMethod, req.Method),
			attribute.String(attrURLFull, req.URL.Redacted()),
			attribute.String(attrServerAddr, req.URL.Hostname()),
		),
	)

	d := &Dispatch{r: r, span: span, start: time.Now(), method: req.Method, host: req.URL.Hostname()}
	if r.active != nil {
		r.active.Add(ctx, 1, metric.WithAttributes(d.baseAttrs()...))
	}
	return ctx, d
}

func (d *Dispatch) baseAttrs() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(attrMethod, d.method),
		attribute.String(attrServerAddr, d.host),
	}
}

// MarkSuspended annotates the span when the dispatch was held by a suspension.
func (d *Dispatch) MarkSuspended() {
	d.span.SetAttributes(attribute.Bool(attrSuspended, true))
}

// End closes the span and records the duration. statusCode is 0 when no
// response was received; errType classifies err.
func (d *Dispatch) End(ctx context.Context, statusCode int, errType string, err error) {
	attrs := d.baseAttrs()
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int(attrStatusCode, statusCode))
		d.span.SetAttributes(attribute.Int(attrStatusCode, statusCode))
	}
	if err != nil {
		attrs = append(attrs, attribute.String(attrErrorType, errType))
		d.span.SetAttributes(attribute.String(attrErrorType, errType))
		d.span.RecordError(err)
		d.span.SetStatus(codes.Error, err.Error())
	}

	if d.r.duration != nil {
		d.r.duration.Record(ctx, time.Since(d.start).Seconds(), metric.WithAttributes(attrs...))
	}
	if d.r.active != nil {
		d.r.active.Add(ctx, -1, metric.WithAttributes(d.baseAttrs()...))
	}
	d.span.End()
}
