// Package testing provides in-memory OpenTelemetry providers and assertions for
// verifying the spans and metrics recorded by HTTP client dispatches.
//
// Usage:
//
//	tp := NewTestTraceProvider()
//	mp := NewTestMeterProvider()
//	client := http.NewBuilder(log).WithTracerProvider(tp).WithMeterProvider(mp).Build()
//
//	// dispatch, then
//	spans := NewSpanCollector(t, tp.Exporter).WithName("GET").AssertCount(1)
//	rm := mp.Collect(t)
//	AssertHistogramCount(t, rm, "http.client.request.duration", 1)
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTraceProvider wraps the SDK TracerProvider and in-memory exporter for testing.
type TestTraceProvider struct {
	*sdktrace.TracerProvider
	Exporter *tracetest.InMemoryExporter
}

// NewTestTraceProvider creates a TracerProvider that exports synchronously to memory.
func NewTestTraceProvider() *TestTraceProvider {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	return &TestTraceProvider{TracerProvider: provider, Exporter: exporter}
}

// TestMeterProvider wraps the SDK MeterProvider and manual reader for testing.
type TestMeterProvider struct {
	*sdkmetric.MeterProvider
	Reader *sdkmetric.ManualReader
}

// NewTestMeterProvider creates a MeterProvider collected on demand.
func NewTestMeterProvider() *TestMeterProvider {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return &TestMeterProvider{MeterProvider: provider, Reader: reader}
}

// Collect reads all metrics from the provider.
func (tmp *TestMeterProvider) Collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tmp.Reader.Collect(context.Background(), &rm), "failed to collect metrics")
	return rm
}

// SpanCollector filters captured spans for assertions.
type SpanCollector struct {
	t     *testing.T
	spans tracetest.SpanStubs
}

// NewSpanCollector creates a span collector from an in-memory exporter.
func NewSpanCollector(t *testing.T, exporter *tracetest.InMemoryExporter) *SpanCollector {
	t.Helper()
	return &SpanCollector{t: t, spans: exporter.GetSpans()}
}

// WithName keeps spans with the given name.
func (sc *SpanCollector) WithName(name string) *SpanCollector {
	var filtered tracetest.SpanStubs
	for i := range sc.spans {
		if sc.spans[i].Name == name {
			filtered = append(filtered, sc.spans[i])
		}
	}
	return &SpanCollector{t: sc.t, spans: filtered}
}

// Len returns the number of collected spans.
func (sc *SpanCollector) Len() int {
	return len(sc.spans)
}

// AssertCount fails the test unless exactly expected spans were collected.
func (sc *SpanCollector) AssertCount(expected int) *SpanCollector {
	sc.t.Helper()
	assert.Len(sc.t, sc.spans, expected, "span count mismatch")
	return sc
}

// First returns the first span, failing the test when there is none.
func (sc *SpanCollector) First() tracetest.SpanStub {
	sc.t.Helper()
	require.NotEmpty(sc.t, sc.spans, "no spans collected")
	return sc.spans[0]
}

// AssertSpanAttribute checks a span attribute value. Integers are compared as int64.
func AssertSpanAttribute(t *testing.T, span *tracetest.SpanStub, key string, expected any) {
	t.Helper()
	for _, kv := range span.Attributes {
		if string(kv.Key) != key {
			continue
		}
		switch want := expected.(type) {
		case int:
			assert.Equal(t, int64(want), kv.Value.AsInt64(), "attribute %s value mismatch", key)
		case int64:
			assert.Equal(t, want, kv.Value.AsInt64(), "attribute %s value mismatch", key)
		case bool:
			assert.Equal(t, want, kv.Value.AsBool(), "attribute %s value mismatch", key)
		case string:
			assert.Equal(t, want, kv.Value.AsString(), "attribute %s value mismatch", key)
		default:
			assert.Equal(t, expected, kv.Value.AsInterface(), "attribute %s value mismatch", key)
		}
		return
	}
	assert.Fail(t, "attribute not found", "span %q has no attribute %s", span.Name, key)
}

// AssertSpanStatus checks the span status code.
func AssertSpanStatus(t *testing.T, span *tracetest.SpanStub, expected codes.Code) {
	t.Helper()
	assert.Equal(t, expected, span.Status.Code, "span status mismatch")
}

// FindMetric returns the metric with the given name, or nil.
func FindMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// AssertHistogramCount checks the total observation count of a float64 histogram.
func AssertHistogramCount(t *testing.T, rm metricdata.ResourceMetrics, name string, expected uint64) {
	t.Helper()
	m := FindMetric(rm, name)
	require.NotNil(t, m, "metric %s not found", name)
	data, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "metric %s is not a float64 histogram", name)

	var count uint64
	for _, dp := range data.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, expected, count, "metric %s count mismatch", name)
}

// AssertSumValue checks the total of an int64 sum (counter or up-down counter).
func AssertSumValue(t *testing.T, rm metricdata.ResourceMetrics, name string, expected int64) {
	t.Helper()
	m := FindMetric(rm, name)
	require.NotNil(t, m, "metric %s not found", name)
	data, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)

	var total int64
	for _, dp := range data.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, expected, total, "metric %s value mismatch", name)
}
