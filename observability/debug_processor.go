package observability

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/gaborage/go-dots/logger"
)

// debugSpanProcessor logs span lifecycle before handing spans to the wrapped processor.
type debugSpanProcessor struct {
	wrapped sdktrace.SpanProcessor
	log     logger.Logger
}

func newDebugSpanProcessor(wrapped sdktrace.SpanProcessor, log logger.Logger) sdktrace.SpanProcessor {
	return &debugSpanProcessor{wrapped: wrapped, log: log}
}

func (d *debugSpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	d.log.Debug().
		Str("span", s.Name()).
		Str("trace_id", s.SpanContext().TraceID().String()).
		Str("span_id", s.SpanContext().SpanID().String()).
		Msg("Span started")
	d.wrapped.OnStart(parent, s)
}

func (d *debugSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	d.log.Debug().
		Str("span", s.Name()).
		Str("trace_id", s.SpanContext().TraceID().String()).
		Dur("duration", s.EndTime().Sub(s.StartTime())).
		Msg("Span ended")
	d.wrapped.OnEnd(s)
}

func (d *debugSpanProcessor) Shutdown(ctx context.Context) error {
	d.log.Debug().Msg("Span processor shutting down")
	return d.wrapped.Shutdown(ctx)
}

func (d *debugSpanProcessor) ForceFlush(ctx context.Context) error {
	return d.wrapped.ForceFlush(ctx)
}
