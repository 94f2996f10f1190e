package telemetry

import (
	"context"

	"go.trai.ch/molt/core/ports"
)

var _ ports.Tracer = (*NoopTracer)(nil)

// NoopTracer discards all spans. It is the default tracer so embedders pay
// nothing unless they opt in.
type NoopTracer struct{}

// NewNoop creates a NoopTracer.
func NewNoop() *NoopTracer {
	return &NoopTracer{}
}

// Start returns a span that does nothing.
func (t *NoopTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End()                        {}
func (noopSpan) RecordError(error)           {}
func (noopSpan) SetAttribute(string, any)    {}
