package ports

import "context"

//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks

// SpanConfig holds options applied when starting a span.
type SpanConfig struct{}

// SpanOption configures a span at start time.
type SpanOption func(*SpanConfig)

// Tracer creates spans around engine operations.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
}

// Span is one traced operation.
type Span interface {
	// End completes the span.
	End()

	// RecordError marks the span as failed with the given error.
	RecordError(err error)

	// SetAttribute attaches a key/value attribute to the span.
	SetAttribute(key string, value any)
}
