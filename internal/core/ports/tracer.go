package ports

import "context"

// Span represents one traced operation, typically a single node evaluation.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Span interface {
	// End completes the span.
	End()
	// RecordError attaches an error to the span.
	RecordError(err error)
	// SetAttribute attaches a key/value attribute to the span.
	SetAttribute(key string, value any)
}

// Tracer creates spans around evaluation work.
type Tracer interface {
	// Start begins a span with the given name and returns the derived context.
	Start(ctx context.Context, name string) (context.Context, Span)
}
