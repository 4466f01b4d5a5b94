// Package tracer wraps span creation for authorization decisions so the access
// service does not import OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer: tests
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks it failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span and returns a context carrying it.
	//
	//   ctx, span := t.Start(ctx, tracer.SpanEvaluate,
	//       tracer.String(tracer.AttrOwner, owner.String()),
	//   )
	//   defer span.End(err)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the access service.
const (
	SpanEvaluate      = "access.evaluate"
	SpanViewOwnRecord = "access.view_own_record"
	SpanViewRecordOf  = "access.view_record_of"
)

// Attribute keys used by the access service.
const (
	AttrCaller     = "access.caller"
	AttrOwner      = "access.owner"
	AttrSelf       = "access.self"
	AttrDecision   = "access.decision"
	AttrRegistered = "registry.registered"
)

// Event names used by the access service.
const (
	EventConsentChecked = "consent.checked"
)
