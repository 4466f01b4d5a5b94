package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer_Start(t *testing.T) {
	tr := NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, SpanEvaluate, String(AttrOwner, "0xabc"), Bool(AttrSelf, true))

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(String(AttrDecision, "allowed"))
	span.AddEvent(EventConsentChecked, Bool("granted", false))
	span.End(errors.New("boom"))
}

func TestOTelTracer_WithInjectedTracer(t *testing.T) {
	tr := NewOTel(WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), SpanViewRecordOf, String(AttrCaller, "0xabc"))
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	span.SetAttributes(Bool(AttrRegistered, true))
	span.AddEvent(EventConsentChecked)
	span.End(nil)
}

func TestOTelTracer_DefaultsToGlobalProvider(t *testing.T) {
	tr := NewOTel()
	require.NotNil(t, tr.tracer)
}

type decision string

func (d decision) String() string { return string(d) }

func TestToOTelAttributes(t *testing.T) {
	assert.Nil(t, toOTelAttributes(nil))

	got := toOTelAttributes([]Attribute{
		String("s", "v"),
		Bool("b", true),
		Int64("i64", 7),
		{Key: "i", Value: 3},
		Duration("d", 150*time.Millisecond),
		{Key: "stringer", Value: decision("denied")},
		{Key: "other", Value: 1.5},
	})

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("s", "v"),
		attribute.Bool("b", true),
		attribute.Int64("i64", 7),
		attribute.Int("i", 3),
		attribute.Int64("d", 150),
		attribute.String("stringer", "denied"),
		attribute.String("other", "1.5"),
	}, got)
}
