package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scad/internal/identifier"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/outbox"
	outboxmemory "scad/pkg/platform/outbox/store/memory"
)

var (
	alice = domain.MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	bob   = domain.MustParseAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
)

func TestRegisteredRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entry, err := NewRegisteredEntry(alice, identifier.Digits("12345678901"), false, now)
	require.NoError(t, err)

	assert.Equal(t, AggregateRegistration, entry.AggregateType)
	assert.Equal(t, alice.String(), entry.AggregateID)
	assert.Equal(t, TypeRegistered, entry.EventType)

	ev, err := Decode(entry)
	require.NoError(t, err)
	require.NotNil(t, ev.Registered)
	assert.Nil(t, ev.ConsentChanged)
	assert.Equal(t, alice, ev.Owner)
	assert.Equal(t, "12345678901", ev.Registered.Identifier)
	assert.False(t, ev.Registered.IsCompany)
	assert.True(t, now.Equal(ev.Registered.OccurredAt))
}

func TestConsentChangedDecode(t *testing.T) {
	entry, err := NewConsentChangedEntry(alice, bob, true, time.Now())
	require.NoError(t, err)

	ev, err := Decode(entry)
	require.NoError(t, err)
	require.NotNil(t, ev.ConsentChanged)
	assert.Equal(t, bob, ev.ConsentChanged.Reader)
	assert.True(t, ev.ConsentChanged.Granted)
}

func TestDecodeRejectsUnknownAndCorrupt(t *testing.T) {
	_, err := Decode(outbox.NewEntry("x", alice.String(), "Other", []byte(`{}`), time.Now()))
	assert.Error(t, err)

	_, err = Decode(outbox.NewEntry(AggregateConsent, alice.String(), TypeConsentChanged, []byte(`{`), time.Now()))
	assert.Error(t, err)
}

func TestMaskedFor(t *testing.T) {
	entry, err := NewRegisteredEntry(alice, identifier.Digits("12345678000195"), true, time.Now())
	require.NoError(t, err)
	ev, err := Decode(entry)
	require.NoError(t, err)

	assert.Equal(t, "12345678000195", ev.MaskedFor(alice).Registered.Identifier)

	masked := ev.MaskedFor(bob)
	assert.Equal(t, "**********0195", masked.Registered.Identifier)
	assert.Equal(t, "12345678000195", ev.Registered.Identifier, "masking must not mutate the original")
}

func TestFeedListsInSequenceOrder(t *testing.T) {
	ctx := context.Background()
	store := outboxmemory.New()

	reg, err := NewRegisteredEntry(alice, identifier.Digits("12345678901"), false, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, reg))
	for _, granted := range []bool{true, true, false} {
		e, err := NewConsentChangedEntry(alice, bob, granted, time.Now())
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, e))
	}

	feed := NewFeed(store, nil)

	all, err := feed.List(ctx, bob, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, ev := range all {
		assert.Equal(t, int64(i+1), ev.Sequence)
	}
	assert.Equal(t, "*******8901", all[0].Registered.Identifier)
	assert.False(t, all[3].ConsentChanged.Granted)

	page, err := feed.List(ctx, alice, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(3), page[0].Sequence)

	_, err = feed.List(ctx, alice, -1, 10)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
