package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scad/pkg/platform/outbox"
	"scad/pkg/testutil"
)

func newEntry(owner string) *outbox.Entry {
	return outbox.NewEntry("registration", owner, "Registered", []byte(`{}`), time.Now())
}

func TestAppendAssignsIncreasingSequence(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, second := newEntry("0xa"), newEntry("0xb")
	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))

	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, int64(2), second.Sequence)
	assert.Error(t, s.Append(ctx, first), "same entry must not be appended twice")
}

func TestConcurrentAppendKeepsSequenceDense(t *testing.T) {
	ctx := context.Background()
	s := New()

	res := testutil.RunConcurrent(64, func(idx int) error {
		return s.Append(ctx, newEntry(fmt.Sprintf("0x%d", idx)))
	})
	require.Equal(t, int32(64), res.Successes)

	all, err := s.ListAfter(ctx, 0, 1000)
	require.NoError(t, err)
	require.Len(t, all, 64)
	for i, e := range all {
		assert.Equal(t, int64(i+1), e.Sequence)
	}
}

func TestListAfterPages(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, newEntry("0xa")))
	}

	page, err := s.ListAfter(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].Sequence)
	assert.Equal(t, int64(4), page[1].Sequence)

	tail, err := s.ListAfter(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, tail)
}

func TestProcessingLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, b := newEntry("0xa"), newEntry("0xb")
	require.NoError(t, s.Append(ctx, a))
	require.NoError(t, s.Append(ctx, b))

	pending, err := s.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, s.MarkProcessed(ctx, a.ID, past))
	assert.Error(t, s.MarkProcessed(ctx, a.ID, past), "second mark must fail")

	batch, err := s.FetchUnprocessed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, b.ID, batch[0].ID)

	deleted, err := s.DeleteProcessedBefore(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	rest, err := s.ListAfter(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(2), rest[0].Sequence, "sequence numbers survive cleanup")
}

func TestAppendHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, New().Append(ctx, newEntry("0xa")), context.Canceled)
}
