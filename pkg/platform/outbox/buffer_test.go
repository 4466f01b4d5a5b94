package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scad/pkg/platform/outbox"
	"scad/pkg/platform/outbox/store/memory"
)

func TestBufferFlushKeepsOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf outbox.Buffer
	first := outbox.NewEntry("consent", "0xa", "ConsentChanged", []byte(`{}`), time.Now())
	second := outbox.NewEntry("consent", "0xa", "ConsentChanged", []byte(`{}`), time.Now())
	require.NoError(t, buf.Append(ctx, first))
	require.NoError(t, buf.Append(ctx, second))
	assert.Equal(t, 2, buf.Len())

	cancel()
	assert.ErrorIs(t, buf.Append(ctx, first), context.Canceled)

	store := memory.New()
	require.NoError(t, buf.Flush(ctx, store), "flush ignores cancellation")
	assert.Equal(t, 0, buf.Len())

	all, err := store.ListAfter(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}
