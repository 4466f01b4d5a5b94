package outbox

import (
	"context"
	"fmt"
)

// Buffer collects entries appended during an in-memory transaction so they
// can be flushed only after the transaction body succeeds.
type Buffer struct {
	entries []*Entry
}

func (b *Buffer) Append(ctx context.Context, entry *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("outbox entry is required")
	}
	b.entries = append(b.entries, entry)
	return nil
}

// Len reports how many entries are waiting.
func (b *Buffer) Len() int { return len(b.entries) }

// Flush appends the buffered entries to dst in order and empties the buffer.
// Cancellation of ctx is ignored: the state change they describe is already applied.
func (b *Buffer) Flush(ctx context.Context, dst Appender) error {
	ctx = context.WithoutCancel(ctx)
	for i, e := range b.entries {
		if err := dst.Append(ctx, e); err != nil {
			b.entries = b.entries[i:]
			return fmt.Errorf("flush outbox entry %s: %w", e.ID, err)
		}
	}
	b.entries = nil
	return nil
}

var _ Appender = (*Buffer)(nil)
