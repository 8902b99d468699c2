package rows

import "sync"

// Buffer is an in-memory Sink. Push never blocks: when a capacity is set and
// reached, further rows are dropped and counted instead of stalling the
// native callback that produced them.
type Buffer struct {
	mu       sync.Mutex
	rows     []Row
	capacity int
	dropped  uint64
}

// NewBuffer returns an unbounded Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBoundedBuffer returns a Buffer that holds at most capacity rows.
func NewBoundedBuffer(capacity int) *Buffer {
	return &Buffer{capacity: capacity}
}

func (b *Buffer) Push(row Row) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capacity > 0 && len(b.rows) >= b.capacity {
		b.dropped++
		return
	}

	b.rows = append(b.rows, row)
}

// Rows returns a snapshot of the buffered rows in push order.
func (b *Buffer) Rows() []Row {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Row, len(b.rows))
	copy(out, b.rows)

	return out
}

// Len returns the number of buffered rows.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.rows)
}

// Dropped returns how many rows were discarded because the buffer was full.
func (b *Buffer) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropped
}

// Reset discards all buffered rows and the drop count.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rows = nil
	b.dropped = 0
}
