package mqtt

// message is a serialized publish waiting for the broker.
type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog keeps the newest messages up to a fixed size, evicting the oldest.
// Callers hold their own lock.
type backlog[T any] struct {
	items   []T
	oldest  int
	evicted int
}

func newBacklog[T any](size int) *backlog[T] {
	if size < 1 {
		size = 1
	}
	return &backlog[T]{items: make([]T, 0, size)}
}

// add queues v. It reports true only for the first eviction since the last
// flush, so callers can warn once per outage.
func (b *backlog[T]) add(v T) bool {
	if len(b.items) < cap(b.items) {
		b.items = append(b.items, v)
		return false
	}
	b.items[b.oldest] = v
	b.oldest = (b.oldest + 1) % len(b.items)
	b.evicted++
	return b.evicted == 1
}

// flush returns the queued messages oldest first together with the number
// evicted since the previous flush, and empties the backlog.
func (b *backlog[T]) flush() ([]T, int) {
	if len(b.items) == 0 {
		return nil, 0
	}
	out := append([]T(nil), b.items[b.oldest:]...)
	out = append(out, b.items[:b.oldest]...)
	evicted := b.evicted

	b.items = b.items[:0]
	b.oldest = 0
	b.evicted = 0
	return out, evicted
}

func (b *backlog[T]) len() int {
	return len(b.items)
}
