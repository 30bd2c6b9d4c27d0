// Package edge fans button edges out to independent consumers.
//
// Publish is called from the GPIO event handler and never blocks: each
// subscriber owns a bounded queue, and an edge that does not fit is dropped
// and counted. A human press cannot outpace a queue drained at tick rate,
// so drops indicate a stalled consumer.
package edge

import (
	"sync"
	"sync/atomic"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

// DefaultDepth is the per-subscriber queue depth.
const DefaultDepth = 2

// Fanout delivers every published edge to every subscriber at most once.
type Fanout struct {
	mu     sync.RWMutex
	subs   []chan logic.ButtonEvent
	closed bool

	dropped atomic.Uint64
	onDrop  func(logic.ButtonEvent)
}

// New creates an empty Fanout.
func New() *Fanout {
	return &Fanout{}
}

// OnDrop registers a callback invoked (from the publishing goroutine) for
// every edge a subscriber could not accept. Must be set before Publish is used.
func (f *Fanout) OnDrop(fn func(logic.ButtonEvent)) {
	f.mu.Lock()
	f.onDrop = fn
	f.mu.Unlock()
}

// Subscribe registers a new consumer with the given queue depth.
func (f *Fanout) Subscribe(depth int) <-chan logic.ButtonEvent {
	if depth <= 0 {
		depth = DefaultDepth
	}
	ch := make(chan logic.ButtonEvent, depth)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch
	}
	f.subs = append(f.subs, ch)
	return ch
}

// Publish offers ev to every subscriber without blocking and returns the
// number of subscribers that accepted it.
func (f *Fanout) Publish(ev logic.ButtonEvent) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return 0
	}

	delivered := 0
	for _, ch := range f.subs {
		select {
		case ch <- ev:
			delivered++
		default:
			f.dropped.Add(1)
			if f.onDrop != nil {
				f.onDrop(ev)
			}
		}
	}
	return delivered
}

// Dropped returns the number of undelivered (subscriber, edge) pairs.
func (f *Fanout) Dropped() uint64 {
	return f.dropped.Load()
}

// Close closes every subscriber queue. Later publishes are discarded.
func (f *Fanout) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for _, ch := range f.subs {
		close(ch)
	}
	f.subs = nil
}
