package mqtt

import (
	"sync"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

// FakePublisher captures everything the daemon would send to the broker.
// Payloads are formatted exactly as the real publisher would format them.
type FakePublisher struct {
	mu sync.Mutex

	Transitions    []logic.Transition
	Payloads       [][]byte
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// Injected failures, returned before anything is recorded.
	PublishError       error
	PublishSystemError error

	Closed    bool
	Connected bool
}

// NewFakePublisher returns an empty, disconnected fake.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(t logic.Transition) error {
	return f.record(f.PublishError, func() error {
		payload, err := FormatPayload(t)
		if err != nil {
			return err
		}
		f.Transitions = append(f.Transitions, t)
		f.Payloads = append(f.Payloads, payload)
		return nil
	})
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	return f.record(f.PublishSystemError, func() error {
		payload, err := FormatSystemPayload(event)
		if err != nil {
			return err
		}
		f.SystemEvents = append(f.SystemEvents, event)
		f.SystemPayloads = append(f.SystemPayloads, payload)
		return nil
	})
}

func (f *FakePublisher) record(injected error, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if injected != nil {
		return injected
	}
	return fn()
}

// Actions lists the published actions in order.
func (f *FakePublisher) Actions() []logic.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]logic.Action, 0, len(f.Transitions))
	for _, t := range f.Transitions {
		out = append(out, t.Action)
	}
	return out
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Reset returns the fake to its initial state.
func (f *FakePublisher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Transitions, f.Payloads = nil, nil
	f.SystemEvents, f.SystemPayloads = nil, nil
	f.PublishError, f.PublishSystemError = nil, nil
	f.Closed, f.Connected = false, false
}
