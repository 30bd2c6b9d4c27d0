package gpio

import (
	"errors"
	"sync"
	"time"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

// FakeButton is a test double that emits scripted edges.
type FakeButton struct {
	handler EdgeHandler

	// Level is the value returned by Pressed.
	Level bool

	// ReadError, if set, will be returned by Pressed().
	ReadError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeButton creates a FakeButton that delivers edges to handler.
func NewFakeButton(handler EdgeHandler) *FakeButton {
	return &FakeButton{handler: handler}
}

// Press emits a pressed edge at t.
func (f *FakeButton) Press(t time.Time) {
	f.Level = true
	f.emit(logic.ButtonEvent{Time: t, Pressed: true})
}

// Release emits a released edge at t.
func (f *FakeButton) Release(t time.Time) {
	f.Level = false
	f.emit(logic.ButtonEvent{Time: t, Pressed: false})
}

// Hold emits a press at t followed by a release after d.
func (f *FakeButton) Hold(t time.Time, d time.Duration) {
	f.Press(t)
	f.Release(t.Add(d))
}

func (f *FakeButton) emit(ev logic.ButtonEvent) {
	if f.Closed || f.handler == nil {
		return
	}
	f.handler(ev)
}

// Pressed returns the scripted level.
func (f *FakeButton) Pressed() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	return f.Level, nil
}

// Close marks the button as closed; later edges are discarded.
func (f *FakeButton) Close() error {
	f.Closed = true
	return nil
}

// IndicatorState is one write to the indicator lights.
type IndicatorState struct {
	LED0 bool
	LED1 bool
}

// FakeIndicators records every write. Safe for concurrent use since the
// indicator loop runs in its own goroutine.
type FakeIndicators struct {
	mu       sync.Mutex
	writes   []IndicatorState
	setError error
	closed   bool
}

// NewFakeIndicators creates FakeIndicators with no writes.
func NewFakeIndicators() *FakeIndicators {
	return &FakeIndicators{}
}

// Set records the write, or returns the configured error.
func (f *FakeIndicators) Set(led0, led1 bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setError != nil {
		return f.setError
	}
	if f.closed {
		return errors.New("indicators closed")
	}
	f.writes = append(f.writes, IndicatorState{LED0: led0, LED1: led1})
	return nil
}

// SetError makes subsequent Set calls fail with err (nil clears it).
func (f *FakeIndicators) SetError(err error) {
	f.mu.Lock()
	f.setError = err
	f.mu.Unlock()
}

// Writes returns a copy of all recorded writes.
func (f *FakeIndicators) Writes() []IndicatorState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]IndicatorState(nil), f.writes...)
}

// Current returns the last written state.
func (f *FakeIndicators) Current() (IndicatorState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return IndicatorState{}, false
	}
	return f.writes[len(f.writes)-1], true
}

// Close marks the indicators as closed.
func (f *FakeIndicators) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakeIndicators) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
