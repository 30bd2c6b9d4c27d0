// Package status publishes the single authoritative stopwatch snapshot.
// The controller is the only writer; the display, the indicator lights and
// the HTTP server read copies.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	DisplayTickMs   int64
	IndicatorTickMs int64
	MediumHoldMs    int64
	LongHoldMs      int64
	HeartbeatMs     int64
	Broker          string
	HTTPAddr        string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and stays valid after the lock is released.
type Snapshot struct {
	Stopwatch     logic.Stopwatch
	Hold          logic.HoldLevel
	Counts        logic.PressCounts
	Dropped       uint64
	LastAction    logic.Action
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Elapsed returns the stopwatch running time at s.Now.
func (s Snapshot) Elapsed() time.Duration {
	return s.Stopwatch.Elapsed(s.Now)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
// The stopwatch starts Idle.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Stopwatch: *logic.NewStopwatch(),
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// SetClock replaces the clock used to stamp snapshots.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

// Update publishes a copy of the stopwatch and the press state.
// Called by the controller after every event and tick.
func (t *Tracker) Update(sw logic.Stopwatch, hold logic.HoldLevel, counts logic.PressCounts, dropped uint64) {
	t.mu.Lock()
	t.snap.Stopwatch = sw
	t.snap.Hold = hold
	t.snap.Counts = counts
	t.snap.Dropped = dropped
	t.mu.Unlock()
}

// SetLastAction records the most recent non-empty action.
func (t *Tracker) SetLastAction(a logic.Action) {
	t.mu.Lock()
	t.snap.LastAction = a
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	now := t.now
	t.mu.RUnlock()
	s.Now = now()
	return s
}
