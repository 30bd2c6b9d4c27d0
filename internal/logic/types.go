// Package logic contains the pure stopwatch core: press classification,
// the phase state machine and time accounting.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Default hold thresholds.
const (
	DefaultMediumHold = 2000 * time.Millisecond
	DefaultLongHold   = 4000 * time.Millisecond
)

// Phase is the canonical mode of the stopwatch.
type Phase string

const (
	PhaseIdle    Phase = "IDLE"
	PhaseRunning Phase = "RUNNING"
	PhasePaused  Phase = "PAUSED"
	PhaseReset   Phase = "RESET"
)

// ButtonEvent is a single edge reported by the button.
type ButtonEvent struct {
	Time    time.Time
	Pressed bool // true = pressed down, false = released
}

// Kind is the classification of one press-release cycle.
type Kind string

const (
	KindTap        Kind = "TAP"
	KindMediumHold Kind = "MEDIUM_HOLD"
	KindLongHold   Kind = "LONG_HOLD"
)

// Classification is emitted once per press, at release.
type Classification struct {
	Kind Kind
	Time time.Time     // release timestamp
	Held time.Duration // never negative
}

// HoldLevel is the highest hold threshold reached by the button currently held.
type HoldLevel int

const (
	HoldNone HoldLevel = iota
	HoldMedium
	HoldLong
)

func (l HoldLevel) String() string {
	switch l {
	case HoldMedium:
		return "MEDIUM"
	case HoldLong:
		return "LONG"
	}
	return "NONE"
}

// Threshold is the in-progress notification fired when a held button crosses
// a hold threshold. It is independent of the classification made at release.
type Threshold struct {
	Level HoldLevel
	Time  time.Time // instant the threshold was crossed
}

// Action is the semantic effect a classification had on the stopwatch.
type Action string

const (
	ActionNone    Action = ""
	ActionStart   Action = "START"
	ActionLap     Action = "LAP"
	ActionPause   Action = "PAUSE"
	ActionResume  Action = "RESUME"
	ActionReset   Action = "RESET"
	ActionRestart Action = "RESTART"
)

// Transition describes the result of applying one classification.
type Transition struct {
	Timestamp time.Time
	Press     Kind
	Held      time.Duration
	From      Phase
	To        Phase
	Action    Action
	Elapsed   time.Duration // elapsed running time after the transition
	Lap       time.Duration // only set for ActionLap
}

// Changed reports whether the classification had any effect.
func (t Transition) Changed() bool {
	return t.Action != ActionNone
}

// PressCounts tracks classifications since startup.
type PressCounts struct {
	Tap        int
	MediumHold int
	LongHold   int
	Spurious   int // releases with no matching press
}
