package logic

import "time"

// Stopwatch is the canonical stopwatch state. It is a plain value: copying it
// yields an independent snapshot safe to hand to observers.
type Stopwatch struct {
	Phase Phase

	// StartedAt is valid in Running and Paused, and in Reset after a run.
	StartedAt time.Time
	// TotalPause is the time spent paused since the last restart.
	TotalPause time.Duration
	// PausedAt is valid only while Paused.
	PausedAt time.Time

	// LastLapAt is the zero time until the first lap of a run.
	LastLapAt time.Time
	// PauseSinceLastLap is folded into the next lap exactly once.
	PauseSinceLastLap time.Duration
	// PendingPause is set when a pause ended since the last lap.
	PendingPause bool
	FirstLap     bool

	// LastLap is the most recent lap duration, shown while Laps > 0.
	LastLap time.Duration
	Laps    int
}

// NewStopwatch returns a stopwatch in the Idle phase.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{Phase: PhaseIdle, FirstLap: true}
}

// Apply runs one classification through the transition table. Any
// (phase, kind) pair not in the table is a no-op and leaves every field
// untouched.
func (s *Stopwatch) Apply(c Classification) Transition {
	now := c.Time
	t := Transition{
		Timestamp: now,
		Press:     c.Kind,
		Held:      c.Held,
		From:      s.Phase,
	}

	switch s.Phase {
	case PhaseIdle:
		if c.Kind == KindTap {
			s.begin(now)
			t.Action = ActionStart
		}

	case PhaseRunning:
		switch c.Kind {
		case KindTap:
			t.Lap = s.RecordLap(now)
			t.Action = ActionLap
		case KindMediumHold:
			s.PausedAt = now
			s.Phase = PhasePaused
			t.Action = ActionPause
		case KindLongHold:
			// Accumulators stay until the restarting tap.
			s.Phase = PhaseReset
			t.Action = ActionReset
		}

	case PhasePaused:
		if c.Kind == KindMediumHold {
			s.resume(now)
			t.Action = ActionResume
		}

	case PhaseReset:
		if c.Kind == KindTap {
			s.begin(now)
			t.Action = ActionRestart
		}
	}

	t.To = s.Phase
	t.Elapsed = s.Elapsed(now)
	return t
}

// begin starts a fresh run at now and clears every lap and pause accumulator.
func (s *Stopwatch) begin(now time.Time) {
	*s = Stopwatch{
		Phase:     PhaseRunning,
		StartedAt: now,
		FirstLap:  true,
	}
}

func (s *Stopwatch) resume(now time.Time) {
	interval := nonNegative(now.Sub(s.PausedAt))
	s.TotalPause += interval
	if s.PendingPause {
		s.PauseSinceLastLap += interval
	} else {
		s.PauseSinceLastLap = interval
	}
	s.PendingPause = true
	s.PausedAt = time.Time{}
	s.Phase = PhaseRunning
}
