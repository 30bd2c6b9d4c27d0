package logic

import "time"

// Classifier turns press/release edges into one classification per press.
type Classifier struct {
	medium time.Duration
	long   time.Duration

	pressed   bool
	pressedAt time.Time
	fired     HoldLevel // highest threshold already notified for the current press

	counts PressCounts
}

// NewClassifier creates a classifier with the given hold thresholds.
// Non-positive values fall back to the defaults; long is never below medium.
func NewClassifier(medium, long time.Duration) *Classifier {
	if medium <= 0 {
		medium = DefaultMediumHold
	}
	if long <= 0 {
		long = DefaultLongHold
	}
	if long < medium {
		long = medium
	}
	return &Classifier{medium: medium, long: long}
}

// Handle consumes one edge. A press always starts a fresh measurement and
// returns nil. A release returns the classification of the pending press, or
// nil when there is no pending press.
func (c *Classifier) Handle(ev ButtonEvent) *Classification {
	if ev.Pressed {
		c.pressed = true
		c.pressedAt = ev.Time
		c.fired = HoldNone
		return nil
	}

	if !c.pressed {
		// Not promoted to a zero-length tap: an unpaired release (missed
		// press edge or contact bounce) must not start or lap the stopwatch.
		c.counts.Spurious++
		return nil
	}

	// A release stamped before its press is floored to a zero-length tap.
	held := nonNegative(ev.Time.Sub(c.pressedAt))
	c.pressed = false
	c.fired = HoldNone

	kind := c.kindFor(held)
	switch kind {
	case KindTap:
		c.counts.Tap++
	case KindMediumHold:
		c.counts.MediumHold++
	case KindLongHold:
		c.counts.LongHold++
	}

	return &Classification{Kind: kind, Time: ev.Time, Held: held}
}

// Sample checks the held button against the thresholds and returns the
// notifications that fired since the last sample. Each threshold fires at
// most once per press.
func (c *Classifier) Sample(now time.Time) []Threshold {
	if !c.pressed {
		return nil
	}

	level := c.levelFor(nonNegative(now.Sub(c.pressedAt)))
	if level <= c.fired {
		return nil
	}

	var out []Threshold
	for l := c.fired + 1; l <= level; l++ {
		out = append(out, Threshold{Level: l, Time: c.pressedAt.Add(c.threshold(l))})
	}
	c.fired = level
	return out
}

// Level returns the highest threshold notified for the press in progress.
func (c *Classifier) Level() HoldLevel {
	if !c.pressed {
		return HoldNone
	}
	return c.fired
}

// Counts returns classifications since startup.
func (c *Classifier) Counts() PressCounts {
	return c.counts
}

func (c *Classifier) kindFor(held time.Duration) Kind {
	switch c.levelFor(held) {
	case HoldLong:
		return KindLongHold
	case HoldMedium:
		return KindMediumHold
	}
	return KindTap
}

// levelFor uses inclusive lower bounds: exactly 2000ms is a medium hold.
func (c *Classifier) levelFor(held time.Duration) HoldLevel {
	switch {
	case held >= c.long:
		return HoldLong
	case held >= c.medium:
		return HoldMedium
	}
	return HoldNone
}

func (c *Classifier) threshold(l HoldLevel) time.Duration {
	if l == HoldLong {
		return c.long
	}
	return c.medium
}
