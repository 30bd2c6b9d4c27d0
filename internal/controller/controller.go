// Package controller owns the stopwatch state machine.
//
// A single goroutine consumes button edges and ticks, classifies presses,
// applies them to the stopwatch and publishes the result to the status
// tracker. Nothing else mutates stopwatch state.
package controller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/button-stopwatch/internal/logic"
	"github.com/sweeney/button-stopwatch/internal/metrics"
	"github.com/sweeney/button-stopwatch/internal/mqtt"
	"github.com/sweeney/button-stopwatch/internal/status"
)

// Config holds the controller timing parameters.
type Config struct {
	MediumHold time.Duration
	LongHold   time.Duration
	Heartbeat  time.Duration // 0 disables heartbeats
}

// Controller drives the classifier and stopwatch from button edges.
type Controller struct {
	cfg        Config
	classifier *logic.Classifier
	sw         *logic.Stopwatch

	tracker    *status.Tracker
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	dropped    func() uint64
	log        zerolog.Logger

	lastHeartbeat time.Time
}

// New creates a controller. publisher, mqttStatus and dropped may be nil.
func New(cfg Config, tracker *status.Tracker, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, dropped func() uint64, log zerolog.Logger) *Controller {
	return &Controller{
		cfg:        cfg,
		classifier: logic.NewClassifier(cfg.MediumHold, cfg.LongHold),
		sw:         logic.NewStopwatch(),
		tracker:    tracker,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		dropped:    dropped,
		log:        log.With().Str("component", "controller").Logger(),
	}
}

// Run processes events and ticks until ctx is cancelled. A closed events
// channel stops edge processing but ticks continue.
func (c *Controller) Run(ctx context.Context, events <-chan logic.ButtonEvent, tick <-chan time.Time, now func() time.Time) error {
	c.lastHeartbeat = now()
	c.publish()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				c.log.Warn().Msg("edge queue closed")
				events = nil
				continue
			}
			c.HandleEvent(ev)

		case <-tick:
			// Edges already queued happened before this tick; a release
			// must end the press before its hold is sampled.
			events = c.drain(events)
			c.Tick(now())
		}
	}
}

// drain handles every queued edge without blocking. It returns nil once
// the queue is closed.
func (c *Controller) drain(events <-chan logic.ButtonEvent) <-chan logic.ButtonEvent {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				c.log.Warn().Msg("edge queue closed")
				return nil
			}
			c.HandleEvent(ev)
		default:
			return events
		}
	}
}

// HandleEvent feeds one edge through the classifier and, on release, the
// stopwatch. It returns the resulting transition, if any.
func (c *Controller) HandleEvent(ev logic.ButtonEvent) (logic.Transition, bool) {
	cl := c.classifier.Handle(ev)
	if cl == nil {
		if !ev.Pressed {
			metrics.SpuriousReleasesTotal.Inc()
			c.log.Debug().Time("at", ev.Time).Msg("release without press ignored")
		} else {
			c.log.Debug().Time("at", ev.Time).Msg("press")
		}
		c.publish()
		return logic.Transition{}, false
	}

	metrics.PressesTotal.WithLabelValues(string(cl.Kind)).Inc()

	tr := c.sw.Apply(*cl)
	if !tr.Changed() {
		c.log.Debug().
			Str("press", string(cl.Kind)).
			Dur("held", cl.Held).
			Str("phase", string(tr.From)).
			Msg("press has no effect")
		c.publish()
		return tr, false
	}

	metrics.ActionsTotal.WithLabelValues(string(tr.Action)).Inc()
	if tr.Action == logic.ActionLap {
		metrics.LapSeconds.Observe(tr.Lap.Seconds())
	}

	e := c.log.Info().
		Str("action", string(tr.Action)).
		Str("press", string(tr.Press)).
		Dur("held", tr.Held).
		Str("from", string(tr.From)).
		Str("to", string(tr.To)).
		Str("elapsed", logic.FormatDuration(tr.Elapsed))
	if tr.Action == logic.ActionLap {
		e = e.Str("lap", logic.FormatDuration(tr.Lap))
	}
	e.Msg("transition")

	if c.tracker != nil {
		c.tracker.SetLastAction(tr.Action)
	}
	c.publish()

	if c.publisher != nil {
		if err := c.publisher.Publish(tr); err != nil {
			// Don't stop the stopwatch on publish failure
			c.log.Warn().Err(err).Str("action", string(tr.Action)).Msg("publish failed")
		}
	}

	return tr, true
}

// Tick samples the held button and refreshes the published snapshot.
func (c *Controller) Tick(now time.Time) {
	for _, th := range c.classifier.Sample(now) {
		metrics.HoldThresholdsTotal.WithLabelValues(th.Level.String()).Inc()
		c.log.Debug().Str("level", th.Level.String()).Time("at", th.Time).Msg("hold threshold reached")
	}

	c.publish()
	c.checkHeartbeat(now)
}

// Stopwatch returns a copy of the current stopwatch state.
func (c *Controller) Stopwatch() logic.Stopwatch {
	return *c.sw
}

// Counts returns press classifications since startup.
func (c *Controller) Counts() logic.PressCounts {
	return c.classifier.Counts()
}

func (c *Controller) checkHeartbeat(now time.Time) {
	if c.cfg.Heartbeat <= 0 || now.Sub(c.lastHeartbeat) < c.cfg.Heartbeat {
		return
	}
	c.lastHeartbeat = now

	counts := c.classifier.Counts()
	c.log.Info().
		Str("phase", string(c.sw.Phase)).
		Int("tap", counts.Tap).
		Int("medium_hold", counts.MediumHold).
		Int("long_hold", counts.LongHold).
		Int("spurious", counts.Spurious).
		Msg("heartbeat")

	if c.publisher == nil || c.tracker == nil {
		return
	}
	snap := c.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  now,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := c.publisher.PublishSystem(event); err != nil {
		c.log.Warn().Err(err).Msg("heartbeat publish failed")
	}
}

// publish copies controller state into the tracker.
func (c *Controller) publish() {
	metrics.SetPhase(c.sw.Phase)
	if c.tracker == nil {
		return
	}

	var dropped uint64
	if c.dropped != nil {
		dropped = c.dropped()
	}
	c.tracker.Update(*c.sw, c.classifier.Level(), c.classifier.Counts(), dropped)
	if c.mqttStatus != nil {
		c.tracker.SetMQTTConnected(c.mqttStatus.IsConnected())
	}
}
