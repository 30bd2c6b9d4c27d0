// Package indicator drives the two status LEDs.
//
// Both LEDs are lit while the stopwatch is idle or reset. While a press is
// held, led0 lights once the medium-hold threshold is reached and led1 once
// the long-hold threshold is reached, so the user can see which action a
// release will trigger.
package indicator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/button-stopwatch/internal/gpio"
	"github.com/sweeney/button-stopwatch/internal/logic"
	"github.com/sweeney/button-stopwatch/internal/metrics"
	"github.com/sweeney/button-stopwatch/internal/status"
)

// Render returns the LED states for the given phase and hold level.
func Render(phase logic.Phase, hold logic.HoldLevel) (led0, led1 bool) {
	ready := phase == logic.PhaseIdle || phase == logic.PhaseReset
	return ready || hold >= logic.HoldMedium, ready || hold >= logic.HoldLong
}

// Run updates the LEDs from tracker snapshots on every tick until ctx is
// cancelled. The LEDs are written only when their state changes; a failed
// write is retried on the next tick.
func Run(ctx context.Context, leds gpio.Indicators, tracker *status.Tracker, tick <-chan time.Time, log zerolog.Logger) error {
	log = log.With().Str("component", "indicator").Logger()

	var shown gpio.IndicatorState
	valid := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			snap := tracker.Snapshot()
			led0, led1 := Render(snap.Stopwatch.Phase, snap.Hold)
			want := gpio.IndicatorState{LED0: led0, LED1: led1}
			if valid && want == shown {
				continue
			}
			if err := leds.Set(led0, led1); err != nil {
				valid = false
				metrics.RenderErrorsTotal.WithLabelValues("indicator").Inc()
				log.Warn().Err(err).Msg("set failed")
				continue
			}
			log.Debug().Bool("led0", led0).Bool("led1", led1).Msg("leds updated")
			shown = want
			valid = true
		}
	}
}
