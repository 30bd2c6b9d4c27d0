// Package display renders the stopwatch onto a two-line character display.
package display

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/button-stopwatch/internal/logic"
	"github.com/sweeney/button-stopwatch/internal/metrics"
	"github.com/sweeney/button-stopwatch/internal/status"
)

// Width is the number of characters per display row.
const Width = 16

// Rows is the number of display rows.
const Rows = 2

// Lines holds the text of each row, padded to Width.
type Lines [Rows]string

// Device writes a single row of text.
type Device interface {
	WriteLine(row int, text string) error
}

// Render returns the display contents for sw at now.
func Render(sw logic.Stopwatch, now time.Time) Lines {
	var top, bottom string

	switch sw.Phase {
	case logic.PhaseRunning, logic.PhasePaused:
		top = fmt.Sprintf("%s %s", logic.FormatDuration(sw.Elapsed(now)), sw.Phase)
		if sw.Laps > 0 {
			bottom = "LAP " + logic.FormatDuration(sw.LastLap)
		}
	case logic.PhaseReset:
		top = logic.FormatDuration(0)
		bottom = "Press to restart"
	default:
		top = "Stopwatch ready"
	}

	return Lines{pad(top), pad(bottom)}
}

func pad(s string) string {
	if len(s) > Width {
		return s[:Width]
	}
	return fmt.Sprintf("%-*s", Width, s)
}

// Run redraws the display from tracker snapshots on every tick until ctx is
// cancelled. Only rows whose text changed are written. A failed write is
// retried on the next tick.
func Run(ctx context.Context, dev Device, tracker *status.Tracker, tick <-chan time.Time, log zerolog.Logger) error {
	log = log.With().Str("component", "display").Logger()

	var shown Lines
	var valid [Rows]bool

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			snap := tracker.Snapshot()
			lines := Render(snap.Stopwatch, snap.Now)
			for row, text := range lines {
				if valid[row] && shown[row] == text {
					continue
				}
				if err := dev.WriteLine(row, text); err != nil {
					valid[row] = false
					metrics.RenderErrorsTotal.WithLabelValues("display").Inc()
					log.Warn().Err(err).Int("row", row).Msg("write failed")
					continue
				}
				shown[row] = text
				valid[row] = true
			}
		}
	}
}
