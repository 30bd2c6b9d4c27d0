package web

import (
	"encoding/json"

	"github.com/sweeney/button-stopwatch/internal/display"
	"github.com/sweeney/button-stopwatch/internal/indicator"
	"github.com/sweeney/button-stopwatch/internal/status"
)

// StatusJSON is the JSON representation of the daemon status, extended
// with what the display and the LEDs currently show.
type StatusJSON struct {
	Status     status.StatusInner `json:"status"`
	Display    []string           `json:"display"`
	Indicators IndicatorsJSON     `json:"indicators"`
}

// IndicatorsJSON reports the LED states.
type IndicatorsJSON struct {
	LED0 bool `json:"led0"`
	LED1 bool `json:"led1"`
}

func buildJSON(snap status.Snapshot) StatusJSON {
	lines := display.Render(snap.Stopwatch, snap.Now)
	led0, led1 := indicator.Render(snap.Stopwatch.Phase, snap.Hold)
	return StatusJSON{
		Status:     status.BuildInner(snap),
		Display:    lines[:],
		Indicators: IndicatorsJSON{LED0: led0, LED1: led1},
	}
}

func formatJSON(snap status.Snapshot) []byte {
	data, _ := json.MarshalIndent(buildJSON(snap), "", "  ")
	return data
}
