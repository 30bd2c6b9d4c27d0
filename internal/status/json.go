package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Phase         string     `json:"phase"`
	Elapsed       string     `json:"elapsed"`
	ElapsedMs     int64      `json:"elapsed_ms"`
	Laps          int        `json:"laps"`
	LastLap       string     `json:"last_lap,omitempty"`
	LastLapMs     int64      `json:"last_lap_ms,omitempty"`
	TotalPauseMs  int64      `json:"total_pause_ms"`
	Hold          string     `json:"hold"`
	LastAction    string     `json:"last_action,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"press_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of press counts.
type CountsJSON struct {
	Tap          int    `json:"tap"`
	MediumHold   int    `json:"medium_hold"`
	LongHold     int    `json:"long_hold"`
	Spurious     int    `json:"spurious"`
	EdgesDropped uint64 `json:"edges_dropped"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DisplayTickMs   int64  `json:"display_tick_ms"`
	IndicatorTickMs int64  `json:"indicator_tick_ms"`
	MediumHoldMs    int64  `json:"medium_hold_ms"`
	LongHoldMs      int64  `json:"long_hold_ms"`
	HeartbeatMs     int64  `json:"heartbeat_ms"`
	Broker          string `json:"broker"`
	HTTPAddr        string `json:"http_addr"`
}

// BuildInner converts a snapshot to its JSON form (no event/reason).
func BuildInner(snap Snapshot) StatusInner {
	sw := snap.Stopwatch
	elapsed := snap.Elapsed()

	inner := StatusInner{
		Phase:         string(sw.Phase),
		Elapsed:       logic.FormatDuration(elapsed),
		ElapsedMs:     elapsed.Milliseconds(),
		Laps:          sw.Laps,
		TotalPauseMs:  sw.TotalPause.Milliseconds(),
		Hold:          snap.Hold.String(),
		LastAction:    string(snap.LastAction),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Tap:          snap.Counts.Tap,
			MediumHold:   snap.Counts.MediumHold,
			LongHold:     snap.Counts.LongHold,
			Spurious:     snap.Counts.Spurious,
			EdgesDropped: snap.Dropped,
		},
		Config: ConfigJSON{
			DisplayTickMs:   snap.Config.DisplayTickMs,
			IndicatorTickMs: snap.Config.IndicatorTickMs,
			MediumHoldMs:    snap.Config.MediumHoldMs,
			LongHoldMs:      snap.Config.LongHoldMs,
			HeartbeatMs:     snap.Config.HeartbeatMs,
			Broker:          snap.Config.Broker,
			HTTPAddr:        snap.Config.HTTPAddr,
		},
	}
	if sw.Laps > 0 {
		inner.LastLap = logic.FormatDuration(sw.LastLap)
		inner.LastLapMs = sw.LastLap.Milliseconds()
	}
	return inner
}

// FormatJSON returns the indented JSON status.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: BuildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := BuildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
