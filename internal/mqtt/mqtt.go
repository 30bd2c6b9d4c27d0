// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

// Topic is the MQTT topic for stopwatch actions.
const Topic = "stopwatch/button/actions"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "stopwatch/button/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a stopwatch action to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(t logic.Transition) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Stopwatch StopwatchPayload `json:"stopwatch"`
}

// StopwatchPayload contains the action details.
type StopwatchPayload struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Press     string `json:"press"`
	HeldMs    int64  `json:"held_ms"`
	From      string `json:"from"`
	To        string `json:"to"`
	Elapsed   string `json:"elapsed"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Lap       string `json:"lap,omitempty"`
	LapMs     int64  `json:"lap_ms,omitempty"`
}

// FormatPayload creates the JSON payload for a stopwatch action.
func FormatPayload(t logic.Transition) ([]byte, error) {
	p := StopwatchPayload{
		Timestamp: t.Timestamp.UTC().Format(time.RFC3339Nano),
		Action:    string(t.Action),
		Press:     string(t.Press),
		HeldMs:    t.Held.Milliseconds(),
		From:      string(t.From),
		To:        string(t.To),
		Elapsed:   logic.FormatDuration(t.Elapsed),
		ElapsedMs: t.Elapsed.Milliseconds(),
	}
	if t.Action == logic.ActionLap {
		p.Lap = logic.FormatDuration(t.Lap)
		p.LapMs = t.Lap.Milliseconds()
	}
	return json.Marshal(Payload{Stopwatch: p})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
