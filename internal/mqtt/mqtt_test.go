package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

var ts = time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)

func lapTransition() logic.Transition {
	return logic.Transition{
		Timestamp: ts,
		Press:     logic.KindTap,
		Held:      150 * time.Millisecond,
		From:      logic.PhaseRunning,
		To:        logic.PhaseRunning,
		Action:    logic.ActionLap,
		Elapsed:   61230 * time.Millisecond,
		Lap:       3000 * time.Millisecond,
	}
}

func TestFormatPayload(t *testing.T) {
	payload, err := FormatPayload(lapTransition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	sw := parsed.Stopwatch
	if sw.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", sw.Timestamp)
	}
	if sw.Action != "LAP" || sw.Press != "TAP" {
		t.Errorf("unexpected action/press: %s/%s", sw.Action, sw.Press)
	}
	if sw.HeldMs != 150 {
		t.Errorf("held_ms: got %d", sw.HeldMs)
	}
	if sw.From != "RUNNING" || sw.To != "RUNNING" {
		t.Errorf("unexpected phases: %s -> %s", sw.From, sw.To)
	}
	if sw.Elapsed != "01:01:23" || sw.ElapsedMs != 61230 {
		t.Errorf("elapsed: got %s (%d ms)", sw.Elapsed, sw.ElapsedMs)
	}
	if sw.Lap != "00:03:00" || sw.LapMs != 3000 {
		t.Errorf("lap: got %s (%d ms)", sw.Lap, sw.LapMs)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	tr := logic.Transition{
		Timestamp: ts,
		Press:     logic.KindMediumHold,
		Held:      2500 * time.Millisecond,
		From:      logic.PhaseRunning,
		To:        logic.PhasePaused,
		Action:    logic.ActionPause,
		Elapsed:   6 * time.Second,
	}

	payload, err := FormatPayload(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"stopwatch":{"timestamp":"2026-02-02T22:18:12Z","action":"PAUSE","press":"MEDIUM_HOLD","held_ms":2500,"from":"RUNNING","to":"PAUSED","elapsed":"00:06:00","elapsed_ms":6000}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatPayloadOmitsLapForOtherActions(t *testing.T) {
	tests := []struct {
		action logic.Action
		from   logic.Phase
		to     logic.Phase
	}{
		{logic.ActionStart, logic.PhaseIdle, logic.PhaseRunning},
		{logic.ActionPause, logic.PhaseRunning, logic.PhasePaused},
		{logic.ActionResume, logic.PhasePaused, logic.PhaseRunning},
		{logic.ActionReset, logic.PhaseRunning, logic.PhaseReset},
		{logic.ActionRestart, logic.PhaseReset, logic.PhaseRunning},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			// A stale Lap value must not leak into non-lap payloads.
			tr := logic.Transition{Timestamp: ts, Action: tt.action, From: tt.from, To: tt.to, Lap: time.Second}
			payload, err := FormatPayload(tr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed map[string]map[string]any
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if _, ok := parsed["stopwatch"]["lap"]; ok {
				t.Errorf("%s should not carry lap", tt.action)
			}
			if parsed["stopwatch"]["action"] != string(tt.action) {
				t.Errorf("action: got %v", parsed["stopwatch"]["action"])
			}
		})
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	tr := lapTransition()
	tr.Timestamp = time.Date(2026, 2, 3, 0, 18, 12, 0, loc)

	payload, err := FormatPayload(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Stopwatch.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Stopwatch.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "stopwatch/button/actions" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "stopwatch/button/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Event:     "RECONNECTED",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload should pass through, got %s", payload)
	}
}

func TestWillPayloadFormat(t *testing.T) {
	payload, err := willPayload(time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"MQTT_DISCONNECT"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish(lapTransition()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(f.Transitions))
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
	if got := f.Actions(); len(got) != 1 || got[0] != logic.ActionLap {
		t.Errorf("Actions: got %v", got)
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	if err := f.Publish(lapTransition()); err == nil {
		t.Error("expected error")
	}
	if len(f.Transitions) != 0 {
		t.Error("failed publish should not be recorded")
	}

	f.PublishSystemError = errors.New("broker down")
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected system error")
	}
}

func TestFakePublisherPreservesOrder(t *testing.T) {
	f := NewFakePublisher()
	for _, a := range []logic.Action{logic.ActionStart, logic.ActionLap, logic.ActionPause, logic.ActionResume} {
		f.Publish(logic.Transition{Timestamp: ts, Action: a})
	}

	want := []logic.Action{logic.ActionStart, logic.ActionLap, logic.ActionPause, logic.ActionResume}
	got := f.Actions()
	if len(got) != len(want) {
		t.Fatalf("expected %d actions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFakePublisherRecordsRetainedFlag(t *testing.T) {
	f := NewFakePublisher()
	f.PublishSystem(SystemEvent{Timestamp: ts, Event: "STARTUP", Retained: true})
	f.PublishSystem(SystemEvent{Timestamp: ts, Event: "HEARTBEAT"})

	if len(f.SystemEvents) != 2 {
		t.Fatalf("expected 2 system events, got %d", len(f.SystemEvents))
	}
	if !f.SystemEvents[0].Retained {
		t.Error("first event should have Retained=true")
	}
	if f.SystemEvents[1].Retained {
		t.Error("second event should have Retained=false")
	}
}

func TestFakePublisherCloseAndReset(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true
	f.Publish(lapTransition())
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()

	if !f.Closed {
		t.Error("expected Closed=true")
	}
	if !f.IsConnected() {
		t.Error("expected IsConnected=true")
	}

	f.Reset()
	if f.Closed || f.IsConnected() || len(f.Transitions) != 0 || len(f.SystemEvents) != 0 {
		t.Errorf("Reset left state behind: %+v", f)
	}
}

func TestInterfaces(t *testing.T) {
	var _ Publisher = (*FakePublisher)(nil)
	var _ ConnectionStatus = (*FakePublisher)(nil)
	var _ Publisher = (*RealPublisher)(nil)
	var _ ConnectionStatus = (*RealPublisher)(nil)
}
