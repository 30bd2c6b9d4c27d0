package mqtt

import (
	"testing"

	"pgregory.net/rapid"
)

func payloads(msgs []message) []byte {
	out := make([]byte, len(msgs))
	for i, m := range msgs {
		out[i] = m.payload[0]
	}
	return out
}

func TestBacklogEmptyFlush(t *testing.T) {
	b := newBacklog[message](4)
	got, evicted := b.flush()
	if got != nil || evicted != 0 {
		t.Errorf("expected nothing from empty flush, got %d items, %d evicted", len(got), evicted)
	}
}

func TestBacklogKeepsOrder(t *testing.T) {
	b := newBacklog[message](8)
	for i := 0; i < 5; i++ {
		b.add(message{topic: Topic, payload: []byte{byte(i)}})
	}
	if b.len() != 5 {
		t.Fatalf("len: got %d, want 5", b.len())
	}

	got, evicted := b.flush()
	if string(payloads(got)) != string([]byte{0, 1, 2, 3, 4}) || evicted != 0 {
		t.Errorf("got %v (%d evicted)", payloads(got), evicted)
	}
	if b.len() != 0 {
		t.Errorf("len after flush: got %d", b.len())
	}
	if again, _ := b.flush(); again != nil {
		t.Errorf("second flush should be empty, got %d", len(again))
	}
}

func TestBacklogEvictsOldest(t *testing.T) {
	b := newBacklog[message](3)
	for i := 0; i < 7; i++ {
		b.add(message{payload: []byte{byte(i)}})
	}

	got, evicted := b.flush()
	if string(payloads(got)) != string([]byte{4, 5, 6}) {
		t.Errorf("expected newest three, got %v", payloads(got))
	}
	if evicted != 4 {
		t.Errorf("evicted: got %d, want 4", evicted)
	}
}

func TestBacklogEvictionReportedOncePerOutage(t *testing.T) {
	b := newBacklog[message](2)
	if b.add(message{}) || b.add(message{}) {
		t.Fatal("filling to capacity is not an eviction")
	}
	if !b.add(message{}) {
		t.Error("first eviction should be reported")
	}
	if b.add(message{}) {
		t.Error("later evictions in the same outage should not be reported")
	}

	b.flush()
	b.add(message{})
	b.add(message{})
	if !b.add(message{}) {
		t.Error("eviction after a flush should be reported again")
	}
}

func TestBacklogMinimumSize(t *testing.T) {
	b := newBacklog[message](0)
	b.add(message{topic: "a"})
	b.add(message{topic: "b"})
	got, _ := b.flush()
	if len(got) != 1 || got[0].topic != "b" {
		t.Errorf("expected only the newest message, got %+v", got)
	}
}

func TestBacklogPreservesFields(t *testing.T) {
	b := newBacklog[message](2)
	b.add(message{topic: TopicSystem, payload: []byte(`{"system":{}}`), qos: 1, retained: true})

	got, _ := b.flush()
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	m := got[0]
	if m.topic != TopicSystem || string(m.payload) != `{"system":{}}` || m.qos != 1 || !m.retained {
		t.Errorf("fields not preserved: %+v", m)
	}
}

func TestBacklogMatchesSliceModel(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.IntRange(1, 6).Draw(rt, "size")
		b := newBacklog[int](size)
		var model []int
		dropped := 0
		next := 0

		ops := rapid.IntRange(1, 60).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			if rapid.Bool().Draw(rt, "flush") {
				got, evicted := b.flush()
				if len(got) != len(model) || evicted != dropped {
					rt.Fatalf("flush: got %v (%d evicted), want %v (%d evicted)", got, evicted, model, dropped)
				}
				for j := range got {
					if got[j] != model[j] {
						rt.Fatalf("flush order: got %v, want %v", got, model)
					}
				}
				model, dropped = nil, 0
				continue
			}
			b.add(next)
			model = append(model, next)
			if len(model) > size {
				model = model[1:]
				dropped++
			}
			next++
		}
	})
}
