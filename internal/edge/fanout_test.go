package edge

import (
	"sync"
	"testing"
	"time"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestPublishReachesEverySubscriber(t *testing.T) {
	f := New()
	a := f.Subscribe(2)
	b := f.Subscribe(2)

	ev := logic.ButtonEvent{Time: t0, Pressed: true}
	if n := f.Publish(ev); n != 2 {
		t.Fatalf("expected 2 deliveries, got %d", n)
	}

	for i, ch := range []<-chan logic.ButtonEvent{a, b} {
		select {
		case got := <-ch:
			if got != ev {
				t.Errorf("subscriber %d: got %+v, want %+v", i, got, ev)
			}
		default:
			t.Errorf("subscriber %d: no event delivered", i)
		}
	}
}

func TestPublishPreservesOrder(t *testing.T) {
	f := New()
	ch := f.Subscribe(2)

	f.Publish(logic.ButtonEvent{Time: t0, Pressed: true})
	f.Publish(logic.ButtonEvent{Time: t0.Add(time.Second), Pressed: false})

	first := <-ch
	second := <-ch
	if !first.Pressed || second.Pressed {
		t.Errorf("expected press then release, got %+v then %+v", first, second)
	}
}

func TestPublishNeverBlocksOnFullQueue(t *testing.T) {
	f := New()
	slow := f.Subscribe(2)
	fast := f.Subscribe(8)

	var dropped []logic.ButtonEvent
	f.OnDrop(func(ev logic.ButtonEvent) { dropped = append(dropped, ev) })

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			f.Publish(logic.ButtonEvent{Time: t0.Add(time.Duration(i) * time.Millisecond), Pressed: i%2 == 0})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}

	if len(slow) != 2 {
		t.Errorf("slow subscriber should hold 2 events, got %d", len(slow))
	}
	if len(fast) != 5 {
		t.Errorf("fast subscriber should hold 5 events, got %d", len(fast))
	}
	if f.Dropped() != 3 {
		t.Errorf("expected 3 drops, got %d", f.Dropped())
	}
	if len(dropped) != 3 {
		t.Errorf("expected OnDrop called 3 times, got %d", len(dropped))
	}
}

func TestSubscribeDefaultDepth(t *testing.T) {
	f := New()
	ch := f.Subscribe(0)
	if cap(ch) != DefaultDepth {
		t.Errorf("expected depth %d, got %d", DefaultDepth, cap(ch))
	}
}

func TestClose(t *testing.T) {
	f := New()
	ch := f.Subscribe(2)
	f.Close()
	f.Close()

	if _, ok := <-ch; ok {
		t.Error("expected subscriber channel closed")
	}
	if n := f.Publish(logic.ButtonEvent{Time: t0}); n != 0 {
		t.Errorf("publish after close should deliver nothing, got %d", n)
	}

	late := f.Subscribe(2)
	if _, ok := <-late; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	f := New()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.Subscribe(1)
		}()
		go func() {
			defer wg.Done()
			f.Publish(logic.ButtonEvent{Time: t0, Pressed: true})
		}()
	}
	wg.Wait()
}
