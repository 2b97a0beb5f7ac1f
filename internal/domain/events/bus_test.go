package events

import (
	"sync"
	"sync/atomic"
	"testing"
)

type E1 struct{ A int }
type E2 struct{ S string }

func TestBus_SubscribePublish_TypeIsolation(t *testing.T) {
	b := NewBus()
	var c1 int32

	cancel := Subscribe(b, func(ev E1) {
		atomic.AddInt32(&c1, int32(ev.A))
	})
	defer cancel()

	Publish(b, E1{A: 1})
	Publish(b, E1{A: 2})
	Publish(b, E2{S: "noop"}) // must not leak across types

	if got := atomic.LoadInt32(&c1); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
}

func TestBus_Cancel_Unsubscribe(t *testing.T) {
	b := NewBus()
	var hits int32

	cancel := Subscribe(b, func(E1) {
		atomic.AddInt32(&hits, 1)
	})
	cancel() // unsubscribe before publishing

	Publish(b, E1{A: 1})

	if got := atomic.LoadInt32(&hits); got != 0 {
		t.Fatalf("want 0 after cancel, got %d", got)
	}
	if Count[E1](b) != 0 {
		t.Fatalf("want 0 subscribers, got %d", Count[E1](b))
	}
}

func TestBus_CancelMiddle_OthersSurvive(t *testing.T) {
	b := NewBus()
	var a, c int32

	cancelA := Subscribe(b, func(E1) { atomic.AddInt32(&a, 1) })
	cancelB := Subscribe(b, func(E1) {})
	cancelC := Subscribe(b, func(E1) { atomic.AddInt32(&c, 1) })
	defer cancelA()
	defer cancelC()

	cancelB()
	Publish(b, E1{})

	if a != 1 || c != 1 {
		t.Fatalf("surviving subscribers should still fire, got a=%d c=%d", a, c)
	}
}

func TestBus_PanickingSubscriber_DoesNotBlockOthers(t *testing.T) {
	b := NewBus()
	var hits int32

	defer Subscribe(b, func(E1) { panic("boom") })()
	defer Subscribe(b, func(E1) { atomic.AddInt32(&hits, 1) })()

	Publish(b, E1{})

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("want 1, got %d", got)
	}
}

func TestBus_Concurrency_NoRaces(t *testing.T) {
	b := NewBus()
	var hits int32

	cancel := Subscribe(b, func(E1) {
		atomic.AddInt32(&hits, 1)
	})
	defer cancel()

	const G = 50
	const N = 100
	var wg sync.WaitGroup
	wg.Add(G)
	for g := 0; g < G; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < N; i++ {
				Publish(b, E1{A: 1})
			}
		}()
	}
	wg.Wait()

	want := int32(G * N)
	if got := atomic.LoadInt32(&hits); got != want {
		t.Fatalf("want %d, got %d", want, got)
	}
}
