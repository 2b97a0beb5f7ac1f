package events

import (
	"reflect"
	"sync"
)

type subscriber struct {
	id int
	fn func(any)
}

// Bus is a tiny in-process pub/sub keyed by event type. It is built and
// passed around explicitly; there is no package-level instance.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscriber // type name -> subs
}

func NewBus() *Bus {
	return &Bus{subs: map[string][]subscriber{}}
}

func typeNameOf[T any]() string {
	var zero *T
	rt := reflect.TypeOf(zero).Elem() // *T -> T, without dereferencing nil
	return rt.PkgPath() + "." + rt.Name()
}

// Subscribe registers fn for events of type T and returns a cancel func.
func Subscribe[T any](b *Bus, fn func(T)) func() {
	name := typeNameOf[T]()
	wrapped := func(v any) {
		if ev, ok := v.(T); ok {
			fn(ev)
		}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscriber{id: id, fn: wrapped})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		ss := b.subs[name]
		for i, s := range ss {
			if s.id == id {
				b.subs[name] = append(ss[:i], ss[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every subscriber of its type, synchronously.
// A panicking subscriber never takes the publisher down.
func Publish[T any](b *Bus, ev T) {
	name := typeNameOf[T]()
	b.mu.RLock()
	ss := append([]subscriber(nil), b.subs[name]...)
	b.mu.RUnlock()
	for _, s := range ss {
		func() {
			defer func() { _ = recover() }()
			s.fn(ev)
		}()
	}
}

// Count returns the number of live subscribers for T.
func Count[T any](b *Bus) int {
	name := typeNameOf[T]()
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}
