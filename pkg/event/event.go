// Package event is an in-process pub/sub bus. Controllers fire domain
// events; listeners react without the caller knowing who is watching.
package event

import (
	"context"
	"sync"

	"github.com/travlrgetaways/travlr/pkg/logger"
)

type Listener func(ctx context.Context, payload any)

var (
	mu        sync.RWMutex
	listeners = map[string][]Listener{}
)

// Listen registers a listener for an event name.
func Listen(name string, l Listener) {
	mu.Lock()
	defer mu.Unlock()
	listeners[name] = append(listeners[name], l)
}

// Fire invokes all listeners synchronously, recovering panics so one
// broken listener cannot take the caller down.
func Fire(ctx context.Context, name string, payload any) {
	mu.RLock()
	ls := append([]Listener(nil), listeners[name]...)
	mu.RUnlock()

	for _, l := range ls {
		invoke(ctx, name, l, payload)
	}
}

// FireAsync invokes listeners in their own goroutines.
func FireAsync(ctx context.Context, name string, payload any) {
	mu.RLock()
	ls := append([]Listener(nil), listeners[name]...)
	mu.RUnlock()

	for _, l := range ls {
		go invoke(ctx, name, l, payload)
	}
}

func invoke(ctx context.Context, name string, l Listener, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("event: listener panicked", "event", name, "panic", rec)
		}
	}()
	l(ctx, payload)
}

// Reset drops all listeners. For tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	listeners = map[string][]Listener{}
}
