// Package router fans a single producer channel out to any number of
// named subscribers: one stream of sensor readings feeds the control
// loop, telemetry and the watchdog at once.
package router

import (
	"log/slog"
	"sync"
)

// Fan duplicates every value from its input to all current subscribers.
// Subscriber channels are buffered by one, so a slow consumer only stalls
// the fan once its buffer is full.
type Fan[T any] struct {
	debug   bool
	name    string
	mu      sync.Mutex
	input   <-chan T
	outputs map[string]chan<- T
}

func NewFan[T any](name string, input <-chan T) *Fan[T] {
	return &Fan[T]{
		name:    name,
		input:   input,
		outputs: make(map[string]chan<- T),
	}
}

func (f *Fan[T]) SetDebug(debug bool) {
	f.debug = debug
}

// Subscribe registers a client by name. Names must be unique per fan;
// duplicate registration is a programming error.
func (f *Fan[T]) Subscribe(client string) <-chan T {
	if f.debug {
		slog.Debug("subscribing to fan", "fan", f.name, "client", client)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.outputs[client]; ok {
		panic("client already subscribed: " + client)
	}
	c := make(chan T, 1)
	f.outputs[client] = c
	return c
}

// Unsubscribe removes a client and closes its channel.
func (f *Fan[T]) Unsubscribe(client string) {
	if f.debug {
		slog.Debug("unsubscribing from fan", "fan", f.name, "client", client)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.outputs[client]
	if !ok {
		panic("client not subscribed: " + client)
	}
	close(ch)
	delete(f.outputs, client)
}

// Run pumps the input to all subscribers until the input closes.
func (f *Fan[T]) Run() error {
	for v := range f.input {
		if f.debug {
			slog.Debug("fan received value", "fan", f.name, "value", v)
		}
		f.mu.Lock()
		for client, ch := range f.outputs {
			if f.debug {
				slog.Debug("fan sending value", "subscriber", client, "fan", f.name, "value", v)
			}
			ch <- v
		}
		f.mu.Unlock()
	}
	return nil
}
