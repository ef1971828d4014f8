// Package boiler is the narrow boundary to the call-for-heat aggregation
// system. Arbitrating between multiple valves and protecting the boiler
// from short cycling happens on the other side of Aggregator; this node
// only reports its own demand.
package boiler

import "log/slog"

// Aggregator consumes per-valve open signals. Implementations include the
// MQTT forwarder and whatever central boiler hub ultimately listens.
type Aggregator interface {
	// ReceiveSignal reports the valve's current percent open; the
	// aggregator decides whether that constitutes a call for heat.
	ReceiveSignal(id uint16, percentOpen uint8)
}

// Nop discards signals; used for standalone valves with no boiler link.
type Nop struct{}

func (Nop) ReceiveSignal(uint16, uint8) {}

// Logger writes signals to the debug log; handy when bringing up a node
// before the boiler side exists.
type Logger struct{}

func (Logger) ReceiveSignal(id uint16, percentOpen uint8) {
	slog.Debug("call-for-heat signal", "valve", id, "percent", percentOpen, "module", "boiler")
}
