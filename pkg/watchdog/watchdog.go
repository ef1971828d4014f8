// Package watchdog guards against a silent sensor. A valve holding its
// last position against stale data can heat a room indefinitely, so after
// a timeout without readings the valve is driven to its failsafe state.
package watchdog

import (
	"log/slog"
	"time"
)

// New returns a runner that watches the input channel and calls failsafe
// whenever a full interval passes without any value arriving. The
// failsafe may fire repeatedly while the input stays silent.
func New[T any](interval time.Duration, failsafe func() error, input <-chan T) func() error {
	return func() error {
		t := time.NewTimer(interval)
		awake := true
		slog.Debug("watchdog started", "timeout", interval)
		for {
			select {
			case <-input:
				awake = true
			case <-t.C:
				if !awake {
					slog.Error("watchdog timeout, driving valve to failsafe", "timeout", interval)
					if err := failsafe(); err != nil {
						return err
					}
				}
				awake = false
				t.Reset(interval)
			}
		}
	}
}
