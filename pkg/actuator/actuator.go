// Package actuator drives the valve head motor. The controller only ever
// hands over a percent-open value; how that becomes motor travel is this
// package's problem, and fakes stand in for the hardware in tests.
package actuator

import "sync"

// Driver positions the valve.
type Driver interface {
	// SetPercentOpen moves the valve to the given position in [0,100].
	SetPercentOpen(pc uint8) error
	// PercentOpen reports the last commanded position.
	PercentOpen() uint8
	// Stop halts any movement and de-energises the motor.
	Stop() error
}

// Fake records commanded positions for tests.
type Fake struct {
	mu      sync.Mutex
	pc      uint8
	history []uint8
	stopped bool
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) SetPercentOpen(pc uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pc = pc
	f.history = append(f.history, pc)
	f.stopped = false
	return nil
}

func (f *Fake) PercentOpen() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pc
}

func (f *Fake) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

// History returns every commanded position in order.
func (f *Fake) History() []uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint8, len(f.history))
	copy(out, f.history)
	return out
}

// Stopped reports whether Stop was called after the last movement.
func (f *Fake) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}
