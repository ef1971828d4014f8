// Package mode resolves user and environment intent into the per-tick
// input snapshot consumed by the valve controller. It owns the debouncing
// the controller expects: bake is a timed latch rather than a raw switch
// sample, and manual adjustments set a short fast-response window.
package mode

import (
	"sync"

	"github.com/mikesmitty/toasty-boy/pkg/radvalve"
	"github.com/mikesmitty/toasty-boy/pkg/temp"
)

// Config is the static policy for one valve, resolved once at startup.
type Config struct {
	// TargetTempC is the normal occupied target in whole degrees.
	TargetTempC int
	// FrostTempC is the setback target while frost protection is active.
	FrostTempC int
	// BakeUpliftC is added to the target while bake is running.
	BakeUpliftC int
	// BakeDurationTicks limits how long a bake request runs before it
	// cancels itself.
	BakeDurationTicks int
	// FastResponseTicks is how long after a manual adjustment the
	// controller is asked to favour speed over quietness.
	FastResponseTicks int
	MinPCOpen         uint8
	MaxPCOpen         uint8
	EcoBias           bool
	Glacial           bool
}

// DefaultConfig returns sensible standalone-valve policy.
func DefaultConfig() Config {
	return Config{
		TargetTempC:       19,
		FrostTempC:        5,
		BakeUpliftC:       5,
		BakeDurationTicks: 30,
		FastResponseTicks: 10,
		MinPCOpen:         radvalve.MinReallyOpenPC,
		MaxPCOpen:         100,
		EcoBias:           true,
	}
}

// Resolver folds switch and sensor events into stable mode flags and
// produces one input snapshot per control tick. Event setters may be
// called from other goroutines (eg MQTT command handlers); Snapshot is
// called only from the single control loop.
type Resolver struct {
	mu        sync.Mutex
	cfg       Config
	bakeTicks int
	fastTicks int
	dark      bool
	frost     bool
	eco       bool
}

func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg, eco: cfg.EcoBias}
}

// StartBake latches bake mode for the configured duration.
func (r *Resolver) StartBake() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bakeTicks = r.cfg.BakeDurationTicks
	r.fastTicks = r.cfg.FastResponseTicks
}

// CancelBake clears any running bake immediately.
func (r *Resolver) CancelBake() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bakeTicks = 0
}

// BakeActive reports whether a bake is currently latched.
func (r *Resolver) BakeActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bakeTicks > 0
}

// SetTarget changes the normal target and asks for a fast response so the
// user sees the valve react.
func (r *Resolver) SetTarget(targetC int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if targetC != r.cfg.TargetTempC {
		r.cfg.TargetTempC = targetC
		r.fastTicks = r.cfg.FastResponseTicks
	}
}

// Target returns the current normal target.
func (r *Resolver) Target() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg.TargetTempC
}

// SetEco switches the energy-saving bias at runtime.
func (r *Resolver) SetEco(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eco = on
}

// Eco reports the current bias.
func (r *Resolver) Eco() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eco
}

// SetFrost switches frost-protection setback on or off.
func (r *Resolver) SetFrost(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frost = on
}

// SetDark feeds the ambient light state; darkness widens the deadband so
// an empty or sleeping room gets slower, quieter valve movement.
func (r *Resolver) SetDark(dark bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dark = dark
}

// Snapshot assembles the input state for one tick from the given raw room
// temperature, counting down the bake and fast-response latches. The
// filtering flag from the controller also widens the deadband, since
// jittery readings make eager movement counterproductive.
func (r *Resolver) Snapshot(rawTempC16 temp.C16, filtering bool) *radvalve.InputState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bakeTicks > 0 {
		r.bakeTicks--
	}
	if r.fastTicks > 0 {
		r.fastTicks--
	}

	bake := r.bakeTicks > 0
	fast := r.fastTicks > 0

	target := r.cfg.TargetTempC
	if r.frost {
		target = r.cfg.FrostTempC
	}
	if bake {
		target += r.cfg.BakeUpliftC
	}

	in := radvalve.NewInputState(rawTempC16)
	in.TargetTempC = target
	in.MinPCOpen = r.cfg.MinPCOpen
	in.MaxPCOpen = r.cfg.MaxPCOpen
	in.HasEcoBias = r.eco
	in.Glacial = r.cfg.Glacial
	in.InBakeMode = bake
	in.FastResponseRequired = fast
	in.WidenDeadband = (r.dark || filtering) && !fast && !bake
	return in
}
