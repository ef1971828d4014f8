package radvalve

// Valve percentage landmarks shared with the boiler side of the system.
const (
	// MinReallyOpenPC is the default minimum percentage at which a valve
	// is considered actually open with significant flow. Many heads pass
	// little or no water below roughly this point.
	MinReallyOpenPC uint8 = 15
	// ModeratelyOpenPC is the percentage at which significant heating
	// power is being delivered.
	ModeratelyOpenPC uint8 = 35
	// SaferOpenPC is a safely-above-threshold open value used when the
	// boiler treats "moderately open" as a trigger for immediate action.
	SaferOpenPC uint8 = 50
	// MaxRunOnTicks is the longest the valve lingers just below the
	// really-open floor before snapping shut in one burst.
	MaxRunOnTicks uint8 = 5
)

// Frost-safety floor in whole degrees C; the window-open fast-close never
// fires at or below this to avoid freeze damage.
const minValveTargetC = 5

// Temperature filter parameters.
const (
	// filterLength is the number of recent raw samples retained.
	filterLength = 4
	// maxTempJumpC16 is the largest step between adjacent samples before
	// smoothing is forced on; 3/16C.
	maxTempJumpC16 = 3
	// windowOpenFallC16 is the minimum recent drop (1C) treated as an
	// open window or door.
	windowOpenFallC16 = 16
	// windowOpenFallTicks is the lookback for that drop.
	windowOpenFallTicks = 10
)

// Tuning gathers the slew-rate and anti-hunt policy for one valve.
// The zero value is not useful; start from DefaultTuning. All values are
// resolved once at construction so a single binary covers every variant.
type Tuning struct {
	// MinSlewPC is the minimum error before movement in the central
	// proportional band; keeping it comfortably above the sensor step
	// avoids hunting on single-ulp noise.
	MinSlewPC uint8
	// MaxSlewPCPerTick is the normal maximum movement per tick. Small
	// values reduce noise, overshoot and surges of water.
	MaxSlewPCPerTick uint8
	// Glacial forces every slew rate to 1%/tick for minimum valve and
	// boiler noise.
	Glacial bool
	// GlacialOnWideDeadband slows opening to glacial when the caller has
	// signalled reduced heating effort via a wide deadband.
	GlacialOnWideDeadband bool
	// RecloseDelayTicks arms the turn-down cooldown after any opening
	// movement.
	RecloseDelayTicks uint8
	// ReopenDelayTicks arms the turn-up cooldown after any closing
	// movement; longer than reclose so a valve that has given up calling
	// for heat stays quiet for a while.
	ReopenDelayTicks uint8
}

// DefaultTuning returns the standard tuning for a typical radiator valve
// polled once per minute.
func DefaultTuning() Tuning {
	return Tuning{
		MinSlewPC:             7,
		MaxSlewPCPerTick:      5,
		GlacialOnWideDeadband: true,
		RecloseDelayTicks:     5,
		ReopenDelayTicks:      10,
	}
}

// maxSlew is MaxSlewPCPerTick honouring the glacial override.
func (t Tuning) maxSlew() uint8 {
	if t.Glacial {
		return 1
	}
	return t.MaxSlewPCPerTick
}

// fastSlew takes at least ~5 ticks for full travel.
func (t Tuning) fastSlew() uint8 {
	if t.Glacial {
		return t.maxSlew()
	}
	return minU8(20, 2*t.MaxSlewPCPerTick)
}

// veryFastSlew takes at least ~3 ticks for full travel.
func (t Tuning) veryFastSlew() uint8 {
	if t.Glacial {
		return t.maxSlew()
	}
	return minU8(34, 4*t.MaxSlewPCPerTick)
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func clampU8(v, lo, hi int) uint8 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return uint8(v)
}
