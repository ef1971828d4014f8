// Package radvalve implements the closed-loop valve position controller
// for a radiator valve node: a deterministic fixed-point state machine
// that converts a temperature error into a bounded, slew-limited,
// anti-hunt valve-open percentage.
//
// One ControlState per physical valve, owned by its poll loop; nothing in
// the package reads the clock or touches hardware, so the whole controller
// can be exercised with synthetic tick sequences.
package radvalve

import "github.com/mikesmitty/toasty-boy/pkg/temp"

// ControlState is the persistent per-valve state carried between ticks.
// It is plain volatile memory, rebuilt from scratch (with a lazy history
// fill) after any restart.
type ControlState struct {
	tuning Tuning

	// Most-recent-first raw temperature samples in C16.
	prevRawTempC16 [filterLength]temp.C16
	// initialised goes true on the first tick, after the history has been
	// filled with the current reading to avoid a cold-start transient.
	initialised bool
	// isFiltering is true while control decisions use the smoothed
	// temperature instead of the raw reference.
	isFiltering bool

	// Anti-hunt countdowns, in ticks. While positive they suppress
	// movement in the corresponding direction.
	turndownTicks uint8
	turnupTicks   uint8

	// Total percentage-points of valve movement applied over the life of
	// the controller, for wear/diagnostics telemetry. Never reset.
	cumulativeMovementPC uint32
	// valveMoved reports whether the most recent tick changed the position.
	valveMoved bool
}

// NewControlState returns a fresh controller with the given tuning.
func NewControlState(tuning Tuning) *ControlState {
	return &ControlState{tuning: tuning}
}

// smoothedRawC16 is the mean of the retained samples, rounded half-up.
func (s *ControlState) smoothedRawC16() temp.C16 {
	sum := 0
	for i := filterLength; i > 0; i-- {
		sum += int(s.prevRawTempC16[i-1])
	}
	return temp.C16((sum + filterLength/2) / filterLength)
}

// rawDelta returns the change between the newest sample and the one
// ticksBack positions earlier (clamped to the oldest retained sample).
// Positive means the temperature is rising.
func (s *ControlState) rawDelta(ticksBack int) temp.C16 {
	if ticksBack > filterLength-1 {
		ticksBack = filterLength - 1
	}
	return s.prevRawTempC16[0] - s.prevRawTempC16[ticksBack]
}

// push shifts in the latest raw sample, discarding the oldest. The very
// first call instead fills every slot so early means and deltas are sane.
func (s *ControlState) push(raw temp.C16) {
	if !s.initialised {
		for i := range s.prevRawTempC16 {
			s.prevRawTempC16[i] = raw
		}
		s.initialised = true
		return
	}
	for i := filterLength - 1; i > 0; i-- {
		s.prevRawTempC16[i] = s.prevRawTempC16[i-1]
	}
	s.prevRawTempC16[0] = raw
}

// updateFilter re-evaluates whether smoothing should be engaged.
// Filtering is sticky: it only disengages once the newest raw sample sits
// close to the smoothed mean, and re-engages immediately on any large
// jump between adjacent samples.
func (s *ControlState) updateFilter() {
	if s.isFiltering {
		if absC16(s.smoothedRawC16()-s.prevRawTempC16[0]) <= maxTempJumpC16 {
			s.isFiltering = false
		}
	}
	if !s.isFiltering {
		for i := 1; i < filterLength; i++ {
			if absC16(s.prevRawTempC16[i]-s.prevRawTempC16[i-1]) > maxTempJumpC16 {
				s.isFiltering = true
				break
			}
		}
	}
}

// dontTurnup reports whether opening movement is currently suppressed.
func (s *ControlState) dontTurnup() bool { return s.turnupTicks > 0 }

// dontTurndown reports whether closing movement is currently suppressed.
func (s *ControlState) dontTurndown() bool { return s.turndownTicks > 0 }

// valveTurnup is called after any opening movement; it defers reclosing.
func (s *ControlState) valveTurnup() { s.turndownTicks = s.tuning.RecloseDelayTicks }

// valveTurndown is called after any closing movement; it defers reopening
// for longer, so a valve that has stopped calling for heat stays quiet.
func (s *ControlState) valveTurndown() { s.turnupTicks = s.tuning.ReopenDelayTicks }

// IsFiltering reports whether smoothing is currently applied.
func (s *ControlState) IsFiltering() bool { return s.isFiltering }

// SmoothedC16 exposes the smoothed raw temperature for telemetry.
func (s *ControlState) SmoothedC16() temp.C16 { return s.smoothedRawC16() }

// CumulativeMovementPC is the total |delta| percent applied so far.
func (s *ControlState) CumulativeMovementPC() uint32 { return s.cumulativeMovementPC }

// ValveMoved reports whether the most recent tick moved the valve.
func (s *ControlState) ValveMoved() bool { return s.valveMoved }

func absC16(v temp.C16) temp.C16 {
	if v < 0 {
		return -v
	}
	return v
}
