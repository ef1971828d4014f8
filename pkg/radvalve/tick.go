package radvalve

import "github.com/mikesmitty/toasty-boy/pkg/temp"

// Tick runs one control interval: updates the sample history and filter
// state, counts down the anti-hunt timers, recomputes the required valve
// position and commits it through valvePCOpen.
//
// The input state must be complete, including target and reference
// temperatures, before calling; on the very first call the history is
// lazily filled from the current reading. Nominally called once per
// minute of real or simulated time, never concurrently with itself or
// with other writers of valvePCOpen.
func (s *ControlState) Tick(valvePCOpen *uint8, in *InputState) {
	// Strip the target-centring adjustment to recover the raw reading.
	raw := in.RefTempC16 - temp.RefOffsetC16
	s.push(raw)
	s.updateFilter()

	if s.turndownTicks > 0 {
		s.turndownTicks--
	}
	if s.turnupTicks > 0 {
		s.turnupTicks--
	}

	newPC := s.computePercentOpen(*valvePCOpen, in)
	changed := newPC != *valvePCOpen
	if changed {
		if newPC > *valvePCOpen {
			// Defer reclosing to avoid excessive hunting.
			s.valveTurnup()
			s.cumulativeMovementPC += uint32(newPC - *valvePCOpen)
		} else {
			// Defer reopening to avoid excessive hunting.
			s.valveTurndown()
			s.cumulativeMovementPC += uint32(*valvePCOpen - newPC)
		}
		*valvePCOpen = newPC
	}
	s.valveMoved = changed
}

// CallingForHeat reports whether the given valve position constitutes a
// call for heat to the boiler aggregation logic.
func CallingForHeat(valvePCOpen uint8) bool { return valvePCOpen > 0 }
