package radvalve

import "github.com/mikesmitty/toasty-boy/pkg/temp"

// computePercentOpen returns the new required valve position in [0,100]
// given the current position and this tick's input. Pure with respect to
// its arguments and the already-updated history/filter/cooldown state, so
// it is directly unit testable.
//
// The controller is always willing to turn off quickly but opens slowly
// ("slow start"), and works to eliminate hunting, which makes noise and
// burns actuator energy. Three zones by whole degrees: under target, over
// target, and the proportional band at target.
//
// Bake mode is deliberately honoured only when under target or needing to
// open within the band: a room already above target gets no full-open
// boost from bake.
func (s *ControlState) computePercentOpen(valvePCOpen uint8, in *InputState) uint8 {
	// Smoothed temperature while filtering, raw reference otherwise.
	adjustedTempC16 := in.RefTempC16
	if s.isFiltering {
		adjustedTempC16 = s.smoothedRawC16() + temp.RefOffsetC16
	}
	adjustedTempC := adjustedTempC16.Whole()

	if adjustedTempC < in.TargetTempC {
		return s.underTarget(valvePCOpen, in, adjustedTempC)
	}
	if adjustedTempC > in.TargetTempC {
		return s.overTarget(valvePCOpen, in, adjustedTempC)
	}
	return s.atTarget(valvePCOpen, in, adjustedTempC16)
}

// underTarget opens the valve up, slowly unless a fast response is needed.
func (s *ControlState) underTarget(valvePCOpen uint8, in *InputState, adjustedTempC int) uint8 {
	if in.InBakeMode {
		return in.MaxPCOpen
	}

	// Sharp sustained fall in temperature: assume a window or door has
	// been opened to ventilate the room and stop heating the outside
	// world. Eco bias only, and never below the frost floor. A false
	// alarm here delays reheating, so comfort-biased setups skip it.
	if in.HasEcoBias &&
		adjustedTempC > minValveTargetC &&
		s.rawDelta(1) < 0 &&
		s.rawDelta(windowOpenFallTicks) <= -windowOpenFallC16 {
		if !s.dontTurndown() {
			// Far enough down to stop calling for heat immediately.
			if valvePCOpen >= SaferOpenPC {
				return SaferOpenPC - 1
			}
			if valvePCOpen > s.tuning.maxSlew() {
				return valvePCOpen - s.tuning.maxSlew()
			}
			return 0
		}
		// Recently opened; at least avoid opening further.
		return valvePCOpen
	}

	if valvePCOpen >= in.MaxPCOpen {
		return in.MaxPCOpen
	}

	if s.dontTurnup() {
		return valvePCOpen
	}

	// More than a degree below target.
	vBelowTarget := adjustedTempC < in.TargetTempC-1

	// Open glacially when overshoot has happened or is a danger, or when
	// nobody is likely to care about reaching target quickly: already at
	// significant flow, caller has widened the deadband, and either an
	// eco bias without being far below target, or jittery readings that
	// are at least moving the right way.
	beGlacial := in.Glacial ||
		(valvePCOpen >= in.MinPCOpen && in.WidenDeadband && !in.FastResponseRequired &&
			((s.tuning.GlacialOnWideDeadband && in.HasEcoBias && !vBelowTarget) ||
				(s.isFiltering && s.rawDelta(1) > 0)))
	if beGlacial {
		return valvePCOpen + 1
	}

	// Well below target without a wide deadband, or the user has just
	// touched the controls: jump straight to just over moderately open,
	// a mini bake that lets flow start and the boiler fire ASAP. Just
	// over the threshold so rounding in the data path cannot keep the
	// boiler from seeing the trigger.
	cappedModeratelyOpen := minU8(in.MaxPCOpen, minU8(99, ModeratelyOpenPC+s.tuning.fastSlew()))
	if valvePCOpen < cappedModeratelyOpen &&
		(in.FastResponseRequired || (vBelowTarget && !in.WidenDeadband)) {
		return cappedModeratelyOpen
	}

	// Open quickly from cold for acceptable response; less fast once
	// already moderately open or when the deadband has been widened.
	slewRate := s.tuning.veryFastSlew()
	if valvePCOpen > ModeratelyOpenPC || !in.WidenDeadband {
		slewRate = s.tuning.maxSlew()
	}
	minOpenFromCold := maxU8(slewRate, in.MinPCOpen)
	if valvePCOpen < minOpenFromCold {
		return minOpenFromCold
	}
	return minU8(valvePCOpen+slewRate, in.MaxPCOpen)
}

// overTarget shuts the valve down, eagerly by default in eco mode but with
// a slow linger at the bottom of travel to spare systems with poor bypass.
func (s *ControlState) overTarget(valvePCOpen uint8, in *InputState, adjustedTempC int) uint8 {
	if valvePCOpen == 0 {
		return 0
	}

	if s.dontTurndown() {
		return valvePCOpen
	}

	// Just above the proportional range.
	justOverTemp := adjustedTempC == in.TargetTempC+1

	// Error is small and the room is already cooling naturally: leave the
	// valve alone to minimise movement.
	if justOverTemp && in.WidenDeadband && s.rawDelta(1) < 0 {
		return valvePCOpen
	}

	// Jittery readings and barely over: close glacially.
	if justOverTemp && s.isFiltering {
		return valvePCOpen - 1
	}

	// Final part of travel at/below the really-open floor: very slow turn
	// off to help the boiler cool, then the last chunk in one burst to
	// avoid prolonged valve hiss.
	minReallyOpen := in.MinPCOpen
	var lingerThreshold uint8
	if minReallyOpen > 0 {
		lingerThreshold = minReallyOpen - 1
	}
	if valvePCOpen < minReallyOpen {
		if MaxRunOnTicks < minReallyOpen && valvePCOpen < minReallyOpen-MaxRunOnTicks {
			return 0
		}
		return valvePCOpen - 1
	}

	// Comfort bias, a small error, or filtering: close relatively slowly
	// to reduce wasted effort from minor overshoots.
	fast := s.tuning.fastSlew()
	if (!in.HasEcoBias || justOverTemp || s.isFiltering) &&
		!in.FastResponseRequired &&
		valvePCOpen > clampU8(int(lingerThreshold)+int(fast), int(fast), int(in.MaxPCOpen)) {
		return valvePCOpen - fast
	}

	// Otherwise drop to the linger threshold at once, low enough to stop
	// calling for heat immediately.
	return lingerThreshold
}

// atTarget regulates within the proportional band using the sub-degree
// bits of the adjusted temperature: warmer within the degree means a more
// closed valve.
func (s *ControlState) atTarget(valvePCOpen uint8, in *InputState, adjustedTempC16 temp.C16) uint8 {
	lsbits := adjustedTempC16.Frac16()
	// Map to 1 (warmest end of the degree) .. 16 (coolest end).
	tmp := 16 - lsbits
	const ulpStep = 6
	// Nominal range 6..96, constrained below by the likely minimum-open
	// value (lingering open in lieu of a boiler bypass) and above by the
	// allowed maximum.
	targetPO := clampU8(int(tmp)*ulpStep, int(in.MinPCOpen), int(in.MaxPCOpen))

	if targetPO == valvePCOpen {
		return valvePCOpen
	}

	// Minimum movement (deadband) before any adjustment is allowed, so a
	// ~1ulp temperature wobble cannot cause hunting. Never below the step
	// implied by the sensor resolution; widened further on request.
	const realMinUlp = 1 + ulpStep
	minAbsSlew := s.tuning.MinSlewPC
	if in.WidenDeadband {
		minAbsSlew = maxU8(
			minU8(ModeratelyOpenPC/2, maxU8(s.tuning.maxSlew(), 2*s.tuning.MinSlewPC)),
			2+s.tuning.MinSlewPC)
	}
	minAbsSlew = maxU8(realMinUlp, minAbsSlew)

	if targetPO < valvePCOpen {
		// Needs to close somewhat.
		slew := valvePCOpen - targetPO
		if slew < minAbsSlew {
			return valvePCOpen
		}
		if s.dontTurndown() {
			return valvePCOpen
		}
		// The target sits at the top of the proportional range, so
		// nothing inside it needs the temperature forced down; with the
		// raw reading not rising, avoid movement entirely.
		if s.rawDelta(1) <= 0 {
			return valvePCOpen
		}
		beGlacial := in.Glacial ||
			(s.tuning.GlacialOnWideDeadband &&
				(in.WidenDeadband || s.isFiltering) && valvePCOpen <= ModeratelyOpenPC) ||
			lsbits < 8
		if beGlacial {
			return valvePCOpen - 1
		}
		if slew > s.tuning.fastSlew() {
			return valvePCOpen - s.tuning.fastSlew()
		}
		return targetPO
	}

	// Needs to open somewhat.
	if in.InBakeMode {
		return in.MaxPCOpen
	}
	slew := targetPO - valvePCOpen
	if slew < minAbsSlew {
		return valvePCOpen
	}
	if s.dontTurnup() {
		return valvePCOpen
	}
	// Raw temperature already rising: hold and let it come to us.
	if s.rawDelta(1) > 0 {
		return valvePCOpen
	}
	// Near enough to the warm end of the band already.
	holdAt := uint8(12)
	if in.WidenDeadband {
		holdAt = 8
	}
	if lsbits >= holdAt {
		return valvePCOpen
	}
	beGlacial := in.Glacial ||
		(s.tuning.GlacialOnWideDeadband && in.WidenDeadband) ||
		lsbits >= 8 ||
		(lsbits >= 4 && valvePCOpen > ModeratelyOpenPC)
	if beGlacial {
		return valvePCOpen + 1
	}
	// Comfort bias may open faster than the normal cap.
	maxSlew := s.tuning.maxSlew()
	if !in.HasEcoBias {
		maxSlew = s.tuning.fastSlew()
	}
	if slew > maxSlew {
		return valvePCOpen + maxSlew
	}
	return targetPO
}
