package radvalve

import "github.com/mikesmitty/toasty-boy/pkg/temp"

// InputState is the immutable-per-tick bundle of everything the control
// algorithm needs beyond its own persistent state. The caller fills it in
// completely, including reference temperature, before each tick; the
// algorithm only ever reads it.
//
// Mode flags must be stable (debounced) values, not raw switch samples:
// in particular bake mode must not toggle as the user cycles through modes
// or the valve will be slammed open spuriously.
type InputState struct {
	// TargetTempC is the desired room temperature in whole degrees.
	TargetTempC int
	// MinPCOpen and MaxPCOpen bound normal valve travel. MaxPCOpen below
	// 100 suits pay-by-volume/district-heat systems.
	MinPCOpen uint8
	MaxPCOpen uint8
	// WidenDeadband relaxes hysteresis and prefers slow movement, eg when
	// the room is dark or during pre-warm.
	WidenDeadband bool
	// Glacial forces minimal 1% slew.
	Glacial bool
	// HasEcoBias prefers energy-saving tie-breaks over comfort.
	HasEcoBias bool
	// InBakeMode forces full open while under target.
	InBakeMode bool
	// FastResponseRequired is set briefly after the user touches the
	// controls so the valve visibly reacts.
	FastResponseRequired bool
	// RefTempC16 is the raw room temperature shifted by the reference
	// offset; set via SetReferenceTemperatures, never directly.
	RefTempC16 temp.C16
}

// NewInputState returns an input state with frost-protection defaults and
// reference temperatures derived from the supplied raw reading.
func NewInputState(realTempC16 temp.C16) *InputState {
	in := &InputState{
		TargetTempC: 12,
		MinPCOpen:   MinReallyOpenPC,
		MaxPCOpen:   100,
	}
	in.SetReferenceTemperatures(realTempC16)
	return in
}

// SetReferenceTemperatures derives the reference temperature from the raw
// room temperature. The rad is nominally off at the top of the target
// degree; shifting the reference by +0.5C moves that point to the middle
// of the degree, which is more intuitive and may save a little energy.
func (in *InputState) SetReferenceTemperatures(currentTempC16 temp.C16) {
	in.RefTempC16 = currentTempC16 + temp.RefOffsetC16
}
