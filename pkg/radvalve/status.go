package radvalve

import "github.com/mikesmitty/toasty-boy/pkg/temp"

// Status is a snapshot of the controller after a tick, for telemetry and
// the boiler call-for-heat consumer.
type Status struct {
	PercentOpen          uint8
	TargetTempC          int
	RawTempC16           temp.C16
	SmoothedTempC16      temp.C16
	Filtering            bool
	CallingForHeat       bool
	ValveMoved           bool
	CumulativeMovementPC uint32
}

// StatusAfterTick assembles a Status from the committed valve position
// and this tick's input.
func (s *ControlState) StatusAfterTick(valvePCOpen uint8, in *InputState) Status {
	return Status{
		PercentOpen:          valvePCOpen,
		TargetTempC:          in.TargetTempC,
		RawTempC16:           in.RefTempC16 - temp.RefOffsetC16,
		SmoothedTempC16:      s.smoothedRawC16(),
		Filtering:            s.isFiltering,
		CallingForHeat:       CallingForHeat(valvePCOpen),
		ValveMoved:           s.valveMoved,
		CumulativeMovementPC: s.cumulativeMovementPC,
	}
}
