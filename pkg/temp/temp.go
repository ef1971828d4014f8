// Package temp provides the fixed-point temperature representation used
// throughout the control core. All control arithmetic is done on scaled
// integers so results are reproducible bit-for-bit across platforms.
package temp

import "math"

// C16 is a signed temperature in 1/16ths of a degree Celsius.
type C16 int

// RefOffsetC16 is the offset from raw temperature to reference temperature.
// Shifting the reference by +0.5C centres the proportional band on the
// middle of the target degree instead of its top edge.
const RefOffsetC16 C16 = 8

// FromCelsius converts a float Celsius reading (eg from a sensor driver)
// to the nearest C16 value.
func FromCelsius(c float64) C16 {
	return C16(math.Round(c * 16))
}

// Celsius converts back to float degrees for display/telemetry only.
func (t C16) Celsius() float64 {
	return float64(t) / 16
}

// Whole returns the whole-degree part. Arithmetic shift so negative
// temperatures round toward -inf, matching the control comparisons.
func (t C16) Whole() int {
	return int(t >> 4)
}

// Frac16 returns the sub-degree 1/16th bits, in [0,15].
func (t C16) Frac16() uint8 {
	return uint8(t & 0xf)
}
