package temp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromCelsius(t *testing.T) {
	assert.Equal(t, C16(320), FromCelsius(20.0))
	assert.Equal(t, C16(328), FromCelsius(20.5))
	assert.Equal(t, C16(-80), FromCelsius(-5.0))
	// Rounds to nearest 1/16th.
	assert.Equal(t, C16(321), FromCelsius(20.05))
}

func TestWhole(t *testing.T) {
	assert.Equal(t, 20, C16(320).Whole())
	assert.Equal(t, 20, C16(335).Whole())
	assert.Equal(t, 21, C16(336).Whole())
	// Negative values round toward -inf, not toward zero.
	assert.Equal(t, -1, C16(-1).Whole())
	assert.Equal(t, -5, C16(-80).Whole())
	assert.Equal(t, -6, C16(-81).Whole())
}

func TestFrac16(t *testing.T) {
	assert.Equal(t, uint8(0), C16(320).Frac16())
	assert.Equal(t, uint8(15), C16(335).Frac16())
	assert.Equal(t, uint8(8), C16(328).Frac16())
}

func TestCelsiusRoundTrip(t *testing.T) {
	assert.InDelta(t, 20.5, FromCelsius(20.5).Celsius(), 1e-9)
}
