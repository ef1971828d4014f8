package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectorHysteresis(t *testing.T) {
	d := NewDetector(50, 100, 3)

	// Needs three consecutive dark samples.
	assert.False(t, d.Sample(10))
	assert.False(t, d.Sample(10))
	assert.True(t, d.Sample(10))

	// Levels between the thresholds change nothing.
	assert.True(t, d.Sample(75))
	assert.True(t, d.Sample(75))

	// A single bright sample does not clear darkness...
	assert.True(t, d.Sample(200))
	// ...and an interruption resets the count.
	assert.True(t, d.Sample(75))
	assert.True(t, d.Sample(200))
	assert.True(t, d.Sample(200))
	assert.False(t, d.Sample(200))
}

func TestDetectorInterruptedOnset(t *testing.T) {
	d := NewDetector(50, 100, 2)
	assert.False(t, d.Sample(10))
	// Bright sample resets the pending dark count.
	assert.False(t, d.Sample(150))
	assert.False(t, d.Sample(10))
	assert.True(t, d.Sample(10))
}
