package radvalve

import (
	"testing"

	"github.com/mikesmitty/toasty-boy/pkg/temp"
	"github.com/stretchr/testify/assert"
)

// steadyState returns an initialised controller whose history is filled
// with a single settled reading, so no filtering is engaged.
func steadyState(tn Tuning, raw temp.C16) *ControlState {
	s := NewControlState(tn)
	for i := range s.prevRawTempC16 {
		s.prevRawTempC16[i] = raw
	}
	s.initialised = true
	return s
}

func TestPushLazyFill(t *testing.T) {
	s := NewControlState(DefaultTuning())
	s.push(240)
	assert.True(t, s.initialised)
	for _, v := range s.prevRawTempC16 {
		assert.Equal(t, temp.C16(240), v)
	}
	// Subsequent pushes shift most-recent-first.
	s.push(242)
	s.push(244)
	assert.Equal(t, [filterLength]temp.C16{244, 242, 240, 240}, s.prevRawTempC16)
}

func TestSmoothedMeanRoundsHalfUp(t *testing.T) {
	s := steadyState(DefaultTuning(), 0)
	s.prevRawTempC16 = [filterLength]temp.C16{1, 2, 2, 2}
	assert.Equal(t, temp.C16(2), s.smoothedRawC16())
	// Exact .5 rounds up.
	s.prevRawTempC16 = [filterLength]temp.C16{1, 1, 2, 2}
	assert.Equal(t, temp.C16(2), s.smoothedRawC16())
	s.prevRawTempC16 = [filterLength]temp.C16{300, 300, 300, 300}
	assert.Equal(t, temp.C16(300), s.smoothedRawC16())
}

func TestRawDeltaClampsToOldestSample(t *testing.T) {
	s := steadyState(DefaultTuning(), 0)
	s.prevRawTempC16 = [filterLength]temp.C16{280, 286, 292, 304}
	assert.Equal(t, temp.C16(-6), s.rawDelta(1))
	assert.Equal(t, temp.C16(-24), s.rawDelta(3))
	// Lookbacks beyond the history use the oldest retained sample.
	assert.Equal(t, temp.C16(-24), s.rawDelta(windowOpenFallTicks))
}

func TestFilterHysteresis(t *testing.T) {
	s := steadyState(DefaultTuning(), 300)
	s.updateFilter()
	assert.False(t, s.isFiltering)

	// A jump larger than the threshold engages filtering immediately.
	s.push(310)
	s.updateFilter()
	assert.True(t, s.isFiltering)

	// Newest still far from the mean: stays on.
	s.push(310)
	s.updateFilter()
	assert.True(t, s.isFiltering)

	// Newest within threshold of the mean, but the old jump is still in
	// the history, so filtering re-engages: sticky until fully settled.
	s.push(310)
	s.updateFilter()
	assert.True(t, s.isFiltering)

	// Jump has aged out entirely: filtering disengages.
	s.push(310)
	s.updateFilter()
	assert.False(t, s.isFiltering)
}
