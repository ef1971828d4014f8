package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrendSlopeOnRamp(t *testing.T) {
	tr := NewTrend(10)
	for i := 0; i < 10; i++ {
		tr.Add(18.0 + 0.1*float64(i))
	}
	assert.InDelta(t, 0.1, tr.Slope(), 1e-9)
	// 0.1C/min is 6C/hour.
	assert.InDelta(t, 6.0, tr.PerHour(time.Minute), 1e-9)
}

func TestTrendFlatAfterBackfill(t *testing.T) {
	tr := NewTrend(10)
	tr.Add(20.0)
	// A single sample backfills the window: no spurious slope.
	assert.InDelta(t, 0.0, tr.Slope(), 1e-9)
}

func TestWindowMean(t *testing.T) {
	w := NewWindow(4)
	w.Add(1)
	w.Add(2)
	w.Add(3)
	got := w.Add(6)
	assert.InDelta(t, 3.0, got, 1e-9)
	assert.InDelta(t, 3.0, w.Mean(), 1e-9)

	w.Reset()
	assert.InDelta(t, 0.0, w.Mean(), 1e-9)
}
