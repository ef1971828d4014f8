// Package stats derives temperature trend diagnostics for telemetry: how
// fast the room is warming or cooling, fitted over a window of recent
// samples rather than a single noisy delta.
package stats

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Trend fits a linear regression over a rolling window of evenly spaced
// samples.
type Trend struct {
	size   int
	filled int
	x      []float64
	values []float64
}

// NewTrend creates a trend over the given window size (minimum 2).
func NewTrend(size int) *Trend {
	if size < 2 {
		size = 2
	}
	x := make([]float64, size)
	for i := range x {
		x[i] = float64(i)
	}
	return &Trend{
		size:   size,
		x:      x,
		values: make([]float64, size),
	}
}

// Add appends a sample, discarding the oldest once the window is full.
func (t *Trend) Add(value float64) {
	if t.filled < t.size {
		// Backfill so a partial window does not fake a huge slope.
		if t.filled == 0 {
			for i := range t.values {
				t.values[i] = value
			}
		}
		t.filled++
	}
	t.values = append(t.values[1:], value)
}

// Slope returns the fitted change per sample.
func (t *Trend) Slope() float64 {
	_, m := stat.LinearRegression(t.x, t.values, nil, false)
	return m
}

// PerHour converts the per-sample slope to units per hour for a given
// sample interval.
func (t *Trend) PerHour(interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	return t.Slope() * float64(time.Hour) / float64(interval)
}
