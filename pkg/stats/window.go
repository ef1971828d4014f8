package stats

// Window is a fixed-size sliding-window mean, used to smooth the display
// temperature published over telemetry without touching the control
// path's own fixed-point filter.
type Window struct {
	sum    float64
	values []float64
	size   int
}

func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{
		values: make([]float64, size),
		size:   size,
	}
}

// Add pushes a value and returns the current mean.
func (w *Window) Add(value float64) float64 {
	w.sum += value - w.values[0]
	w.values = append(w.values[1:], value)
	return w.sum / float64(w.size)
}

// Mean returns the current mean without adding a sample.
func (w *Window) Mean() float64 {
	return w.sum / float64(w.size)
}

// Reset clears the window.
func (w *Window) Reset() {
	w.sum = 0
	w.values = make([]float64, w.size)
}
