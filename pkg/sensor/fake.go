package sensor

import (
	"context"
	"math"
	"sync"
)

// Fake replays a script of Celsius readings, repeating the final value
// once exhausted. Used by tests and the --sensor=fake dry-run mode.
type Fake struct {
	mu       sync.Mutex
	script   []float64
	i        int
	humidity float64
}

func NewFake(script ...float64) *Fake {
	if len(script) == 0 {
		script = []float64{18.0}
	}
	return &Fake{script: script, humidity: math.NaN()}
}

// SetHumidity gives the fake a humidity channel.
func (f *Fake) SetHumidity(rh float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.humidity = rh
}

func (f *Fake) Sense(_ context.Context) (Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.script[f.i]
	if f.i < len(f.script)-1 {
		f.i++
	}
	return reading(c, f.humidity), nil
}
