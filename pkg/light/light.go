// Package light watches ambient light and derives a debounced darkness
// flag. A dark room is taken as low-urgency: the control loop widens its
// deadband so the valve moves less and makes less noise.
package light

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tsl2591 "github.com/JenswBE/golang-tsl2591"
)

// Source yields an infrared light level; implemented by the TSL2591
// driver and by fakes in tests.
type Source interface {
	Infrared() (uint32, error)
}

// TSL adapts the tsl2591 driver to Source.
type TSL struct {
	dev *tsl2591.TSL2591
}

func NewTSL(dev *tsl2591.TSL2591) *TSL {
	return &TSL{dev: dev}
}

func (t *TSL) Infrared() (uint32, error) {
	ir, err := t.dev.Infrared()
	return uint32(ir), err
}

// Channel polls the source at the given interval and delivers raw IR
// levels until the context is cancelled.
func Channel(ctx context.Context, src Source, interval time.Duration) (<-chan uint64, func() error) {
	c := make(chan uint64, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	return c, func() error {
		defer cancelFunc()
		done := ctx.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				ir, err := src.Infrared()
				if err != nil {
					return fmt.Errorf("tsl2591: %w", err)
				}
				slog.Debug("publishing reading", "ir", ir, "module", "light")
				c <- uint64(ir)
			}
		}
	}
}

// Detector converts light levels into a sticky darkness flag. Separate
// on/off thresholds plus a sample count give hysteresis so a passing
// shadow or headlight sweep cannot toggle the room state.
type Detector struct {
	darkBelow   uint64
	lightAbove  uint64
	holdSamples int
	count       int
	dark        bool
}

// NewDetector builds a detector; lightAbove must exceed darkBelow.
func NewDetector(darkBelow, lightAbove uint64, holdSamples int) *Detector {
	if holdSamples < 1 {
		holdSamples = 1
	}
	return &Detector{
		darkBelow:   darkBelow,
		lightAbove:  lightAbove,
		holdSamples: holdSamples,
	}
}

// Sample feeds one light level and returns the current darkness state.
func (d *Detector) Sample(ir uint64) bool {
	switch {
	case !d.dark && ir < d.darkBelow:
		d.count++
		if d.count >= d.holdSamples {
			d.dark = true
			d.count = 0
		}
	case d.dark && ir > d.lightAbove:
		d.count++
		if d.count >= d.holdSamples {
			d.dark = false
			d.count = 0
		}
	default:
		d.count = 0
	}
	return d.dark
}

// Dark reports the current state without feeding a sample.
func (d *Detector) Dark() bool { return d.dark }
