// Package sensor provides the room temperature source for the valve node.
// Hardware backends live behind the Source interface so the control loop
// and tests can run against scripted readings.
package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mikesmitty/toasty-boy/pkg/temp"
)

// Reading is one resolved sample handed to the control loop.
type Reading struct {
	// TempC16 is the raw room temperature in 1/16C, the unit all control
	// decisions are made in.
	TempC16 temp.C16
	// Celsius is the unquantised value for display/telemetry.
	Celsius float64
	// Humidity is %RH, or NaN for backends without a humidity channel.
	Humidity float64
}

// Source produces room readings on demand.
type Source interface {
	Sense(ctx context.Context) (Reading, error)
}

// Channel polls the source at the given interval and delivers readings on
// the returned channel until the context is cancelled.
func Channel(ctx context.Context, src Source, interval time.Duration) (<-chan Reading, func() error) {
	c := make(chan Reading, 1)
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
				r, err := src.Sense(ctx)
				if err != nil {
					return err
				}
				slog.Debug("publishing reading", "temp", r.Celsius, "humidity", r.Humidity, "module", "sensor")
				c <- r
			}
		}
	}
}

func reading(celsius, humidity float64) Reading {
	return Reading{
		TempC16:  temp.FromCelsius(celsius),
		Celsius:  celsius,
		Humidity: humidity,
	}
}

// fromErr keeps backend error wrapping consistent.
func fromErr(backend string, err error) (Reading, error) {
	return Reading{Humidity: math.NaN()}, fmt.Errorf("%s: %w", backend, err)
}
