package sensor

import (
	"context"

	"github.com/mikesmitty/sht4x"
	"periph.io/x/conn/v3/physic"
)

// SHT4x reads a Sensirion SHT4x over i2c: temperature plus humidity.
type SHT4x struct {
	dev *sht4x.Dev
}

func NewSHT4x(dev *sht4x.Dev) *SHT4x {
	return &SHT4x{dev: dev}
}

func (s *SHT4x) Sense(_ context.Context) (Reading, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return fromErr("sht4x", err)
	}
	return reading(e.Temperature.Celsius(), float64(e.Humidity)/float64(physic.PercentRH)), nil
}
