package sensor

import (
	"context"
	"math"

	"github.com/mikesmitty/max31865"
	"periph.io/x/conn/v3/physic"
)

// RTD reads a MAX31865 PT100/PT1000 bridge over spi. No humidity channel.
type RTD struct {
	dev *max31865.Dev
}

func NewRTD(dev *max31865.Dev) *RTD {
	return &RTD{dev: dev}
}

func (r *RTD) Sense(_ context.Context) (Reading, error) {
	var e physic.Env
	if err := r.dev.Sense(&e); err != nil {
		return fromErr("max31865", err)
	}
	return reading(e.Temperature.Celsius(), math.NaN()), nil
}
