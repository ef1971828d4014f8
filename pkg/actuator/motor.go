package actuator

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Motor drives a simple DC valve head through an H-bridge on two gpio
// pins, one per direction. Position is open-loop: travel is modelled as
// time at constant speed, with full travel taking FullTravel. Calibration
// against end stops is a separate concern.
type Motor struct {
	mu         sync.Mutex
	openPin    gpio.PinOut
	closePin   gpio.PinOut
	fullTravel time.Duration
	pc         uint8
}

// NewMotor looks up the named pins and returns a stopped motor assumed to
// be at the fully-closed end stop.
func NewMotor(openPin, closePin string, fullTravel time.Duration) (*Motor, error) {
	op := gpioreg.ByName(openPin)
	if op == nil {
		return nil, fmt.Errorf("actuator: open pin %q not found", openPin)
	}
	cp := gpioreg.ByName(closePin)
	if cp == nil {
		return nil, fmt.Errorf("actuator: close pin %q not found", closePin)
	}
	if err := op.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("actuator: open pin: %w", err)
	}
	if err := cp.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("actuator: close pin: %w", err)
	}
	return &Motor{
		openPin:    op,
		closePin:   cp,
		fullTravel: fullTravel,
	}, nil
}

// SetPercentOpen runs the motor in the required direction for the time
// the position delta implies. Blocks for the travel duration; the control
// loop calls this at most once per tick and travel is far shorter than a
// tick.
func (m *Motor) SetPercentOpen(pc uint8) error {
	if pc > 100 {
		pc = 100
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if pc == m.pc {
		return nil
	}

	pin := m.openPin
	delta := int(pc) - int(m.pc)
	if delta < 0 {
		pin = m.closePin
		delta = -delta
	}
	run := m.fullTravel * time.Duration(delta) / 100

	slog.Debug("valve travel", "from", m.pc, "to", pc, "run", run, "module", "actuator")
	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("actuator: %w", err)
	}
	time.Sleep(run)
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("actuator: %w", err)
	}
	m.pc = pc
	return nil
}

func (m *Motor) PercentOpen() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pc
}

// Stop forces both directions off.
func (m *Motor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	errO := m.openPin.Out(gpio.Low)
	errC := m.closePin.Out(gpio.Low)
	if errO != nil || errC != nil {
		return fmt.Errorf("actuator: failed to stop motor: %v, %v", errO, errC)
	}
	return nil
}
