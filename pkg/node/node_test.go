package node

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mikesmitty/toasty-boy/pkg/actuator"
	"github.com/mikesmitty/toasty-boy/pkg/mode"
	"github.com/mikesmitty/toasty-boy/pkg/radvalve"
	"github.com/mikesmitty/toasty-boy/pkg/sensor"
	"github.com/mikesmitty/toasty-boy/pkg/temp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAggregator struct {
	mu  sync.Mutex
	ids []uint16
	pcs []uint8
}

func (a *recordingAggregator) ReceiveSignal(id uint16, percentOpen uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = append(a.ids, id)
	a.pcs = append(a.pcs, percentOpen)
}

func (a *recordingAggregator) signals() ([]uint16, []uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]uint16, len(a.ids))
	copy(ids, a.ids)
	pcs := make([]uint8, len(a.pcs))
	copy(pcs, a.pcs)
	return ids, pcs
}

func TestControlLoopDrivesValveFromReadings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readings := make(chan sensor.Reading, 1)
	statusCh := make(chan radvalve.Status, 16)
	drv := actuator.NewFake()
	agg := &recordingAggregator{}
	res := mode.NewResolver(mode.DefaultConfig())
	state := radvalve.NewControlState(radvalve.DefaultTuning())

	fn := controlLoop(ctx, 2*time.Millisecond, readings, res, state, drv, agg, 7, statusCh)
	done := make(chan error, 1)
	go func() { done <- fn() }()

	// Cold room, default 19C target: the valve should open and call for
	// heat within a few ticks.
	readings <- sensor.Reading{TempC16: temp.FromCelsius(15.0), Celsius: 15.0}

	var last radvalve.Status
	for i := 0; i < 5; i++ {
		select {
		case last = <-statusCh:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for control tick status")
		}
	}
	cancel()
	require.NoError(t, <-done)

	assert.True(t, last.CallingForHeat)
	assert.Greater(t, last.PercentOpen, uint8(0))
	assert.LessOrEqual(t, last.PercentOpen, uint8(100))
	assert.Equal(t, last.PercentOpen, drv.PercentOpen())
	assert.NotEmpty(t, drv.History())

	ids, pcs := agg.signals()
	require.GreaterOrEqual(t, len(ids), 5)
	for _, id := range ids {
		assert.Equal(t, uint16(7), id)
	}
	assert.Equal(t, last.PercentOpen, pcs[len(pcs)-1])
}

func TestControlLoopSkipsTicksWithoutReadings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readings := make(chan sensor.Reading)
	statusCh := make(chan radvalve.Status, 16)
	drv := actuator.NewFake()
	agg := &recordingAggregator{}
	res := mode.NewResolver(mode.DefaultConfig())
	state := radvalve.NewControlState(radvalve.DefaultTuning())

	fn := controlLoop(ctx, time.Millisecond, readings, res, state, drv, agg, 1, statusCh)
	done := make(chan error, 1)
	go func() { done <- fn() }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Empty(t, drv.History())
	ids, _ := agg.signals()
	assert.Empty(t, ids)
	select {
	case st := <-statusCh:
		t.Fatalf("unexpected status before first reading: %+v", st)
	default:
	}
}
