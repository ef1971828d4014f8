package mode

import (
	"testing"

	"github.com/mikesmitty/toasty-boy/pkg/temp"
	"github.com/stretchr/testify/assert"
)

func TestBakeLatchAndTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BakeDurationTicks = 3
	r := NewResolver(cfg)

	r.StartBake()
	assert.True(t, r.BakeActive())

	in := r.Snapshot(304, false)
	assert.True(t, in.InBakeMode)
	assert.Equal(t, cfg.TargetTempC+cfg.BakeUpliftC, in.TargetTempC)

	in = r.Snapshot(304, false)
	assert.True(t, in.InBakeMode)
	// Third tick exhausts the latch.
	in = r.Snapshot(304, false)
	assert.False(t, in.InBakeMode)
	assert.Equal(t, cfg.TargetTempC, in.TargetTempC)
}

func TestCancelBake(t *testing.T) {
	r := NewResolver(DefaultConfig())
	r.StartBake()
	r.CancelBake()
	assert.False(t, r.BakeActive())
	assert.False(t, r.Snapshot(304, false).InBakeMode)
}

func TestSetTargetLatchesFastResponse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FastResponseTicks = 2
	r := NewResolver(cfg)

	r.SetTarget(21)
	in := r.Snapshot(304, false)
	assert.Equal(t, 21, in.TargetTempC)
	assert.True(t, in.FastResponseRequired)

	in = r.Snapshot(304, false)
	assert.False(t, in.FastResponseRequired)

	// Setting the same target again is not an adjustment.
	r.SetTarget(21)
	assert.False(t, r.Snapshot(304, false).FastResponseRequired)
}

func TestDarknessWidensDeadband(t *testing.T) {
	r := NewResolver(DefaultConfig())
	assert.False(t, r.Snapshot(304, false).WidenDeadband)

	r.SetDark(true)
	assert.True(t, r.Snapshot(304, false).WidenDeadband)

	// Filtering alone also widens.
	r.SetDark(false)
	assert.True(t, r.Snapshot(304, true).WidenDeadband)

	// A fast response cancels the widening while it lasts.
	r.SetDark(true)
	r.SetTarget(22)
	assert.False(t, r.Snapshot(304, false).WidenDeadband)
}

func TestFrostSetback(t *testing.T) {
	cfg := DefaultConfig()
	r := NewResolver(cfg)
	r.SetFrost(true)
	in := r.Snapshot(304, false)
	assert.Equal(t, cfg.FrostTempC, in.TargetTempC)
	r.SetFrost(false)
	assert.Equal(t, cfg.TargetTempC, r.Snapshot(304, false).TargetTempC)
}

func TestSnapshotSetsReferenceTemperature(t *testing.T) {
	r := NewResolver(DefaultConfig())
	in := r.Snapshot(304, false)
	assert.Equal(t, temp.C16(304)+temp.RefOffsetC16, in.RefTempC16)
}
