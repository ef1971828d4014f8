package sensor

import (
	"context"
	"math"
	"testing"

	"github.com/mikesmitty/toasty-boy/pkg/temp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeReplaysScript(t *testing.T) {
	f := NewFake(18.0, 18.5, 19.0)
	ctx := context.Background()

	r, err := f.Sense(ctx)
	require.NoError(t, err)
	assert.Equal(t, temp.C16(288), r.TempC16)
	assert.True(t, math.IsNaN(r.Humidity))

	r, _ = f.Sense(ctx)
	assert.Equal(t, temp.C16(296), r.TempC16)

	// Final value repeats once the script runs out.
	f.Sense(ctx)
	r, _ = f.Sense(ctx)
	assert.Equal(t, temp.C16(304), r.TempC16)
	assert.InDelta(t, 19.0, r.Celsius, 1e-9)
}

func TestFakeHumidity(t *testing.T) {
	f := NewFake(20.0)
	f.SetHumidity(55)
	r, err := f.Sense(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 55.0, r.Humidity)
}
