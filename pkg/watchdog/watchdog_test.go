package watchdog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiresOnSilence(t *testing.T) {
	fired := make(chan struct{}, 1)
	in := make(chan int)
	go New(10*time.Millisecond, func() error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}, in)()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not fire on a silent input")
	}
}

func TestQuietWhileFed(t *testing.T) {
	fired := make(chan struct{}, 1)
	in := make(chan int, 1)
	go New(50*time.Millisecond, func() error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}, in)()

	deadline := time.After(200 * time.Millisecond)
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			in <- 1
		case <-fired:
			t.Fatal("watchdog fired despite regular input")
		case <-deadline:
			assert.Empty(t, fired)
			return
		}
	}
}
