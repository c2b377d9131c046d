package client

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Poller_ticksUntilStopped(t *testing.T) {
	var ticks atomic.Int64
	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, nopLogger{})

	p.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	p.Stop()

	got := ticks.Load()
	assert.GreaterOrEqual(t, got, int64(3))

	// no further ticks after Stop
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, got, ticks.Load())
}

func Test_Poller_firstTickWaitsOneInterval(t *testing.T) {
	var ticks atomic.Int64
	p := NewPoller(50*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, nopLogger{})

	p.Start(context.Background())
	defer p.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), ticks.Load())
}

func Test_Poller_tickErrorsAreSwallowed(t *testing.T) {
	var ticks atomic.Int64
	logger := &recordLogger{}
	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return errors.New("backend down")
	}, logger)

	p.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	p.Stop()

	assert.GreaterOrEqual(t, ticks.Load(), int64(2), "a failing tick must not stop the poller")
	assert.NotEmpty(t, logger.warnings)
}

func Test_Poller_StartWhileRunningIsNoop(t *testing.T) {
	var ticks atomic.Int64
	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, nopLogger{})

	p.Start(context.Background())
	p.Start(context.Background())
	time.Sleep(25 * time.Millisecond)
	p.Stop()

	assert.Less(t, ticks.Load(), int64(5), "double Start must not double the cadence")
}

// Stop racing the freshly spawned goroutine must stay deterministic: an
// immediate teardown after Start must never panic, however the scheduler
// interleaves them.
func Test_Poller_immediateStopAfterStart(t *testing.T) {
	p := NewPoller(time.Hour, func(context.Context) error { return nil }, nopLogger{})
	for i := 0; i < 1000; i++ {
		p.Start(context.Background())
		p.Stop()
	}
}

func Test_Poller_StopIsIdempotent(t *testing.T) {
	p := NewPoller(10*time.Millisecond, func(context.Context) error { return nil }, nopLogger{})
	p.Start(context.Background())
	p.Stop()
	p.Stop() // must not panic or hang

	// restartable after Stop
	p.Start(context.Background())
	p.Stop()
}

func Test_Poller_parentContextCancelStops(t *testing.T) {
	var ticks atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, nopLogger{})

	p.Start(ctx)
	cancel()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int64(0), ticks.Load())
	p.Stop()
}
