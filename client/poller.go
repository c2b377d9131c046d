package client

import (
	"context"
	"sync"
	"time"

	"github.com/edulearn/academy-go/core"
)

// Poller re-runs one fetch on a fixed cadence, the way dashboard views
// refresh themselves. A failed tick is logged and swallowed, never fatal;
// ticks do not overlap; Stop tears the poller down deterministically so a
// disposed view cannot keep a timer alive.
type Poller struct {
	interval time.Duration
	fn       func(context.Context) error
	logger   core.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(interval time.Duration, fn func(context.Context) error, logger core.Logger) *Poller {
	return &Poller{interval: interval, fn: fn, logger: logger}
}

// Start begins ticking. The first invocation happens after one full
// interval: the view's initial load is its own, spinner-bearing fetch.
// Start is a no-op while already running.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	// run gets its own copy of the channel: Stop nils the field before the
	// goroutine necessarily reaches its defer
	go p.run(ctx, done)
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.fn(ctx); err != nil && ctx.Err() == nil {
				if p.logger != nil {
					p.logger.Warn("poll tick failed", err)
				}
			}
		}
	}
}

// Stop cancels the poller and waits for any in-flight tick to finish.
// Safe to call repeatedly.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
