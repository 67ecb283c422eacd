package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yildizm/LogTrack/internal/logger"
)

// DefaultInterval is the fixed refresh cadence
const DefaultInterval = 3000 * time.Millisecond

// Poller refreshes a Store on a fixed interval. Each tick starts its own
// fetch without waiting for the previous one; a slow fetch can overlap the
// next tick and whichever result lands last wins.
type Poller struct {
	store    *Store
	interval time.Duration
	onUpdate func(View)
	log      *logger.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	inflight sync.WaitGroup
}

// PollerOption customizes a Poller
type PollerOption func(*Poller)

// WithInterval overrides the refresh cadence
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithOnUpdate registers a callback run after every applied refresh,
// successful or not
func WithOnUpdate(fn func(View)) PollerOption {
	return func(p *Poller) { p.onUpdate = fn }
}

// WithLogger attaches a logger
func WithLogger(l *logger.Logger) PollerOption {
	return func(p *Poller) { p.log = l }
}

// NewPoller creates a stopped poller for store
func NewPoller(store *Store, opts ...PollerOption) *Poller {
	p := &Poller{
		store:    store,
		interval: DefaultInterval,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the refresh cadence
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start fetches once immediately and then on every tick until Stop is
// called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return errors.New("poller already started")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	// fetches outlive the loop: teardown stops the ticker, not requests
	fetchCtx := context.WithoutCancel(ctx)

	go p.loop(loopCtx, fetchCtx, p.done)
	p.log.Debug("poller started", logger.F("interval", p.interval))
	return nil
}

// Stop halts the ticker and closes the store. Fetches already in flight
// are left to finish; their results are discarded.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.store.Close()
	p.log.Debug("poller stopped")
}

// Wait blocks until every fetch issued so far has returned
func (p *Poller) Wait() {
	p.inflight.Wait()
}

func (p *Poller) loop(ctx, fetchCtx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fire(fetchCtx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fire(fetchCtx)
		}
	}
}

func (p *Poller) fire(ctx context.Context) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()

		start := time.Now()
		records, err := p.store.Refresh(ctx)
		if errors.Is(err, ErrClosed) {
			p.log.Debug("discarding result for closed view")
			return
		}
		if err != nil {
			p.log.Debug("poll failed", logger.Duration(time.Since(start)), logger.Err(err))
		} else {
			p.log.Debug("poll applied", logger.Count(len(records)), logger.Duration(time.Since(start)))
		}

		if p.onUpdate != nil {
			p.onUpdate(p.store.Snapshot())
		}
	}()
}
