package history

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yildizm/LogTrack/internal/upload"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewPoller(NewStore(&fakeAPI{}, nil))
	if p.Interval() != 3000*time.Millisecond {
		t.Errorf("Interval() = %v", p.Interval())
	}
}

func TestPollerRefreshesOnSchedule(t *testing.T) {
	api := &fakeAPI{lists: [][]upload.Record{{{ID: "1"}}}}
	store := NewStore(api, nil)

	var updates atomic.Int32
	p := NewPoller(store, WithInterval(20*time.Millisecond), WithOnUpdate(func(View) {
		updates.Add(1)
	}))

	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Stop()

	// the first fetch is immediate
	waitFor(t, time.Second, func() bool { return api.calls() >= 1 })
	waitFor(t, time.Second, func() bool { return api.calls() >= 3 })
	waitFor(t, time.Second, func() bool { return updates.Load() >= 3 })

	if err := p.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}
}

func TestPollerContinuesAfterFailure(t *testing.T) {
	api := &fakeAPI{
		lists: [][]upload.Record{{{ID: "1"}, {ID: "2"}}},
	}
	store := NewStore(api, nil)
	if _, err := store.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	api.mu.Lock()
	api.listErr = errors.New("network down")
	api.mu.Unlock()

	p := NewPoller(store, WithInterval(15*time.Millisecond))
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Stop()

	start := api.calls()
	waitFor(t, time.Second, func() bool { return api.calls() >= start+3 })

	v := store.Snapshot()
	if len(v.Records) != 2 {
		t.Errorf("failed polls dropped records: %+v", v.Records)
	}
	if v.Err != "network down" {
		t.Errorf("Err = %q", v.Err)
	}
}

func TestPollerTicksOverlapSlowFetches(t *testing.T) {
	api := &fakeAPI{
		lists: [][]upload.Record{{{ID: "1"}}},
		block: make(chan struct{}),
	}
	store := NewStore(api, nil)
	p := NewPoller(store, WithInterval(10*time.Millisecond))

	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	// no fetch has returned, yet later ticks keep issuing new ones
	waitFor(t, time.Second, func() bool { return api.calls() >= 3 })

	p.Stop()
	close(api.block)
	p.Wait()

	if v := store.Snapshot(); v.Loaded {
		t.Error("results arriving after Stop must be discarded")
	}
}

func TestPollerStopHaltsTicks(t *testing.T) {
	api := &fakeAPI{}
	p := NewPoller(NewStore(api, nil), WithInterval(10*time.Millisecond))

	p.Stop() // stopping a poller that never started is a no-op

	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, time.Second, func() bool { return api.calls() >= 2 })
	p.Stop()
	p.Wait()

	after := api.calls()
	time.Sleep(50 * time.Millisecond)
	if api.calls() != after {
		t.Errorf("poller kept fetching after Stop: %d -> %d", after, api.calls())
	}
}
