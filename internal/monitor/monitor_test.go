package monitor

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	counter := NewCounter("test_counter")

	if counter.Get() != 0 {
		t.Errorf("Expected initial value 0, got %d", counter.Get())
	}

	counter.Inc()
	counter.Add(5)
	if counter.Get() != 6 {
		t.Errorf("Expected value 6, got %d", counter.Get())
	}

	counter.Reset()
	if counter.Get() != 0 {
		t.Errorf("Expected value 0 after Reset(), got %d", counter.Get())
	}

	if counter.Name() != "test_counter" {
		t.Errorf("Expected name 'test_counter', got %s", counter.Name())
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer("test_timer")

	if timer.MinTime() != 0 || timer.AvgTime() != 0 {
		t.Error("Expected zero min and avg before any record")
	}

	timer.Record(100 * time.Millisecond)
	timer.Record(200 * time.Millisecond)
	timer.Record(150 * time.Millisecond)

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"total", timer.TotalTime(), 450 * time.Millisecond},
		{"avg", timer.AvgTime(), 150 * time.Millisecond},
		{"min", timer.MinTime(), 100 * time.Millisecond},
		{"max", timer.MaxTime(), 200 * time.Millisecond},
		{"last", timer.LastTime(), 150 * time.Millisecond},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if timer.Count() != 3 {
		t.Errorf("Expected count 3, got %d", timer.Count())
	}

	timer.Reset()
	if timer.Count() != 0 || timer.MinTime() != 0 {
		t.Error("Expected cleared timer after Reset()")
	}
}

func TestCollectorRecord(t *testing.T) {
	c := New()

	c.Record(OperationList, 100*time.Millisecond, nil)
	c.Record(OperationList, 300*time.Millisecond, errors.New("boom"))
	c.Record(OperationType("unknown"), time.Second, nil)

	list := c.Snapshot().Operation(OperationList)
	if list.Count != 2 || list.SuccessCount != 1 || list.ErrorCount != 1 {
		t.Errorf("unexpected list metrics %+v", list)
	}
	if list.AvgTime() != 200*time.Millisecond {
		t.Errorf("AvgTime() = %v", list.AvgTime())
	}

	if got := c.Snapshot().Operation(OperationSubmit).Count; got != 0 {
		t.Errorf("submit count = %d, want 0", got)
	}

	c.Reset()
	if c.Snapshot().Operation(OperationList).Count != 0 {
		t.Error("Reset() should clear counts")
	}
}

func TestCollectorTrack(t *testing.T) {
	c := New()
	clock := time.Unix(0, 0)
	c.now = func() time.Time {
		clock = clock.Add(50 * time.Millisecond)
		return clock
	}

	wantErr := errors.New("delete failed")
	if err := c.Track(OperationDelete, func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Track() error = %v, want %v", err, wantErr)
	}

	m := c.Snapshot().Operation(OperationDelete)
	if m.ErrorCount != 1 || m.LastTime != 50*time.Millisecond {
		t.Errorf("unexpected delete metrics %+v", m)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector

	called := false
	if err := c.Track(OperationHealth, func() error { called = true; return nil }); err != nil || !called {
		t.Error("nil collector should still run fn")
	}
	c.Record(OperationHealth, time.Second, nil)
	if len(c.Snapshot().Operations) != 0 {
		t.Error("nil collector should report nothing")
	}
}

func TestCollectorConcurrent(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(OperationSubmit, time.Millisecond, nil)
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Operation(OperationSubmit).Count; got != 50 {
		t.Errorf("count = %d, want 50", got)
	}
}

func TestSnapshotSummary(t *testing.T) {
	c := New()
	if c.Snapshot().Summary() != "" {
		t.Error("expected empty summary before any call")
	}

	c.Record(OperationList, 120*time.Millisecond, nil)
	c.Record(OperationSubmit, 2*time.Second, errors.New("x"))

	summary := c.Snapshot().Summary()
	for _, want := range []string{"submit: 0 ok, 1 failed", "list: 1 ok, 0 failed, avg 120ms"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "delete") {
		t.Error("uncalled operations should be omitted")
	}
}
