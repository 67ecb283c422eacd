// Package monitor keeps per-operation call statistics for the service client.
package monitor

import (
	"fmt"
	"strings"
	"time"
)

type operationStats struct {
	timer    *Timer
	failures *Counter
}

// Collector records the duration and outcome of service calls. The zero
// value is not usable; create one with New. All methods are safe for
// concurrent use, and a nil *Collector ignores every call.
type Collector struct {
	ops map[OperationType]*operationStats
	now func() time.Time
}

// New creates a collector tracking every known operation
func New() *Collector {
	c := &Collector{
		ops: make(map[OperationType]*operationStats, len(Operations)),
		now: time.Now,
	}
	for _, op := range Operations {
		c.ops[op] = &operationStats{
			timer:    NewTimer(string(op)),
			failures: NewCounter(string(op) + ".errors"),
		}
	}
	return c
}

// Record adds one finished call
func (c *Collector) Record(op OperationType, duration time.Duration, err error) {
	if c == nil {
		return
	}
	stats, ok := c.ops[op]
	if !ok {
		return
	}
	stats.timer.Record(duration)
	if err != nil {
		stats.failures.Inc()
	}
}

// Track runs fn and records its duration and outcome
func (c *Collector) Track(op OperationType, fn func() error) error {
	if c == nil {
		return fn()
	}
	start := c.now()
	err := fn()
	c.Record(op, c.now().Sub(start), err)
	return err
}

// Snapshot returns the current metrics in Operations order
func (c *Collector) Snapshot() Snapshot {
	snapshot := Snapshot{Timestamp: time.Now()}
	if c == nil {
		return snapshot
	}

	for _, op := range Operations {
		stats := c.ops[op]
		count := stats.timer.Count()
		failures := stats.failures.Get()
		snapshot.Operations = append(snapshot.Operations, OperationMetrics{
			Operation:    op,
			Count:        count,
			SuccessCount: count - failures,
			ErrorCount:   failures,
			TotalTime:    stats.timer.TotalTime(),
			MinTime:      stats.timer.MinTime(),
			MaxTime:      stats.timer.MaxTime(),
			LastTime:     stats.timer.LastTime(),
		})
	}
	return snapshot
}

// Reset clears all recorded calls
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	for _, stats := range c.ops {
		stats.timer.Reset()
		stats.failures.Reset()
	}
}

// Summary renders one line per operation that has been called, e.g.
// "list: 12 ok, 1 failed, avg 120ms, max 340ms"
func (s Snapshot) Summary() string {
	var lines []string
	for _, m := range s.Operations {
		if m.Count == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d ok, %d failed, avg %s, max %s",
			m.Operation, m.SuccessCount, m.ErrorCount,
			m.AvgTime().Round(time.Millisecond), m.MaxTime.Round(time.Millisecond)))
	}
	return strings.Join(lines, "\n")
}
