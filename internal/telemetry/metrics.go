package telemetry

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

type Counter struct {
	val atomic.Int64
}

func (c *Counter) Inc()         { c.val.Add(1) }
func (c *Counter) Add(n int64)  { c.val.Add(n) }
func (c *Counter) Value() int64 { return c.val.Load() }

type Gauge struct {
	val atomic.Int64
}

func (g *Gauge) Set(v int64)  { g.val.Store(v) }
func (g *Gauge) Inc()         { g.val.Add(1) }
func (g *Gauge) Dec()         { g.val.Add(-1) }
func (g *Gauge) Value() int64 { return g.val.Load() }

// LatencyTracker keeps the most recent maxKeep samples.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	maxKeep int
}

func NewLatencyTracker(maxKeep int) *LatencyTracker {
	return &LatencyTracker{maxKeep: maxKeep}
}

func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.samples = append(lt.samples, d)
	if len(lt.samples) > lt.maxKeep {
		lt.samples = lt.samples[len(lt.samples)-lt.maxKeep:]
	}
}

func (lt *LatencyTracker) P50() time.Duration { return lt.percentile(0.50) }
func (lt *LatencyTracker) P99() time.Duration { return lt.percentile(0.99) }

func (lt *LatencyTracker) Count() int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return len(lt.samples)
}

func (lt *LatencyTracker) percentile(p float64) time.Duration {
	lt.mu.Lock()
	sorted := slices.Clone(lt.samples)
	lt.mu.Unlock()
	if len(sorted) == 0 {
		return 0
	}
	slices.Sort(sorted)
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// Metrics is the global metrics registry.
var Metrics = struct {
	APIRequests   Counter
	APIErrors     Counter
	PlaysFetched  Counter
	RowsPrepared  Counter
	RowsDropped   Counter
	FitsCompleted Counter
	FitsFailed    Counter
	ActiveFits    Gauge
	APILatency    *LatencyTracker
	FitLatency    *LatencyTracker
}{
	APILatency: NewLatencyTracker(1000),
	FitLatency: NewLatencyTracker(100),
}

// Summary renders the registry on one line for end-of-run logging.
func Summary() string {
	m := &Metrics
	return fmt.Sprintf("api=%s (errors=%d, p50=%s)  plays=%s  rows=%s (dropped=%s)  fits=%d (failed=%d, p50=%s)",
		humanize.Comma(m.APIRequests.Value()),
		m.APIErrors.Value(),
		m.APILatency.P50(),
		humanize.Comma(m.PlaysFetched.Value()),
		humanize.Comma(m.RowsPrepared.Value()),
		humanize.Comma(m.RowsDropped.Value()),
		m.FitsCompleted.Value(),
		m.FitsFailed.Value(),
		m.FitLatency.P50(),
	)
}
