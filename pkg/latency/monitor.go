// Package latency measures how late the Go scheduler runs timer-driven work.
//
// A probe goroutine arms a timer every resolution and records the gap
// between the expected and the observed wake-up into an HDR histogram. The
// delay grows when the process is CPU starved, throttled by its cgroup, or
// stalled in GC, which makes it a cheap responsiveness signal.
package latency

import (
	"context"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/ja7ad/cgsampler/pkg/system/util"
)

// DefaultResolution is the probe period.
const DefaultResolution = 20 * time.Millisecond

const (
	lowestDelay  = 1                  // ns
	highestDelay = int64(time.Minute) // ns; larger delays are clamped
	sigFigs      = 3
)

// Percentiles is one window of scheduling delay, in milliseconds.
type Percentiles struct {
	P50Ms float64
	P95Ms float64
	MaxMs float64
}

type Monitor struct {
	resolution time.Duration

	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// NewMonitor returns a monitor probing at resolution, or at
// DefaultResolution when resolution <= 0.
func NewMonitor(resolution time.Duration) *Monitor {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &Monitor{
		resolution: resolution,
		hist:       hdrhistogram.New(lowestDelay, highestDelay, sigFigs),
	}
}

// Run probes until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	t := time.NewTimer(m.resolution)
	defer t.Stop()

	armed := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.Record(now.Sub(armed) - m.resolution)
			armed = time.Now()
			t.Reset(m.resolution)
		}
	}
}

// Record adds one observed delay. Negative delays count as the minimum.
func (m *Monitor) Record(d time.Duration) {
	v := int64(d)
	switch {
	case v < lowestDelay:
		v = lowestDelay
	case v > highestDelay:
		v = highestDelay
	}

	m.mu.Lock()
	_ = m.hist.RecordValue(v)
	m.mu.Unlock()
}

// Snapshot returns the percentiles recorded since the previous Snapshot and
// starts a fresh window.
func (m *Monitor) Snapshot() Percentiles {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hist.TotalCount() == 0 {
		return Percentiles{}
	}
	p := Percentiles{
		P50Ms: util.NsToMs(float64(m.hist.ValueAtQuantile(50))),
		P95Ms: util.NsToMs(float64(m.hist.ValueAtQuantile(95))),
		MaxMs: util.NsToMs(float64(m.hist.Max())),
	}
	m.hist.Reset()
	return p
}
