package latency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_SnapshotEmpty(t *testing.T) {
	m := NewMonitor(0)
	assert.Equal(t, DefaultResolution, m.resolution)
	assert.Equal(t, Percentiles{}, m.Snapshot())
}

func TestMonitor_Percentiles(t *testing.T) {
	m := NewMonitor(time.Millisecond)

	// 100 samples: 1ms..100ms
	for i := 1; i <= 100; i++ {
		m.Record(time.Duration(i) * time.Millisecond)
	}
	p := m.Snapshot()

	// HDR buckets at 3 significant figures are within 0.1%
	assert.InDelta(t, 50.0, p.P50Ms, 0.1)
	assert.InDelta(t, 95.0, p.P95Ms, 0.1)
	assert.InDelta(t, 100.0, p.MaxMs, 0.1)
}

func TestMonitor_SnapshotResetsWindow(t *testing.T) {
	m := NewMonitor(time.Millisecond)
	m.Record(40 * time.Millisecond)
	first := m.Snapshot()
	assert.InDelta(t, 40.0, first.MaxMs, 0.05)

	// nothing recorded since the last read
	assert.Equal(t, Percentiles{}, m.Snapshot())

	m.Record(2 * time.Millisecond)
	second := m.Snapshot()
	assert.InDelta(t, 2.0, second.MaxMs, 0.01, "max must not carry over from the previous window")
}

func TestMonitor_RecordClampsRange(t *testing.T) {
	m := NewMonitor(time.Millisecond)
	m.Record(-5 * time.Millisecond)
	m.Record(2 * time.Hour)
	p := m.Snapshot()

	assert.Equal(t, 0.0, p.P50Ms)
	assert.InDelta(t, float64(time.Minute/time.Millisecond), p.MaxMs, 60)
}

func TestMonitor_RunRecordsProbes(t *testing.T) {
	m := NewMonitor(2 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.hist.TotalCount() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done

	p := m.Snapshot()
	assert.GreaterOrEqual(t, p.MaxMs, p.P95Ms)
	assert.GreaterOrEqual(t, p.P95Ms, p.P50Ms)
}
