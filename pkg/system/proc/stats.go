package proc

import (
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shirou/gopsutil/process"
)

// Stats is the process-level half of a metric record.
type Stats struct {
	RSS        *uint64  // resident set size, bytes
	CPUSeconds *float64 // user+system CPU time consumed by the process
	HeapUsed   uint64   // bytes of allocated heap objects
	HeapTotal  uint64   // bytes of heap memory obtained from the OS
	External   uint64   // runtime memory outside the heap (stacks, GC metadata, ...)
	HeapLimit  *uint64  // Go soft memory limit; nil when unlimited
	Goroutines int
	NumGC      uint32
}

// Sampler gathers Stats for one process. /proc is read directly when it is
// available; other platforms go through gopsutil.
type Sampler struct {
	pid int

	once     sync.Once
	fallback *process.Process
}

// NewSampler samples the calling process.
func NewSampler() *Sampler { return &Sampler{pid: os.Getpid()} }

func (s *Sampler) Sample() Stats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	st := Stats{
		RSS:        s.rss(),
		CPUSeconds: s.cpuSeconds(),
		HeapUsed:   ms.HeapAlloc,
		HeapTotal:  ms.HeapSys,
		Goroutines: runtime.NumGoroutine(),
		NumGC:      ms.NumGC,
	}
	if ms.Sys > ms.HeapSys {
		st.External = ms.Sys - ms.HeapSys
	}
	// SetMemoryLimit with a negative value only reports the current limit.
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		v := uint64(limit)
		st.HeapLimit = &v
	}
	return st
}

func (s *Sampler) rss() *uint64 {
	if v, err := ReadProcRSS(s.pid); err == nil {
		return &v
	}
	p := s.portable()
	if p == nil {
		return nil
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		return nil
	}
	return &mi.RSS
}

func (s *Sampler) cpuSeconds() *float64 {
	if j, err := ReadProcCPUTime(s.pid); err == nil {
		v := float64(j) / float64(ClockTicks())
		return &v
	}
	p := s.portable()
	if p == nil {
		return nil
	}
	t, err := p.Times()
	if err != nil {
		return nil
	}
	v := t.User + t.System
	return &v
}

func (s *Sampler) portable() *process.Process {
	s.once.Do(func() {
		if p, err := process.NewProcess(int32(s.pid)); err == nil {
			s.fallback = p
		}
	})
	return s.fallback
}
