package cgroup

import (
	"context"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Interface file names relative to the cgroup base directory.
const (
	MemoryCurrentFile = "memory.current"
	MemoryMaxFile     = "memory.max"
	PidsCurrentFile   = "pids.current"
	PidsMaxFile       = "pids.max"
	CPUStatFile       = "cpu.stat"
	CPUMaxFile        = "cpu.max"
)

// Stats is one parsed reading of the container's cgroup interface files.
type Stats struct {
	MemoryCurrent *uint64
	MemoryMax     *uint64
	PidsCurrent   *uint64
	PidsMax       *uint64
	CPU           CPUStat
	CPUMax        CPUMax
}

// Reader reads cgroup v2 interface files below a base directory.
type Reader struct {
	base     string
	hostCPUs func() int
}

func NewReader(base string) *Reader {
	if base == "" {
		base = DefaultBase
	}
	return &Reader{base: base, hostCPUs: runtime.NumCPU}
}

// Base returns the directory the reader was configured with.
func (r *Reader) Base() string { return r.base }

// Read fetches all interface files concurrently and parses them. It never
// fails: unreadable or malformed files leave their fields nil. A cancelled
// context skips reads not yet started.
func (r *Reader) Read(ctx context.Context) Stats {
	var (
		memCur, memMax, pidsCur, pidsMax, cpuMax string
		cpuStat                                  string
	)

	g, gctx := errgroup.WithContext(ctx)
	firstLine := func(name string, dst *string) {
		g.Go(func() error {
			if gctx.Err() == nil {
				*dst, _ = ReadFirstLine(filepath.Join(r.base, name))
			}
			return nil
		})
	}
	firstLine(MemoryCurrentFile, &memCur)
	firstLine(MemoryMaxFile, &memMax)
	firstLine(PidsCurrentFile, &pidsCur)
	firstLine(PidsMaxFile, &pidsMax)
	firstLine(CPUMaxFile, &cpuMax)
	g.Go(func() error {
		if gctx.Err() == nil {
			cpuStat, _ = ReadWhole(filepath.Join(r.base, CPUStatFile))
		}
		return nil
	})
	_ = g.Wait()

	return Stats{
		MemoryCurrent: ParseCount(memCur),
		MemoryMax:     ParseLimit(memMax),
		PidsCurrent:   ParseCount(pidsCur),
		PidsMax:       ParseLimit(pidsMax),
		CPU:           ParseCPUStat(cpuStat),
		CPUMax:        ParseCPUMax(cpuMax, r.hostCPUs()),
	}
}
