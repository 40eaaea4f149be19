package metrics

import (
	"time"

	"github.com/ja7ad/cgsampler/pkg/latency"
	"github.com/ja7ad/cgsampler/pkg/system/cgroup"
	"github.com/ja7ad/cgsampler/pkg/system/proc"
)

// Assemble merges one tick's readings into a Record. It performs no
// validation; nil inputs stay nil.
func Assemble(at time.Time, p proc.Stats, lat latency.Percentiles, cg cgroup.Stats, cpuPct *float64) Record {
	return Record{
		TS: at.UTC().Format(TimeFormat),
		Container: ContainerBlock{
			MemCurrent:        cg.MemoryCurrent,
			MemMax:            cg.MemoryMax,
			CPUPct:            cpuPct,
			CPUUsageUsec:      cg.CPU.UsageUsec,
			CPUThrottledUsec:  cg.CPU.ThrottledUsec,
			CPUEffectiveCores: cg.CPUMax.EffectiveCores,
			PidsCurrent:       cg.PidsCurrent,
			PidsMax:           cg.PidsMax,
		},
		Process: ProcessBlock{
			RSS:        p.RSS,
			HeapUsed:   p.HeapUsed,
			HeapTotal:  p.HeapTotal,
			External:   p.External,
			HeapLimit:  p.HeapLimit,
			CPUSeconds: p.CPUSeconds,
			Goroutines: p.Goroutines,
			NumGC:      p.NumGC,
			SchedP50Ms: lat.P50Ms,
			SchedP95Ms: lat.P95Ms,
			SchedMaxMs: lat.MaxMs,
		},
	}
}
