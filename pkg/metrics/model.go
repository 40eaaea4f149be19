package metrics

import "time"

// TimeFormat is ISO-8601 in UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// CPUSnapshot is one reading of the cumulative cgroup CPU counters.
// Counters are in microseconds; nil means unavailable.
type CPUSnapshot struct {
	UsageUsec     *uint64
	ThrottledUsec *uint64
	At            time.Time
}

// Record is one NDJSON line. Pointer fields serialize as null when the
// reading was unavailable so a gap never looks like a zero.
type Record struct {
	TS        string         `json:"ts"`
	Container ContainerBlock `json:"container"`
	Process   ProcessBlock   `json:"process"`
}

type ContainerBlock struct {
	MemCurrent        *uint64  `json:"mem_current"`
	MemMax            *uint64  `json:"mem_max"`
	CPUPct            *float64 `json:"cpu_pct"`
	CPUUsageUsec      *uint64  `json:"cpu_usage_usec"`
	CPUThrottledUsec  *uint64  `json:"cpu_throttled_usec"`
	CPUEffectiveCores int      `json:"cpu_effective_cores"`
	PidsCurrent       *uint64  `json:"pids_current"`
	PidsMax           *uint64  `json:"pids_max"`
}

type ProcessBlock struct {
	RSS        *uint64  `json:"rss"`
	HeapUsed   uint64   `json:"heap_used"`
	HeapTotal  uint64   `json:"heap_total"`
	External   uint64   `json:"external"`
	HeapLimit  *uint64  `json:"heap_limit"`
	CPUSeconds *float64 `json:"cpu_seconds"`
	Goroutines int      `json:"goroutines"`
	NumGC      uint32   `json:"num_gc"`
	SchedP50Ms float64  `json:"sched_ms_p50"`
	SchedP95Ms float64  `json:"sched_ms_p95"`
	SchedMaxMs float64  `json:"sched_ms_max"`
}
