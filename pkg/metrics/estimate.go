package metrics

import (
	"time"

	"github.com/ja7ad/cgsampler/pkg/system/util"
)

// CPUPercent derives container CPU utilization from two cumulative
// usage_usec readings, normalized by cores. 100% means one full core;
// the result is bounded by [0, 100*cores].
//
// It returns nil when there is no previous snapshot or either usage is
// unknown, and 0 when the counter did not advance or time did not move
// forward (counter reset, clock skew, sub-resolution tick).
func CPUPercent(prev *CPUSnapshot, cur CPUSnapshot, cores int) *float64 {
	if prev == nil || prev.UsageUsec == nil || cur.UsageUsec == nil {
		return nil
	}
	cores = max(1, cores)

	zero := 0.0
	if *cur.UsageUsec <= *prev.UsageUsec || !cur.At.After(prev.At) {
		return &zero
	}
	deltaUsec := float64(util.DeltaU64(*cur.UsageUsec, *prev.UsageUsec))
	elapsedMs := float64(cur.At.Sub(prev.At)) / float64(time.Millisecond)

	// elapsed_sec * cores * 1e6 usec of CPU time were available
	capacity := elapsedMs / 1000 * float64(cores) * 1e6
	pct := util.Round(util.SafeDiv(deltaUsec, capacity)*100, 1)
	pct = util.Clamp(pct, 0, 100*float64(cores))
	return &pct
}
