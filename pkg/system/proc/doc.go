// Package proc samples health counters of the running process: resident
// memory and CPU time from /proc (gopsutil elsewhere) plus the Go runtime's
// own heap accounting.
//
// Field mapping
//
//	RSS        : /proc/self/smaps_rollup Rss, else statm resident pages * page size
//	CPUSeconds : (utime + stime) / CLK_TCK from /proc/self/stat
//	HeapUsed   : runtime.MemStats.HeapAlloc
//	HeapTotal  : runtime.MemStats.HeapSys
//	External   : runtime.MemStats.Sys - HeapSys
//	HeapLimit  : debug.SetMemoryLimit(-1), nil when GOMEMLIMIT is unset
//
// Sample never fails; a counter that cannot be read is left nil.
package proc
