package cgroup

import (
	"math"
	"strconv"
	"strings"
)

// unlimited is the token cgroup v2 writes into *.max files when no limit is set.
const unlimited = "max"

// defaultCPUPeriod is the kernel default cpu.max period in microseconds.
const defaultCPUPeriod = 100000

// CPUStat holds the cpu.stat counters the sampler reports. Nil means the
// field was absent or unparsable.
type CPUStat struct {
	UsageUsec     *uint64
	ThrottledUsec *uint64
}

// CPUMax is the parsed cpu.max limit. EffectiveCores is always >= 1.
type CPUMax struct {
	Quota          *uint64
	Period         *uint64
	EffectiveCores int
}

// ParseNumber parses a decimal number, rejecting NaN and infinities.
func ParseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseCount parses a non-negative integer counter such as memory.current.
func ParseCount(text string) *uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseLimit parses a *.max limit file. The "max" sentinel means unlimited
// and is reported as nil rather than a number.
func ParseLimit(text string) *uint64 {
	text = strings.TrimSpace(text)
	if text == "" || text == unlimited {
		return nil
	}
	return ParseCount(text)
}

// ParseCPUStat extracts usage_usec and throttled_usec from cpu.stat content.
// Lines that are not exactly "key value" are skipped.
func ParseCPUStat(content string) CPUStat {
	var st CPUStat
	for _, line := range strings.Split(content, "\n") {
		fs := strings.Fields(line)
		if len(fs) != 2 {
			continue
		}
		switch fs[0] {
		case "usage_usec":
			st.UsageUsec = ParseCount(fs[1])
		case "throttled_usec":
			st.ThrottledUsec = ParseCount(fs[1])
		}
	}
	return st
}

// ParseCPUMax parses "<quota> <period>" from cpu.max. When the quota is
// "max", missing, or invalid, EffectiveCores falls back to hostCPUs.
func ParseCPUMax(text string, hostCPUs int) CPUMax {
	fallback := CPUMax{EffectiveCores: max(1, hostCPUs)}

	fs := strings.Fields(text)
	if len(fs) == 0 || fs[0] == unlimited {
		return fallback
	}
	quota := ParseCount(fs[0])
	period := uint64(defaultCPUPeriod)
	if len(fs) > 1 {
		p := ParseCount(fs[1])
		if p == nil {
			return fallback
		}
		period = *p
	}
	if quota == nil || period == 0 {
		return fallback
	}
	return CPUMax{
		Quota:          quota,
		Period:         &period,
		EffectiveCores: max(1, int(*quota/period)),
	}
}
