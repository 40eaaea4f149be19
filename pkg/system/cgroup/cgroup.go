package cgroup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultBase is where container runtimes mount the unified hierarchy.
const DefaultBase = "/sys/fs/cgroup"

const mountInfoPath = "/proc/self/mountinfo"

type Version int

const (
	Unsupported Version = iota // non-Linux or no cgroup mounts
	V1                         // legacy multi-hierarchy cgroup v1
	V2                         // unified cgroup v2
	Hybrid                     // both v1 and v2 present
)

func (v Version) String() string {
	switch v {
	case V1:
		return "cgroup v1"
	case V2:
		return "cgroup v2"
	case Hybrid:
		return "cgroup hybrid"
	default:
		return "unsupported"
	}
}

// Unified reports whether the interface files read by Reader are expected
// to exist under DefaultBase.
func (v Version) Unified() bool { return v == V2 || v == Hybrid }

// Detect returns the detected cgroup version and a human-readable detail string.
//
// It parses /proc/self/mountinfo looking for cgroup filesystems.
func Detect() (Version, string, error) {
	f, err := os.Open(mountInfoPath)
	if err != nil {
		return Unsupported, "", fmt.Errorf("open mountinfo: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return detectFrom(f)
}

func detectFrom(r io.Reader) (Version, string, error) {
	var (
		v1Pts []string
		v2Pts []string
		sc    = bufio.NewScanner(r)
	)
	for sc.Scan() {
		mountPoint, fstype, ok := splitMountInfo(sc.Text())
		if !ok {
			continue
		}
		switch fstype {
		case "cgroup2":
			v2Pts = append(v2Pts, mountPoint)
		case "cgroup":
			v1Pts = append(v1Pts, mountPoint)
		}
	}
	if err := sc.Err(); err != nil {
		return Unsupported, "", fmt.Errorf("scan mountinfo: %w", err)
	}

	switch {
	case len(v1Pts) > 0 && len(v2Pts) > 0:
		return Hybrid, fmt.Sprintf("cgroup2 on %v; cgroup v1 on %v",
			strings.Join(v2Pts, ","), strings.Join(v1Pts, ",")), nil
	case len(v2Pts) > 0:
		return V2, fmt.Sprintf("cgroup2 on %v", strings.Join(v2Pts, ",")), nil
	case len(v1Pts) > 0:
		return V1, fmt.Sprintf("cgroup v1 on %v", strings.Join(v1Pts, ",")), nil
	default:
		return Unsupported, "no cgroup mounts found", nil
	}
}

// splitMountInfo extracts the mount point and filesystem type of one
// mountinfo line: <fields> - <fstype> <source> <superopts>. See man 5 proc.
func splitMountInfo(line string) (mountPoint, fstype string, ok bool) {
	const sep = " - "
	i := strings.LastIndex(line, sep)
	if i < 0 {
		return "", "", false
	}
	tail := strings.Fields(line[i+len(sep):])
	pre := strings.Fields(line[:i])
	if len(tail) < 1 || len(pre) < 5 {
		return "", "", false
	}
	return pre[4], tail[0], true
}
