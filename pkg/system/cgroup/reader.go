package cgroup

import (
	"os"
	"strings"
)

// ReadFirstLine returns the first line of path with surrounding whitespace
// removed. Any I/O failure (missing file, EACCES, non-Linux host) yields
// ok=false; the read is never retried.
func ReadFirstLine(path string) (string, bool) {
	data, ok := ReadWhole(path)
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	return strings.TrimSpace(data), true
}

// ReadWhole returns the full content of path, or ok=false on any I/O failure.
func ReadWhole(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(b), true
}
