// Package ndjson appends one compact JSON document per line to a local file
// and keeps it bounded with a single rotated generation (<path>.1).
package ndjson

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"
)

// DefaultCheckEvery is how many successful appends pass between size checks.
const DefaultCheckEvery = 15

// RotatedSuffix is appended to the live path to name the single backup.
const RotatedSuffix = ".1"

type Writer struct {
	path       string
	maxBytes   int64
	checkEvery int

	mu      sync.Mutex
	appends int
}

type Option func(*Writer)

// WithCheckEvery overrides how often the file size is checked.
func WithCheckEvery(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.checkEvery = n
		}
	}
}

func NewWriter(path string, maxBytes int64, opts ...Option) *Writer {
	w := &Writer{
		path:       path,
		maxBytes:   maxBytes,
		checkEvery: DefaultCheckEvery,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the live file path.
func (w *Writer) Path() string { return w.path }

// RotatedPath returns the backup file path.
func (w *Writer) RotatedPath() string { return w.path + RotatedSuffix }

// Append writes v as a single line. The file is created if absent and is
// opened per call, so a rename by rotation never strands a handle. Every
// checkEvery successful appends the size is checked and the file rotated
// when it exceeds maxBytes.
func (w *Writer) Append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ndjson: marshal: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := appendFile(w.path, line); err != nil {
		return err
	}

	w.appends++
	if w.appends < w.checkEvery {
		return nil
	}
	w.appends = 0
	return w.rotateIfTooLarge()
}

// RotateIfTooLarge rotates now if the live file exceeds the size limit.
func (w *Writer) RotateIfTooLarge() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rotateIfTooLarge()
}

func (w *Writer) rotateIfTooLarge() error {
	st, err := os.Stat(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("ndjson: stat: %w", err)
	}
	if st.Size() <= w.maxBytes {
		return nil
	}

	rotated := w.RotatedPath()
	// only one generation is kept
	_ = os.Remove(rotated)
	if err := os.Rename(w.path, rotated); err != nil {
		if terr := os.Truncate(w.path, 0); terr != nil {
			return fmt.Errorf("ndjson: rotate: %w", errors.Join(err, terr))
		}
		return fmt.Errorf("ndjson: rename failed, truncated instead: %w", err)
	}
	return nil
}

func appendFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("ndjson: open: %w", err)
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("ndjson: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("ndjson: close: %w", err)
	}
	return nil
}
