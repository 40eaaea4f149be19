package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
)

// Bytes is a uint64 wrapper representing a size in bytes.
type Bytes uint64

// ToBytes converts a raw counter into Bytes.
func ToBytes(v uint64) Bytes { return Bytes(v) }

// Uint64 returns the raw byte count.
func (b Bytes) Uint64() uint64 { return uint64(b) }

// Humanized returns a human-readable string with automatic unit (B, KB, MB, GB, TB).
func (b Bytes) Humanized() string {
	v := float64(b)
	switch {
	case b >= 1<<40:
		return fmt.Sprintf("%.2f TB", v/(1<<40))
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", v/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", v/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// KB returns the number of kilobytes (1024 base).
func (b Bytes) KB() float64 { return float64(b) / 1024 }

// MB returns the number of megabytes (1024 base).
func (b Bytes) MB() float64 { return float64(b) / (1024 * 1024) }

// ParseBytes accepts either a plain byte count ("52428800") or a size with
// a unit suffix ("50MB", "1 GB"). Units are 1024 based.
func ParseBytes(s string) (Bytes, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse bytes: empty value")
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Bytes(n), nil
	}
	var sz datasize.ByteSize
	if err := sz.UnmarshalText([]byte(strings.ReplaceAll(s, " ", ""))); err != nil {
		return 0, fmt.Errorf("parse bytes %q: %w", s, err)
	}
	return Bytes(sz.Bytes()), nil
}

// UnmarshalText lets Bytes be decoded from config files and flags.
func (b *Bytes) UnmarshalText(text []byte) error {
	v, err := ParseBytes(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
