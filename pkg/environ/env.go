// Package environ reads typed values from the process environment with a
// fallback for unset or unparsable keys.
package environ

import (
	"os"
	"strconv"
	"time"

	"github.com/ja7ad/cgsampler/pkg/types"
)

func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func GetInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}

	return fallback
}

// GetBool accepts "1" and "true" as true, "0" and "false" as false.
func GetBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}

	return fallback
}

// GetMillis reads a positive integer number of milliseconds.
func GetMillis(key string, fallback time.Duration) time.Duration {
	if ms := GetInt(key, 0); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}

	return fallback
}

// GetBytes reads a positive size, either a plain byte count or "50MB".
func GetBytes(key string, fallback types.Bytes) types.Bytes {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := types.ParseBytes(value); err == nil && b > 0 {
			return b
		}
	}

	return fallback
}
