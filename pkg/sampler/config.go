package sampler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/cgsampler/pkg/environ"
	"github.com/ja7ad/cgsampler/pkg/system/cgroup"
	"github.com/ja7ad/cgsampler/pkg/types"
)

// Environment keys read by FromEnv.
const (
	EnvFile       = "METRICS_FILE"
	EnvIntervalMs = "METRICS_INTERVAL_MS"
	EnvMaxBytes   = "METRICS_MAX_BYTES"
	EnvCgroupBase = "METRICS_CGROUP_BASE"
	EnvEnabled    = "METRICS_SAMPLER_ENABLED"
)

var ErrInvalidConfig = errors.New("sampler: invalid config")

// Config is resolved once at start and never re-read by the loop.
type Config struct {
	FilePath     string        `yaml:"file_path"`
	Interval     time.Duration `yaml:"interval"`
	MaxFileBytes types.Bytes   `yaml:"max_file_bytes"`
	CgroupBase   string        `yaml:"cgroup_base"`
	Enabled      bool          `yaml:"enabled"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		FilePath:     "/app/metrics/app-metrics.ndjson",
		Interval:     time.Second,
		MaxFileBytes: 50 << 20,
		CgroupBase:   cgroup.DefaultBase,
		Enabled:      false,
	}
}

// FromEnv overlays the METRICS_* environment onto Default. Unset, invalid,
// or non-positive values keep the default.
func FromEnv() Config {
	d := Default()
	return Config{
		FilePath:     environ.GetString(EnvFile, d.FilePath),
		Interval:     environ.GetMillis(EnvIntervalMs, d.Interval),
		MaxFileBytes: environ.GetBytes(EnvMaxBytes, d.MaxFileBytes),
		CgroupBase:   environ.GetString(EnvCgroupBase, d.CgroupBase),
		Enabled:      environ.GetBool(EnvEnabled, d.Enabled),
	}
}

// LoadFile overlays the YAML document at path onto base. Keys absent from
// the file keep their base value; unknown keys are rejected.
func LoadFile(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("sampler: open config: %w", err)
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("sampler: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies the set fields of override onto base. Only non-empty
// strings and positive values override; a nil override returns base.
func Merge(base Config, override *Config) Config {
	if override == nil {
		return base
	}
	merged := base
	if override.FilePath != "" {
		merged.FilePath = override.FilePath
	}
	if override.Interval > 0 {
		merged.Interval = override.Interval
	}
	if override.MaxFileBytes > 0 {
		merged.MaxFileBytes = override.MaxFileBytes
	}
	if override.CgroupBase != "" {
		merged.CgroupBase = override.CgroupBase
	}
	if override.Enabled {
		merged.Enabled = true
	}
	return merged
}

func (c Config) Validate() error {
	switch {
	case c.FilePath == "":
		return fmt.Errorf("%w: file path is empty", ErrInvalidConfig)
	case c.Interval <= 0:
		return fmt.Errorf("%w: interval must be > 0, got %s", ErrInvalidConfig, c.Interval)
	case c.MaxFileBytes == 0:
		return fmt.Errorf("%w: max file bytes must be > 0", ErrInvalidConfig)
	}
	return nil
}
