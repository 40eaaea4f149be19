package sampler

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ja7ad/cgsampler/pkg/system/cgroup"
)

// StartKey identifies the process-wide sampler in the start registry.
const StartKey = "github.com/ja7ad/cgsampler/sampler.started"

var global = newRegistry()

// Start launches the process-wide sampler with overrides merged onto the
// environment configuration and returns its handle. Later calls return the
// same handle without starting anything; there is no way to stop it.
func Start(overrides *Config, opts ...Option) *Sampler {
	return global.start(StartKey, overrides, opts...)
}

type registry struct {
	mu      sync.Mutex
	started map[string]*Sampler
}

func newRegistry() *registry {
	return &registry{started: make(map[string]*Sampler)}
}

func (r *registry) start(key string, overrides *Config, opts ...Option) *Sampler {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.started[key]; ok {
		return s
	}

	cfg := Merge(FromEnv(), overrides)
	s, err := New(cfg, opts...)
	if err != nil {
		// Merge only accepts positive overrides, so this means the defaults
		// were bypassed; fall back to them rather than not sampling.
		cfg = Default()
		s, _ = New(cfg, opts...)
		s.log.Warn("invalid metrics config, using defaults", "err", err)
	}

	// best-effort; a missing directory surfaces as failed appends
	_ = os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755)

	ver, _, _ := cgroup.Detect()
	s.log.Debug("metrics sampler started",
		"file", cfg.FilePath,
		"interval", cfg.Interval,
		"max_bytes", cfg.MaxFileBytes.Humanized(),
		"cgroup_base", cfg.CgroupBase,
		"cgroup", ver.String(),
	)

	r.started[key] = s
	go s.Run(s.ctx)
	return s
}
