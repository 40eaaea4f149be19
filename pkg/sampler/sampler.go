package sampler

import (
	"context"
	"fmt"
	"log/slog"

	"k8s.io/utils/clock"

	"github.com/ja7ad/cgsampler/pkg/latency"
	"github.com/ja7ad/cgsampler/pkg/metrics"
	"github.com/ja7ad/cgsampler/pkg/ndjson"
	"github.com/ja7ad/cgsampler/pkg/system/cgroup"
	"github.com/ja7ad/cgsampler/pkg/system/proc"
)

// Sampler writes one metrics.Record per interval.
//
// Ticks run one after another on the Run goroutine; a tick that outlasts
// the interval causes the ticker to drop the missed ticks rather than
// queue or overlap them.
type Sampler struct {
	cfg     Config
	log     *slog.Logger
	clock   clock.WithTicker
	ctx     context.Context
	cgroups *cgroup.Reader
	process *proc.Sampler
	latency *latency.Monitor
	writer  *ndjson.Writer

	// previous CPU reading, owned by the tick goroutine
	prev *metrics.CPUSnapshot
}

func New(cfg Config, opts ...Option) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Sampler{
		cfg:     cfg,
		log:     o.logger,
		clock:   o.clock,
		ctx:     o.ctx,
		cgroups: cgroup.NewReader(cfg.CgroupBase),
		process: proc.NewSampler(),
		latency: latency.NewMonitor(o.latencyResolution),
		writer:  ndjson.NewWriter(cfg.FilePath, int64(cfg.MaxFileBytes)),
	}, nil
}

// Config returns the resolved configuration.
func (s *Sampler) Config() Config { return s.cfg }

// Run starts the latency probe and ticks until ctx is done.
func (s *Sampler) Run(ctx context.Context) {
	go s.latency.Run(ctx)

	t := s.clock.NewTicker(s.cfg.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			s.safeTick(ctx)
		}
	}
}

// safeTick confines any failure to the current tick.
func (s *Sampler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Debug("metrics tick panicked", "panic", r)
		}
	}()
	if err := s.Tick(ctx); err != nil {
		s.log.Debug("metrics tick failed", "err", err)
	}
}

// Tick samples once and appends the record.
func (s *Sampler) Tick(ctx context.Context) error {
	ts := s.clock.Now()

	ps := s.process.Sample()
	lat := s.latency.Snapshot()
	cg := s.cgroups.Read(ctx)

	cur := metrics.CPUSnapshot{
		UsageUsec:     cg.CPU.UsageUsec,
		ThrottledUsec: cg.CPU.ThrottledUsec,
		At:            s.clock.Now(),
	}
	pct := metrics.CPUPercent(s.prev, cur, cg.CPUMax.EffectiveCores)
	s.prev = &cur

	rec := metrics.Assemble(ts, ps, lat, cg, pct)
	if err := s.writer.Append(rec); err != nil {
		return fmt.Errorf("append %s: %w", s.writer.Path(), err)
	}
	return nil
}
