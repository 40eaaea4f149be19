package sampler

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/utils/clock"

	"github.com/ja7ad/cgsampler/pkg/latency"
)

type options struct {
	logger            *slog.Logger
	clock             clock.WithTicker
	ctx               context.Context
	latencyResolution time.Duration
}

func defaultOptions() *options {
	return &options{
		logger:            slog.Default(),
		clock:             clock.RealClock{},
		ctx:               context.Background(),
		latencyResolution: latency.DefaultResolution,
	}
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(opts *options) {
		if l != nil {
			opts.logger = l
		}
	}
}

// WithClock replaces the wall clock driving ticks and timestamps.
func WithClock(c clock.WithTicker) Option {
	return func(opts *options) {
		if c != nil {
			opts.clock = c
		}
	}
}

// WithContext bounds the lifetime of a sampler launched by Start. The
// default is a background context: the sampler lives as long as the process.
func WithContext(ctx context.Context) Option {
	return func(opts *options) {
		if ctx != nil {
			opts.ctx = ctx
		}
	}
}

func WithLatencyResolution(d time.Duration) Option {
	return func(opts *options) {
		opts.latencyResolution = d
	}
}
