package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ja7ad/cgsampler/pkg/sampler"
	"github.com/ja7ad/cgsampler/pkg/system/cgroup"
	"github.com/ja7ad/cgsampler/pkg/types"
)

type runOpts struct {
	file       string
	interval   time.Duration
	maxBytes   string
	cgroupBase string
	configPath string
	logLevel   string
}

func main() {
	root := &cobra.Command{
		Use:   "cgsampler",
		Short: "Container cgroup and process telemetry sampler",
		Long: `cgsampler samples cgroup v2 resource counters (memory, CPU, pids) together
with process runtime statistics and appends one JSON record per interval to
an NDJSON file, rotating it to <file>.1 once it grows past the size limit.

Configuration defaults come from METRICS_FILE, METRICS_INTERVAL_MS,
METRICS_MAX_BYTES and METRICS_CGROUP_BASE.

* GitHub: https://github.com/ja7ad/cgsampler

Examples:
  cgsampler run --interval 500ms --file /tmp/app-metrics.ndjson
  cgsampler tail /tmp/app-metrics.ndjson
  cgsampler detect`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd(), newTailCmd(), newDetectCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	env := sampler.FromEnv()
	o := runOpts{
		file:       env.FilePath,
		interval:   env.Interval,
		maxBytes:   strconv.FormatUint(env.MaxFileBytes.Uint64(), 10),
		cgroupBase: env.CgroupBase,
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sampler in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, o)
		},
	}

	cmd.Flags().StringVarP(&o.file, "file", "f", o.file, "NDJSON output file")
	cmd.Flags().DurationVarP(&o.interval, "interval", "i", o.interval, "sampling interval (e.g. 1s, 500ms)")
	cmd.Flags().StringVar(&o.maxBytes, "max-bytes", o.maxBytes, "rotate the file once it exceeds this size (e.g. 52428800, 50MB)")
	cmd.Flags().StringVar(&o.cgroupBase, "cgroup-base", o.cgroupBase, "cgroup v2 directory to read")
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "YAML config file applied over the environment")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func run(cmd *cobra.Command, o runOpts) error {
	logger, err := newLogger(o.logLevel)
	if err != nil {
		return err
	}

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer undo()
	if err != nil {
		logger.Warn("set GOMAXPROCS", "err", err)
	}

	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	s, err := sampler.New(cfg, sampler.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	logger.Info("sampling",
		"file", cfg.FilePath,
		"interval", cfg.Interval,
		"max_bytes", cfg.MaxFileBytes.Humanized(),
		"cgroup_base", cfg.CgroupBase,
	)
	s.Run(ctx)
	logger.Info("interrupted")
	return nil
}

// resolveConfig layers environment, config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command, o runOpts) (sampler.Config, error) {
	cfg := sampler.FromEnv()
	if o.configPath != "" {
		var err error
		if cfg, err = sampler.LoadFile(o.configPath, cfg); err != nil {
			return cfg, err
		}
	}

	var flags sampler.Config
	if cmd.Flags().Changed("file") {
		flags.FilePath = o.file
	}
	if cmd.Flags().Changed("interval") {
		flags.Interval = o.interval
	}
	if cmd.Flags().Changed("max-bytes") {
		b, err := types.ParseBytes(o.maxBytes)
		if err != nil {
			return cfg, fmt.Errorf("--max-bytes: %w", err)
		}
		flags.MaxFileBytes = b
	}
	if cmd.Flags().Changed("cgroup-base") {
		flags.CgroupBase = o.cgroupBase
	}

	cfg = sampler.Merge(cfg, &flags)
	return cfg, cfg.Validate()
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger, nil
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Print the cgroup version mounted on this host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ver, detail, err := cgroup.Detect()
			if err != nil {
				return fmt.Errorf("detect cgroup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", ver, detail)
			if !ver.Unified() {
				fmt.Fprintln(cmd.OutOrStdout(), "no cgroup v2 hierarchy: container fields will be null")
			}
			return nil
		},
	}
}

func notifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
