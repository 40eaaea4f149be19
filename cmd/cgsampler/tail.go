package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"github.com/ja7ad/cgsampler/pkg/metrics"
	"github.com/ja7ad/cgsampler/pkg/sampler"
	"github.com/ja7ad/cgsampler/pkg/types"
)

func newTailCmd() *cobra.Command {
	var fromStart bool

	cmd := &cobra.Command{
		Use:   "tail [FILE]",
		Short: "Follow a metrics file and print one table row per record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sampler.FromEnv().FilePath
			if len(args) == 1 {
				path = args[0]
			}
			return follow(cmd, path, fromStart)
		},
	}
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "print existing records before following")
	return cmd
}

func follow(cmd *cobra.Command, path string, fromStart bool) error {
	cfg := tail.Config{
		ReOpen: true,
		Follow: true,
		Logger: tail.DiscardingLogger,
	}
	if !fromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return fmt.Errorf("tail %s: %w", path, err)
	}
	defer func() {
		_ = t.Stop()
		t.Cleanup()
	}()

	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	printTableHeader(tw)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				fmt.Fprintln(os.Stderr, "# tail:", line.Err)
				continue
			}
			if strings.TrimSpace(line.Text) == "" {
				continue
			}
			var rec metrics.Record
			if err := json.Unmarshal([]byte(line.Text), &rec); err != nil {
				fmt.Fprintln(os.Stderr, "# skipping malformed line:", err)
				continue
			}
			printTableRow(tw, rec)
		}
	}
}

func printTableHeader(tw *tabwriter.Writer) {
	fmt.Fprintln(tw, "TIME\tMEM\tMEM MAX\tCPU %\tCORES\tTHROTTLED\tPIDS\tRSS\tHEAP\tSCHED p95 (ms)")
	fmt.Fprintln(tw, "----\t---\t-------\t-----\t-----\t---------\t----\t---\t----\t--------------")
	tw.Flush()
}

func printTableRow(tw *tabwriter.Writer, r metrics.Record) {
	ts := r.TS
	if at, err := time.Parse(metrics.TimeFormat, r.TS); err == nil {
		ts = at.Local().Format("2006-01-02 15:04:05")
	}
	c, p := r.Container, r.Process
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%.2f\n",
		ts,
		fmtBytes(c.MemCurrent), fmtBytes(c.MemMax),
		fmtPct(c.CPUPct), c.CPUEffectiveCores,
		fmtUsec(c.CPUThrottledUsec),
		fmtPids(c.PidsCurrent, c.PidsMax),
		fmtBytes(p.RSS), types.ToBytes(p.HeapUsed).Humanized(),
		p.SchedP95Ms,
	)
	tw.Flush()
}

func fmtBytes(v *uint64) string {
	if v == nil {
		return "-"
	}
	return types.ToBytes(*v).Humanized()
}

func fmtPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func fmtUsec(v *uint64) string {
	if v == nil {
		return "-"
	}
	return (time.Duration(*v) * time.Microsecond).String()
}

func fmtPids(cur, limit *uint64) string {
	switch {
	case cur == nil:
		return "-"
	case limit == nil:
		return fmt.Sprintf("%d", *cur)
	default:
		return fmt.Sprintf("%d/%d", *cur, *limit)
	}
}
