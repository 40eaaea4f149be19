package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"text/tabwriter"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/ja7ad/cgsampler/pkg/metrics"
	"github.com/ja7ad/cgsampler/pkg/sampler"
	"github.com/ja7ad/cgsampler/pkg/types"
)

func TestResolveConfig_Layers(t *testing.T) {
	for _, k := range []string{sampler.EnvFile, sampler.EnvIntervalMs, sampler.EnvMaxBytes, sampler.EnvCgroupBase} {
		t.Setenv(k, "")
	}
	t.Setenv(sampler.EnvFile, "/env/metrics.ndjson")

	cfgPath := filepath.Join(t.TempDir(), "cgsampler.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("interval: 3s\ncgroup_base: /yaml/cg\n"), 0o644))

	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Set("config", cfgPath))
	require.NoError(t, cmd.Flags().Set("max-bytes", "2MB"))
	require.NoError(t, cmd.Flags().Set("cgroup-base", "/flag/cg"))

	o := runOpts{
		file:       sampler.Default().FilePath,
		configPath: cfgPath,
		maxBytes:   "2MB",
		cgroupBase: "/flag/cg",
	}
	cfg, err := resolveConfig(cmd, o)
	require.NoError(t, err)

	assert.Equal(t, "/env/metrics.ndjson", cfg.FilePath)
	assert.Equal(t, 3*time.Second, cfg.Interval)
	assert.Equal(t, types.Bytes(2*1024*1024), cfg.MaxFileBytes)
	assert.Equal(t, "/flag/cg", cfg.CgroupBase)
}

func TestResolveConfig_BadMaxBytes(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.Flags().Set("max-bytes", "lots"))

	_, err := resolveConfig(cmd, runOpts{maxBytes: "lots"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("DEBUG")
	assert.NoError(t, err)

	_, err = newLogger("chatty")
	assert.Error(t, err)
}

func TestPrintTableRow(t *testing.T) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	printTableRow(tw, metrics.Record{
		TS: "2026-01-02T03:04:05.000Z",
		Container: metrics.ContainerBlock{
			MemCurrent:        ptr.To[uint64](1024),
			CPUPct:            ptr.To(12.5),
			CPUEffectiveCores: 2,
			PidsCurrent:       ptr.To[uint64](7),
			PidsMax:           ptr.To[uint64](100),
		},
		Process: metrics.ProcessBlock{SchedP95Ms: 1.25},
	})

	out := buf.String()
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "7/100")
	assert.Contains(t, out, "1.25")
	assert.Contains(t, out, "-")
}

func TestFmtHelpers(t *testing.T) {
	assert.Equal(t, "-", fmtBytes(nil))
	assert.Equal(t, "-", fmtPct(nil))
	assert.Equal(t, "-", fmtUsec(nil))
	assert.Equal(t, "1.5ms", fmtUsec(ptr.To[uint64](1500)))
	assert.Equal(t, "3", fmtPids(ptr.To[uint64](3), nil))
	assert.Equal(t, "-", fmtPids(nil, ptr.To[uint64](3)))
}
