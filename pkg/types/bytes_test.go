package types

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes_Humanized_Boundaries(t *testing.T) {
	cases := []struct {
		in   Bytes
		want string
	}{
		{Bytes(0), "0 B"},
		{Bytes(1023), "1023 B"},
		{Bytes(1024), "1.00 KB"},
		{Bytes(1024 * 1024), "1.00 MB"},
		{Bytes(50 * 1024 * 1024), "50.00 MB"},
		{Bytes(1024 * 1024 * 1024), "1.00 GB"},
		{Bytes(1 << 40), "1.00 TB"},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d_%d", i, uint64(tc.in)), func(t *testing.T) {
			require.Equal(t, tc.want, tc.in.Humanized())
		})
	}
}

func TestBytes_Humanized_NonRound(t *testing.T) {
	assert.Equal(t, "1.50 KB", Bytes(1536).Humanized())

	b := Bytes(uint64(math.Round(12.345 * float64(1<<20))))
	assert.Equal(t, "12.35 MB", b.Humanized())
}

func TestBytes_UnitAccessors(t *testing.T) {
	assert.InDelta(t, 1.0, Bytes(1024).KB(), 1e-12)
	assert.InDelta(t, 1.0, Bytes(1<<20).MB(), 1e-12)
	assert.InDelta(t, 1.5, Bytes(1536).KB(), 1e-12)
	assert.Equal(t, uint64(42), ToBytes(42).Uint64())
}

func TestParseBytes(t *testing.T) {
	t.Run("plain_count", func(t *testing.T) {
		b, err := ParseBytes("52428800")
		require.NoError(t, err)
		assert.Equal(t, Bytes(52428800), b)
	})
	t.Run("with_unit", func(t *testing.T) {
		b, err := ParseBytes("50MB")
		require.NoError(t, err)
		assert.Equal(t, Bytes(50<<20), b)
	})
	t.Run("with_space", func(t *testing.T) {
		b, err := ParseBytes(" 2 KB ")
		require.NoError(t, err)
		assert.Equal(t, Bytes(2048), b)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := ParseBytes("")
		require.Error(t, err)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := ParseBytes("lots")
		require.Error(t, err)
	})
}

func TestBytes_UnmarshalText(t *testing.T) {
	var b Bytes
	require.NoError(t, b.UnmarshalText([]byte("1MB")))
	assert.Equal(t, Bytes(1<<20), b)

	require.Error(t, b.UnmarshalText([]byte("-3")))
	assert.Equal(t, Bytes(1<<20), b, "failed decode leaves value untouched")
}
