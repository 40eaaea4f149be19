package ndjson

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	N int `json:"n"`
}

func readLines(t *testing.T, path string) []line {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []line
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), "line %q", sc.Text())
		out = append(out, l)
	}
	require.NoError(t, sc.Err())
	return out
}

func appendN(t *testing.T, w *Writer, from, to int) {
	t.Helper()
	for i := from; i <= to; i++ {
		require.NoError(t, w.Append(line{N: i}))
	}
}

func TestAppend_OneCompactObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.ndjson")
	w := NewWriter(path, 1<<20)

	appendN(t, w, 1, 3)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n", string(raw))
}

func TestRotation_ChecksOnlyEveryFifteenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.ndjson")
	w := NewWriter(path, 10) // every line pushes the file over the limit

	appendN(t, w, 1, 14)
	assert.NoFileExists(t, w.RotatedPath(), "no size check before the 15th append")
	assert.Len(t, readLines(t, path), 14)

	appendN(t, w, 15, 15)
	assert.NoFileExists(t, path, "live file moved aside")
	rotated := readLines(t, w.RotatedPath())
	assert.Len(t, rotated, 15)

	appendN(t, w, 16, 16)
	live := readLines(t, path)
	require.Len(t, live, 1)
	assert.Equal(t, 16, live[0].N, "new file receives subsequent appends")
}

func TestRotation_KeepsSingleGeneration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.ndjson")
	w := NewWriter(path, 10)

	appendN(t, w, 1, 30)

	rotated := readLines(t, w.RotatedPath())
	require.Len(t, rotated, 15, "second rotation replaces the first backup")
	assert.Equal(t, 16, rotated[0].N)
	assert.Equal(t, 30, rotated[14].N)
	assert.NoFileExists(t, path+".2")
	assert.NoFileExists(t, path)
}

func TestRotation_UnderLimitKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.ndjson")
	w := NewWriter(path, 1<<20)

	appendN(t, w, 1, 45)
	assert.NoFileExists(t, w.RotatedPath())
	assert.Len(t, readLines(t, path), 45)
}

func TestRotation_RenameFailureTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.ndjson")
	w := NewWriter(path, 10)

	// a non-empty directory at <path>.1 can be neither removed nor replaced
	require.NoError(t, os.MkdirAll(filepath.Join(w.RotatedPath(), "keep"), 0o755))

	appendN(t, w, 1, 14)
	err := w.Append(line{N: 15})
	require.Error(t, err)

	st, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Equal(t, int64(0), st.Size(), "live file truncated so it never grows unbounded")
	assert.DirExists(t, w.RotatedPath())

	appendN(t, w, 16, 16)
	assert.Len(t, readLines(t, path), 1)
}

func TestRotateIfTooLarge_MissingFile(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "absent.ndjson"), 10)
	assert.NoError(t, w.RotateIfTooLarge())
}

func TestAppend_Errors(t *testing.T) {
	t.Run("unmarshalable_value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "m.ndjson")
		w := NewWriter(path, 10, WithCheckEvery(2))

		require.Error(t, w.Append(make(chan int)))
		require.NoError(t, w.Append(line{N: 1}))
		assert.NoFileExists(t, w.RotatedPath(), "failed appends do not advance the counter")

		require.NoError(t, w.Append(line{N: 2}))
		assert.FileExists(t, w.RotatedPath())
	})
	t.Run("missing_directory", func(t *testing.T) {
		w := NewWriter(filepath.Join(t.TempDir(), "no", "such", "dir", "m.ndjson"), 10)
		require.Error(t, w.Append(line{N: 1}))
	})
}

func TestWithCheckEvery_IgnoresNonPositive(t *testing.T) {
	w := NewWriter("x", 1, WithCheckEvery(0))
	assert.Equal(t, DefaultCheckEvery, w.checkEvery)
	assert.Equal(t, "x", w.Path())
	assert.Equal(t, "x.1", w.RotatedPath())
}
