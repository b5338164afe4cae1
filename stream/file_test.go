package stream

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHandleWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")

	w := NewFileHandle(path)
	require.NoError(t, w.OpenForWrite())

	first := []byte("hello, ")
	second := []byte("stream")

	var n int
	var err error
	w.WriteAsync(first, 0, len(first), func(gotN int, gotErr error) { n, err = gotN, gotErr })
	w.Service()
	require.NoError(t, err)
	assert.Equal(t, len(first), n)

	w.WriteAsync(second, int64(len(first)), len(second), func(gotN int, gotErr error) { n, err = gotN, gotErr })
	w.Service()
	require.NoError(t, err)
	assert.Equal(t, len(second), n)

	require.NoError(t, w.CloseForWrite())
	require.NoError(t, w.CloseForWrite(), "CloseForWrite should be idempotent")

	r := NewFileHandle(path)
	require.NoError(t, r.OpenForRead())

	size, err := r.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(len(first)+len(second)), size)

	buf := make([]byte, size)
	r.ReadAsync(buf, 0, int(size), func(gotN int, gotErr error) { n, err = gotN, gotErr })
	r.Service()
	require.NoError(t, err)
	assert.Equal(t, int(size), n)
	assert.Equal(t, "hello, stream", string(buf))

	require.NoError(t, r.CloseForRead())
	require.NoError(t, r.CloseForRead(), "CloseForRead should be idempotent")
}

func TestFileHandlePartialReadAtEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, []byte("abcde"), 0644))

	r := NewFileHandle(path)
	require.NoError(t, r.OpenForRead())
	defer r.CloseForRead()

	var n int
	var err error
	buf := make([]byte, 10)
	r.ReadAsync(buf, 0, 10, func(gotN int, gotErr error) { n, err = gotN, gotErr })
	r.Service()

	// the final partial chunk is a success, not an error
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "abcde", string(buf[:n]))
}

func TestFileHandleReadPastEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, []byte("abcde"), 0644))

	r := NewFileHandle(path)
	require.NoError(t, r.OpenForRead())
	defer r.CloseForRead()

	var n int
	var err error
	buf := make([]byte, 4)
	r.ReadAsync(buf, 5, 4, func(gotN int, gotErr error) { n, err = gotN, gotErr })
	r.Service()

	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileHandleServiceWithoutPending(t *testing.T) {
	h := NewFileHandle(filepath.Join(t.TempDir(), "x"))
	h.Service() // nothing queued, nothing happens
}

func TestFileHandleDirectionChecks(t *testing.T) {
	h := NewFileHandle(filepath.Join(t.TempDir(), "x.bin"))

	var err error
	h.WriteAsync([]byte("nope"), 0, 4, func(_ int, gotErr error) { err = gotErr })
	h.Service()
	assert.ErrorIs(t, err, ErrNotWritable)

	h.ReadAsync(make([]byte, 4), 0, 4, func(_ int, gotErr error) { err = gotErr })
	h.Service()
	assert.ErrorIs(t, err, ErrNotReadable)
}

func TestFileHandleExclusiveLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.bin")

	first := NewFileHandle(path)
	require.NoError(t, first.OpenForWrite())
	defer first.CloseForWrite()

	second := NewFileHandle(path)
	err := second.OpenForWrite()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestFileHandleSizeWithoutOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sized.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 1234), 0644))

	size, err := NewFileHandle(path).Size()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), size)
}
