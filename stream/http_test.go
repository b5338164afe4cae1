package stream

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeTestServer(t *testing.T, content []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "payload.bin", time.Now(), bytes.NewReader(content))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPHandleSize(t *testing.T) {
	content := make([]byte, 4096)
	srv := rangeTestServer(t, content)

	h := NewHTTPHandle(srv.URL)
	require.NoError(t, h.OpenForRead())
	defer h.CloseForRead()

	size, err := h.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(4096), size)
}

func TestHTTPHandleRangedRead(t *testing.T) {
	content := make([]byte, 1000)
	for i := range content {
		content[i] = byte(i)
	}
	srv := rangeTestServer(t, content)

	h := NewHTTPHandle(srv.URL)
	require.NoError(t, h.OpenForRead())
	defer h.CloseForRead()

	var n int
	var err error
	buf := make([]byte, 100)
	h.ReadAsync(buf, 250, 100, func(gotN int, gotErr error) { n, err = gotN, gotErr })
	h.Service()

	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.True(t, bytes.Equal(content[250:350], buf))
}

func TestHTTPHandleSizeUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	h := NewHTTPHandle(srv.URL)
	require.NoError(t, h.OpenForRead())
	defer h.CloseForRead()

	_, err := h.Size()
	assert.ErrorIs(t, err, ErrSizeUnknown)
}

func TestHTTPHandleRejectsBadScheme(t *testing.T) {
	h := NewHTTPHandle("gopher://example.com/file")
	err := h.OpenForRead()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestHTTPHandleNotWritable(t *testing.T) {
	h := NewHTTPHandle("http://example.com/file")
	assert.ErrorIs(t, h.OpenForWrite(), ErrNotWritable)

	var err error
	h.WriteAsync([]byte("x"), 0, 1, func(_ int, gotErr error) { err = gotErr })
	h.Service()
	assert.ErrorIs(t, err, ErrNotWritable)
}

func TestHTTPHandleRangeNotSupportedPastStart(t *testing.T) {
	content := []byte("whole file every time")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ignores Range and always answers 200 with the full body
		w.Write(content)
	}))
	defer srv.Close()

	h := NewHTTPHandle(srv.URL)
	require.NoError(t, h.OpenForRead())
	defer h.CloseForRead()

	var n int
	var err error
	buf := make([]byte, 5)

	h.ReadAsync(buf, 0, 5, func(gotN int, gotErr error) { n, err = gotN, gotErr })
	h.Service()
	require.NoError(t, err, "200 at offset 0 is acceptable")
	assert.Equal(t, 5, n)
	assert.Equal(t, "whole", string(buf))

	h.ReadAsync(buf, 5, 5, func(gotN int, gotErr error) { n, err = gotN, gotErr })
	h.Service()
	require.Error(t, err, "200 past offset 0 means ranges are unsupported")
	assert.Contains(t, err.Error(), "range")
}
