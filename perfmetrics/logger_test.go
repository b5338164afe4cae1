package perfmetrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestAppendCreatesFileWithHeader(t *testing.T) {
	chdir(t, t.TempDir())

	rec := Record{
		Source:         "ftp://example.com",
		FileName:       "video.mp4",
		FileSizeMB:     12.50,
		ThroughputMBps: 4.21,
		TimeSec:        2.97,
		Chunks:         400,
	}
	require.NoError(t, Append("transfer_log.csv", rec))

	data, err := os.ReadFile(filepath.Join("perfmetrics", "transfer_log.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Timestamp,Source,FileName,FileSizeMB,ThroughputMBps,TimeSec,Chunks", lines[0])
	assert.Contains(t, lines[1], "ftp://example.com")
	assert.Contains(t, lines[1], "video.mp4")
	assert.Contains(t, lines[1], "12.50")
	assert.Contains(t, lines[1], "400")
}

func TestAppendDoesNotDuplicateHeader(t *testing.T) {
	chdir(t, t.TempDir())

	rec := Record{Source: "local", FileName: "a.bin", Chunks: 1}
	require.NoError(t, Append("transfer_log.csv", rec))
	rec.FileName = "b.bin"
	require.NoError(t, Append("transfer_log.csv", rec))

	data, err := os.ReadFile(filepath.Join("perfmetrics", "transfer_log.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, 1, strings.Count(string(data), "Timestamp"))
	assert.Contains(t, lines[1], "a.bin")
	assert.Contains(t, lines[2], "b.bin")
}
