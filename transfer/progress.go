package transfer

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// ProgressTracker prints a throttled progress line to stdout. The session is
// single-threaded, so Update is only ever called from the polling goroutine.
type ProgressTracker struct {
	totalBytes     int64
	startTime      time.Time
	lastUpdate     time.Time
	lastBytes      int64
	updateInterval time.Duration
}

// NewProgressTracker creates a tracker for a transfer of totalBytes.
func NewProgressTracker(totalBytes int64) *ProgressTracker {
	now := time.Now()
	return &ProgressTracker{
		totalBytes:     totalBytes,
		startTime:      now,
		lastUpdate:     now,
		updateInterval: 100 * time.Millisecond,
	}
}

// Update redraws the progress line if enough time has passed.
func (pt *ProgressTracker) Update(transferred int64) {
	now := time.Now()
	if now.Sub(pt.lastUpdate) < pt.updateInterval {
		return
	}

	bytesDiff := transferred - pt.lastBytes
	timeDiff := now.Sub(pt.lastUpdate).Seconds()
	speed := float64(bytesDiff) / timeDiff
	progress := 100.0
	if pt.totalBytes > 0 {
		progress = float64(transferred) / float64(pt.totalBytes) * 100
	}
	if progress > 100 {
		progress = 100
	}

	fmt.Printf("\rProgress: [%s] %.1f%% %.2f MB/s Time: %ds",
		progressBar(progress),
		progress,
		speed/1024/1024,
		int(now.Sub(pt.startTime).Seconds()))

	pt.lastUpdate = now
	pt.lastBytes = transferred
}

// FinalReport draws the completed bar and the average speed.
func (pt *ProgressTracker) FinalReport(transferred int64) {
	elapsed := time.Since(pt.startTime)
	if elapsed == 0 {
		elapsed = 1 * time.Millisecond
	}
	avgSpeed := float64(transferred) / elapsed.Seconds() / 1024 / 1024
	fmt.Printf("\rProgress: [%s] 100.0%% %.2f MB/s Time: %ds\n",
		progressBar(100), avgSpeed, int(elapsed.Seconds()))
	fmt.Printf("Download completed - Average speed: %.2f MB/s\n", avgSpeed)
}

// progressBar builds a visual bar sized to the terminal, capped at 50 cells.
func progressBar(progress float64) string {
	width := 50
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w-30 < width {
		width = w - 30
		if width < 10 {
			width = 10
		}
	}

	pos := int(float64(width) * progress / 100)
	bar := make([]rune, width)
	for i := range bar {
		switch {
		case i < pos:
			bar[i] = '='
		case i == pos:
			bar[i] = '>'
		default:
			bar[i] = ' '
		}
	}
	return string(bar)
}
