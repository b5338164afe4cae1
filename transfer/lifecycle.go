package transfer

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ftpget/config"
	"ftpget/perfmetrics"
	"ftpget/stream"
)

// Download copies the file named by source into destPath. The source may be
// an ftp:// or http(s):// URL, or a local path. It blocks until the transfer
// finishes and guarantees both streams are closed on every exit path.
func Download(source, destPath string, cfg *config.TransferConfig) error {
	if cfg == nil {
		cfg = config.Default()
	}
	if strings.TrimSpace(source) == "" {
		return ErrEmptySource
	}

	reader, err := openSource(source, cfg)
	if err != nil {
		return &SetupError{Step: "resolve source", Err: err}
	}
	return DownloadFrom(reader, source, destPath, cfg)
}

// DownloadFrom runs a transfer from an already-resolved source handle. The
// caller's goroutine acts as the event loop: it polls the session until the
// pump reports completion or failure. Any file already present at destPath is
// replaced; its absence is not an error.
func DownloadFrom(reader stream.Handle, sourceName, destPath string, cfg *config.TransferConfig) error {
	if cfg == nil {
		cfg = config.Default()
	}
	if strings.TrimSpace(destPath) == "" {
		reader.CloseForRead()
		return &SetupError{Step: "resolve destination", Err: fmt.Errorf("destination path is empty")}
	}

	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		reader.CloseForRead()
		return &SetupError{Step: "replace destination", Err: err}
	}
	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			reader.CloseForRead()
			return &SetupError{Step: "create directories", Err: err}
		}
	}

	writer := stream.NewFileHandle(destPath)

	var pt *ProgressTracker
	opts := Options{BufferSize: cfg.BufferSize}
	if !cfg.Quiet {
		opts.OnProgress = func(transferred, total int64) {
			if pt != nil {
				pt.Update(transferred)
			}
		}
	}

	sess, err := Begin(reader, writer, opts)
	if err != nil {
		return err
	}
	defer sess.Teardown()

	if !cfg.Quiet {
		fmt.Printf("Downloading %s (%d bytes)...\n", sourceName, sess.Total())
		pt = NewProgressTracker(sess.Total())
	}

	startTime := time.Now()
	for !sess.Finished() {
		sess.Poll()
	}
	if err := sess.Err(); err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	if elapsed == 0 {
		elapsed = 1 * time.Millisecond
	}
	if !cfg.Quiet {
		pt.FinalReport(sess.Transferred())
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	chunks := 0
	if sess.Total() > 0 {
		chunks = int((sess.Total() + int64(bufSize) - 1) / int64(bufSize))
	}
	logErr := perfmetrics.Append("transfer_log.csv", perfmetrics.Record{
		Source:         sourceName,
		FileName:       filepath.Base(destPath),
		FileSizeMB:     float64(sess.Total()) / (1024 * 1024),
		ThroughputMBps: float64(sess.Transferred()) / elapsed.Seconds() / 1024 / 1024,
		TimeSec:        elapsed.Seconds(),
		Chunks:         chunks,
	})
	if logErr != nil && !cfg.Quiet {
		fmt.Printf("Failed to log performance: %v\n", logErr)
	}

	return nil
}

// openSource builds the stream handle matching the source scheme. Anything
// that is not an ftp:// or http(s):// URL is treated as a local path.
func openSource(source string, cfg *config.TransferConfig) (stream.Handle, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return stream.NewHTTPHandle(source), nil

	case strings.HasPrefix(source, "ftp://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parse url: %v", err)
		}
		login := cfg.Login
		if u.User != nil {
			login.Username = u.User.Username()
			if pass, ok := u.User.Password(); ok {
				login.Password = pass
			}
		}
		addr := u.Host
		if u.Port() == "" {
			addr = addr + ":21"
		}
		return stream.DialFTP(addr, login.Username, login.Password, login.Timeout, strings.TrimPrefix(u.Path, "/"))

	default:
		return stream.NewFileHandle(source), nil
	}
}
