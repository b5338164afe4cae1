package transfer

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// start kicks off the read/write chain by pretending a zero-byte write just
// finished, which schedules the first read. An empty source completes here
// without issuing any I/O.
func (s *Session) start() {
	s.onWriteComplete(0, nil)
}

// onWriteComplete runs when the destination finishes a write. It advances the
// progress counter by the bytes actually written and schedules the next read,
// or marks the session done when everything has been moved.
func (s *Session) onWriteComplete(n int, err error) {
	if err != nil {
		s.fail(fmt.Errorf("write at offset %d: %w", s.transferredBytes, err))
		return
	}

	s.transferredBytes += int64(n)
	if n > 0 && s.onProgress != nil {
		s.onProgress(s.transferredBytes, s.totalBytes)
	}

	if s.transferredBytes >= s.totalBytes {
		s.done = true
		logrus.WithFields(logrus.Fields{
			"transferred": s.transferredBytes,
			"total":       s.totalBytes,
		}).Debug("transfer complete")
		return
	}

	chunk := s.totalBytes - s.transferredBytes
	if chunk > int64(len(s.buf)) {
		chunk = int64(len(s.buf))
	}
	s.reader.ReadAsync(s.buf[:chunk], s.transferredBytes, int(chunk), s.onReadComplete)
}

// onReadComplete runs when the source finishes a read. It schedules a write
// of the bytes the read actually delivered; a short read simply produces a
// smaller write, and the next read re-requests the remainder.
func (s *Session) onReadComplete(n int, err error) {
	if err != nil {
		s.fail(fmt.Errorf("read at offset %d: %w", s.transferredBytes, err))
		return
	}
	if n == 0 {
		s.fail(fmt.Errorf("read at offset %d: %w", s.transferredBytes, io.ErrUnexpectedEOF))
		return
	}

	s.writer.WriteAsync(s.buf[:n], s.transferredBytes, n, s.onWriteComplete)
}

// fail records the first error and stops scheduling work. Ignoring a
// completion error here would turn a transport failure into a silently
// truncated file, so the error ends the transfer and is surfaced through Err.
func (s *Session) fail(err error) {
	if s.err != nil {
		return
	}
	s.err = err
	logrus.WithFields(logrus.Fields{
		"transferred": s.transferredBytes,
		"total":       s.totalBytes,
		"error":       err.Error(),
	}).Error("transfer failed")
}
