// Package transfer moves the bytes of a remote file into a local file through
// a single fixed-size buffer. One read and one write are in flight at most,
// and they strictly alternate: a read fills the buffer from the source at the
// current progress offset, the following write drains the same region to the
// destination, and only its completion schedules the next read. The chain is
// driven entirely by completion callbacks; the host makes it progress by
// polling the session from its own loop.
package transfer

import (
	"github.com/sirupsen/logrus"

	"ftpget/stream"
)

// DefaultBufferSize is the transfer buffer capacity, and therefore the
// maximum chunk moved by one read/write pair.
const DefaultBufferSize = 32 * 1024

// Options configures a session created by Begin.
type Options struct {
	// BufferSize is the transfer buffer capacity in bytes. Zero or negative
	// selects DefaultBufferSize.
	BufferSize int

	// OnProgress, when set, is invoked after every completed write with the
	// running byte count and the total.
	OnProgress func(transferred, total int64)
}

// Session is the full state of one active transfer: the two stream handles,
// the shared buffer and the progress counters. A session is single-threaded;
// all mutation happens inside the completion callbacks, which run on the
// goroutine that calls Poll.
type Session struct {
	reader stream.Handle
	writer stream.Handle
	buf    []byte

	totalBytes       int64
	transferredBytes int64
	done             bool
	err              error
	torn             bool

	onProgress func(transferred, total int64)
}

// Begin opens both handles, queries the total size, allocates the buffer and
// bootstraps the pump. On any failure it tears the session down and returns
// the error; a size-query failure is returned unwrapped so callers can detect
// stream.ErrSizeUnknown.
func Begin(reader, writer stream.Handle, opts Options) (*Session, error) {
	s := &Session{
		reader:     reader,
		writer:     writer,
		onProgress: opts.OnProgress,
	}

	if err := reader.OpenForRead(); err != nil {
		s.Teardown()
		return nil, &SetupError{Step: "open source", Err: err}
	}

	size, err := reader.Size()
	if err != nil {
		s.Teardown()
		return nil, err
	}
	s.totalBytes = size

	if err := writer.OpenForWrite(); err != nil {
		s.Teardown()
		return nil, &SetupError{Step: "open destination", Err: err}
	}

	bufSize := opts.BufferSize
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	s.buf = make([]byte, bufSize)

	logrus.WithFields(logrus.Fields{
		"total_bytes": s.totalBytes,
		"buffer_size": bufSize,
	}).Debug("transfer session starting")

	s.start()
	return s, nil
}

// Poll gives both handles a chance to service their pending operation and
// fire its continuation. The host must call it repeatedly until Finished
// reports true, then call Teardown.
func (s *Session) Poll() {
	s.reader.Service()
	s.writer.Service()
}

// Done reports whether every byte has been transferred.
func (s *Session) Done() bool { return s.done }

// Err returns the first error observed by a completion callback, if any.
func (s *Session) Err() error { return s.err }

// Finished reports whether the session has stopped scheduling work, either
// because it completed or because it failed.
func (s *Session) Finished() bool { return s.done || s.err != nil }

// Transferred returns the number of bytes confirmed written so far.
func (s *Session) Transferred() int64 { return s.transferredBytes }

// Total returns the total number of bytes to transfer.
func (s *Session) Total() int64 { return s.totalBytes }

// Teardown closes both directions and releases the buffer. It is idempotent
// and safe on a partially initialized session; an in-flight operation is
// abandoned, not cancelled.
func (s *Session) Teardown() {
	if s.torn {
		return
	}
	s.torn = true

	if s.reader != nil {
		if err := s.reader.CloseForRead(); err != nil {
			logrus.WithField("error", err.Error()).Warn("failed to close source stream")
		}
	}
	if s.writer != nil {
		if err := s.writer.CloseForWrite(); err != nil {
			logrus.WithField("error", err.Error()).Warn("failed to close destination stream")
		}
	}
	s.buf = nil
}
