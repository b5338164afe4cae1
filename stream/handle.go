// Package stream provides byte-stream handles over FTP, HTTP and local files.
//
// A handle is opened for a single direction, accepts at most one queued
// asynchronous operation, and makes progress only when the host calls Service.
// Completion continuations always run synchronously inside Service, on the
// caller's goroutine, so handle state needs no locking as long as a single
// goroutine drives the handle.
package stream

import "errors"

// Continuation is invoked when a queued read or write finishes. n is the
// number of bytes the operation actually moved.
type Continuation func(n int, err error)

var (
	// ErrSizeUnknown is returned by Size when the underlying protocol cannot
	// report a total size (FTP server without SIZE support, HTTP response
	// without Content-Length). Callers should treat it as a recoverable
	// condition, not a transport failure.
	ErrSizeUnknown = errors.New("stream: total size unavailable")

	// ErrNotReadable indicates a read was attempted on a handle that is not
	// open for reading.
	ErrNotReadable = errors.New("stream: handle is not open for reading")

	// ErrNotWritable indicates a write was attempted on a handle that is not
	// open for writing.
	ErrNotWritable = errors.New("stream: handle is not open for writing")
)

// Handle is an abstract source or destination for a sequential byte transfer.
// ReadAsync and WriteAsync only queue work; the queued operation executes and
// its continuation fires during a later Service call.
type Handle interface {
	OpenForRead() error
	OpenForWrite() error

	// Size reports the total byte count of the readable side. It may return
	// ErrSizeUnknown depending on the protocol.
	Size() (int64, error)

	ReadAsync(buf []byte, offset int64, length int, cont Continuation)
	WriteAsync(buf []byte, offset int64, length int, cont Continuation)

	// Service performs at most one queued operation and invokes its
	// continuation. It is a no-op when nothing is queued. The host must call
	// it repeatedly while a transfer is active.
	Service()

	CloseForRead() error
	CloseForWrite() error
}

// asyncOp is a single queued read or write.
type asyncOp struct {
	write  bool
	buf    []byte
	offset int64
	length int
	cont   Continuation
}

// opSlot holds the one in-flight operation of a handle. Queueing while an
// operation is already pending is a caller bug: reads and writes on a handle
// must strictly alternate with their completions.
type opSlot struct {
	op *asyncOp
}

func (s *opSlot) put(op *asyncOp) {
	if s.op != nil {
		panic("stream: operation queued while another is pending")
	}
	s.op = op
}

// take removes and returns the pending operation, or nil.
func (s *opSlot) take() *asyncOp {
	op := s.op
	s.op = nil
	return op
}

func (s *opSlot) clear() {
	s.op = nil
}
