package stream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// FileHandle is a local file usable as either end of a transfer: the
// destination writer of a download, or the source reader of a local copy.
// While open for writing it holds an exclusive lock on the file so a second
// transfer cannot scribble over the same destination.
type FileHandle struct {
	path      string
	file      *os.File
	readOpen  bool
	writeOpen bool
	locked    bool
	slot      opSlot
}

// NewFileHandle creates a handle for the given path. Nothing is opened until
// OpenForRead or OpenForWrite.
func NewFileHandle(path string) *FileHandle {
	return &FileHandle{path: path}
}

func (h *FileHandle) OpenForRead() error {
	f, err := os.Open(h.path)
	if err != nil {
		return fmt.Errorf("open %s: %v", h.path, err)
	}
	h.file = f
	h.readOpen = true
	return nil
}

// OpenForWrite creates the file if needed and takes an exclusive lock on it.
func (h *FileHandle) OpenForWrite() error {
	f, err := os.OpenFile(h.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %v", h.path, err)
	}
	if !tryExclusiveLock(f) {
		f.Close()
		return fmt.Errorf("%s is locked by another process", h.path)
	}
	h.file = f
	h.writeOpen = true
	h.locked = true
	return nil
}

func (h *FileHandle) Size() (int64, error) {
	if h.file != nil {
		info, err := h.file.Stat()
		if err != nil {
			return 0, fmt.Errorf("stat %s: %v", h.path, err)
		}
		return info.Size(), nil
	}
	info, err := os.Stat(h.path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %v", h.path, err)
	}
	return info.Size(), nil
}

func (h *FileHandle) ReadAsync(buf []byte, offset int64, length int, cont Continuation) {
	h.slot.put(&asyncOp{buf: buf, offset: offset, length: length, cont: cont})
}

func (h *FileHandle) WriteAsync(buf []byte, offset int64, length int, cont Continuation) {
	h.slot.put(&asyncOp{write: true, buf: buf, offset: offset, length: length, cont: cont})
}

func (h *FileHandle) Service() {
	op := h.slot.take()
	if op == nil {
		return
	}
	if op.write {
		if !h.writeOpen {
			op.cont(0, ErrNotWritable)
			return
		}
		n, err := h.file.WriteAt(op.buf[:op.length], op.offset)
		op.cont(n, err)
		return
	}
	if !h.readOpen {
		op.cont(0, ErrNotReadable)
		return
	}
	n, err := h.file.ReadAt(op.buf[:op.length], op.offset)
	if errors.Is(err, io.EOF) && n > 0 {
		// partial final chunk
		err = nil
	}
	op.cont(n, err)
}

func (h *FileHandle) CloseForRead() error {
	if !h.readOpen {
		return nil
	}
	h.slot.clear()
	h.readOpen = false
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("close %s: %v", h.path, err)
	}
	h.file = nil
	return nil
}

// CloseForWrite flushes the file to disk, releases the lock and closes it.
// Idempotent.
func (h *FileHandle) CloseForWrite() error {
	if !h.writeOpen {
		return nil
	}
	h.slot.clear()
	h.writeOpen = false
	if err := h.file.Sync(); err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  h.path,
			"error": err.Error(),
		}).Warn("failed to sync destination file")
	}
	if h.locked {
		unlockFile(h.file)
		h.locked = false
	}
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("close %s: %v", h.path, err)
	}
	h.file = nil
	return nil
}
