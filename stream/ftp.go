package stream

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/sirupsen/logrus"
)

// FTPHandle reads a remote file over an established FTP control connection.
// Each serviced read issues REST+RETR at the requested offset, so reads do not
// depend on any connection-side position. The handle is read-only.
type FTPHandle struct {
	conn     *ftp.ServerConn
	path     string
	ownsConn bool
	readOpen bool
	slot     opSlot
}

// NewFTPHandle wraps an existing connection. The caller keeps ownership of
// the connection; CloseForRead will not quit it.
func NewFTPHandle(conn *ftp.ServerConn, remotePath string) *FTPHandle {
	return &FTPHandle{conn: conn, path: remotePath}
}

// DialFTP connects to addr, logs in and returns a handle that owns the
// connection. Empty credentials fall back to anonymous login. CloseForRead
// quits the connection.
func DialFTP(addr, username, password string, timeout time.Duration, remotePath string) (*FTPHandle, error) {
	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %v", addr, err)
	}

	if username == "" {
		username = "anonymous"
		password = "anonymous"
	}
	if err := conn.Login(username, password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("login failed: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"address": addr,
		"path":    remotePath,
	}).Debug("FTP connection established")

	return &FTPHandle{conn: conn, path: remotePath, ownsConn: true}, nil
}

// OpenForRead verifies the connection is alive.
func (h *FTPHandle) OpenForRead() error {
	if h.conn == nil {
		return fmt.Errorf("ftp handle: no connection")
	}
	if err := h.conn.NoOp(); err != nil {
		return fmt.Errorf("ftp connection check failed: %v", err)
	}
	h.readOpen = true
	return nil
}

// OpenForWrite always fails; uploads go through a different path.
func (h *FTPHandle) OpenForWrite() error {
	return ErrNotWritable
}

// Size queries the remote file size with the SIZE command. Servers that do
// not support SIZE yield ErrSizeUnknown.
func (h *FTPHandle) Size() (int64, error) {
	size, err := h.conn.FileSize(h.path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSizeUnknown, err)
	}
	return size, nil
}

func (h *FTPHandle) ReadAsync(buf []byte, offset int64, length int, cont Continuation) {
	h.slot.put(&asyncOp{buf: buf, offset: offset, length: length, cont: cont})
}

func (h *FTPHandle) WriteAsync(buf []byte, offset int64, length int, cont Continuation) {
	h.slot.put(&asyncOp{write: true, buf: buf, offset: offset, length: length, cont: cont})
}

func (h *FTPHandle) Service() {
	op := h.slot.take()
	if op == nil {
		return
	}
	if op.write {
		op.cont(0, ErrNotWritable)
		return
	}
	if !h.readOpen {
		op.cont(0, ErrNotReadable)
		return
	}
	n, err := h.readAt(op.buf, op.offset, op.length)
	op.cont(n, err)
}

// readAt retrieves length bytes starting at offset using REST+RETR and then
// drops the data connection. A short body is reported through n, not as an
// error.
func (h *FTPHandle) readAt(buf []byte, offset int64, length int) (int, error) {
	resp, err := h.conn.RetrFrom(h.path, uint64(offset))
	if err != nil {
		return 0, fmt.Errorf("retrieve %s at offset %d: %v", h.path, offset, err)
	}

	n, err := io.ReadFull(resp, buf[:length])
	closeErr := resp.Close()
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	if err != nil {
		return n, fmt.Errorf("read %s at offset %d: %v", h.path, offset, err)
	}
	if closeErr != nil && !isBenignCloseError(closeErr) {
		logrus.WithFields(logrus.Fields{
			"path":  h.path,
			"error": closeErr.Error(),
		}).Warn("failed to close FTP data connection")
	}
	return n, nil
}

// Some servers answer the data-connection close with a stray positive reply.
func isBenignCloseError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "200") || strings.Contains(msg, "226")
}

// CloseForRead drops any pending operation and, when the handle owns the
// connection, quits it. Idempotent.
func (h *FTPHandle) CloseForRead() error {
	h.slot.clear()
	h.readOpen = false
	if h.ownsConn && h.conn != nil {
		conn := h.conn
		h.conn = nil
		if err := conn.Quit(); err != nil {
			return fmt.Errorf("quit: %v", err)
		}
	}
	return nil
}

func (h *FTPHandle) CloseForWrite() error {
	return nil
}
