package stream

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

// HTTPHandle reads a remote file over HTTP(S). Size comes from a HEAD
// request; each serviced read issues a ranged GET for exactly the requested
// region. The handle is read-only.
type HTTPHandle struct {
	// Client may be replaced before OpenForRead to customize transport
	// behavior. Defaults to a plain http.Client.
	Client *http.Client

	url      string
	readOpen bool
	slot     opSlot
}

// NewHTTPHandle creates a handle for an http:// or https:// URL.
func NewHTTPHandle(rawURL string) *HTTPHandle {
	return &HTTPHandle{Client: &http.Client{}, url: rawURL}
}

// OpenForRead validates the URL.
func (h *HTTPHandle) OpenForRead() error {
	u, err := url.Parse(h.url)
	if err != nil {
		return fmt.Errorf("parse url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	h.readOpen = true
	return nil
}

func (h *HTTPHandle) OpenForWrite() error {
	return ErrNotWritable
}

// Size issues a HEAD request. Servers that reject HEAD or omit
// Content-Length yield ErrSizeUnknown.
func (h *HTTPHandle) Size() (int64, error) {
	resp, err := h.Client.Head(h.url)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSizeUnknown, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: HEAD returned %s", ErrSizeUnknown, resp.Status)
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("%w: no Content-Length", ErrSizeUnknown)
	}
	return resp.ContentLength, nil
}

func (h *HTTPHandle) ReadAsync(buf []byte, offset int64, length int, cont Continuation) {
	h.slot.put(&asyncOp{buf: buf, offset: offset, length: length, cont: cont})
}

func (h *HTTPHandle) WriteAsync(buf []byte, offset int64, length int, cont Continuation) {
	h.slot.put(&asyncOp{write: true, buf: buf, offset: offset, length: length, cont: cont})
}

func (h *HTTPHandle) Service() {
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

// readAt fetches [offset, offset+length) with a Range request. A short body
// is reported through n, not as an error.
func (h *HTTPHandle) readAt(buf []byte, offset int64, length int) (int, error) {
	req, err := http.NewRequest(http.MethodGet, h.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %v", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+int64(length)-1))

	resp, err := h.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET at offset %d: %v", offset, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		// requested range honored
	case http.StatusOK:
		// Server ignored the Range header and is sending the whole file.
		// That is only usable when we wanted the file from the start.
		if offset > 0 {
			return 0, fmt.Errorf("server does not support range requests (got %s for offset %d)", resp.Status, offset)
		}
		logrus.WithField("url", h.url).Debug("server ignored Range header, reading from start")
	default:
		return 0, fmt.Errorf("GET at offset %d: unexpected status %s", offset, resp.Status)
	}

	n, err := io.ReadFull(resp.Body, buf[:length])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	if err != nil {
		return n, fmt.Errorf("read body at offset %d: %v", offset, err)
	}
	return n, nil
}

func (h *HTTPHandle) CloseForRead() error {
	h.slot.clear()
	h.readOpen = false
	return nil
}

func (h *HTTPHandle) CloseForWrite() error {
	return nil
}
