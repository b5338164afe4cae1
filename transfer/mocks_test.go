package transfer

import "ftpget/stream"

// opRecord is the offset and requested length of one serviced operation.
type opRecord struct {
	offset int64
	length int
}

// mockHandle is an in-memory stream.Handle that records every operation it
// services. Queueing a second operation before the first one is serviced
// panics, which lets the tests assert the pump's strict alternation
// invariant simply by finishing without a panic.
type mockHandle struct {
	data []byte // bytes served to reads
	out  []byte // bytes received from writes
	size int64

	sizeErr      error
	openReadErr  error
	openWriteErr error
	readErr      error
	shortRead    int // if > 0, serve at most this many bytes per read

	pending     *mockOp
	reads       []opRecord
	writes      []opRecord
	closedRead  int
	closedWrite int
}

type mockOp struct {
	write  bool
	buf    []byte
	offset int64
	length int
	cont   stream.Continuation
}

func newMockReader(data []byte) *mockHandle {
	return &mockHandle{data: data, size: int64(len(data))}
}

func newMockWriter() *mockHandle {
	return &mockHandle{}
}

func (m *mockHandle) OpenForRead() error  { return m.openReadErr }
func (m *mockHandle) OpenForWrite() error { return m.openWriteErr }

func (m *mockHandle) Size() (int64, error) {
	if m.sizeErr != nil {
		return 0, m.sizeErr
	}
	return m.size, nil
}

func (m *mockHandle) ReadAsync(buf []byte, offset int64, length int, cont stream.Continuation) {
	m.queue(&mockOp{buf: buf, offset: offset, length: length, cont: cont})
}

func (m *mockHandle) WriteAsync(buf []byte, offset int64, length int, cont stream.Continuation) {
	m.queue(&mockOp{write: true, buf: buf, offset: offset, length: length, cont: cont})
}

func (m *mockHandle) queue(op *mockOp) {
	if m.pending != nil {
		panic("mockHandle: operation queued while another is outstanding")
	}
	m.pending = op
}

func (m *mockHandle) Service() {
	op := m.pending
	if op == nil {
		return
	}
	m.pending = nil

	if op.write {
		m.writes = append(m.writes, opRecord{offset: op.offset, length: op.length})
		end := op.offset + int64(op.length)
		if int64(len(m.out)) < end {
			m.out = append(m.out, make([]byte, end-int64(len(m.out)))...)
		}
		copy(m.out[op.offset:end], op.buf[:op.length])
		op.cont(op.length, nil)
		return
	}

	if m.readErr != nil {
		op.cont(0, m.readErr)
		return
	}
	m.reads = append(m.reads, opRecord{offset: op.offset, length: op.length})
	n := op.length
	if m.shortRead > 0 && n > m.shortRead {
		n = m.shortRead
	}
	copy(op.buf[:n], m.data[op.offset:op.offset+int64(n)])
	op.cont(n, nil)
}

func (m *mockHandle) CloseForRead() error {
	m.pending = nil
	m.closedRead++
	return nil
}

func (m *mockHandle) CloseForWrite() error {
	m.pending = nil
	m.closedWrite++
	return nil
}

// makeTestData builds a deterministic byte pattern of the given length.
func makeTestData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*31 + 7)
	}
	return data
}
