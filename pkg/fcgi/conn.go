package fcgi

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"sync"
)

// conn sends records over rwc.
type conn struct {
	mutex sync.Mutex
	rwc   io.ReadWriteCloser

	// to avoid allocations
	buf bytes.Buffer
	h   header
}

func newConn(rwc io.ReadWriteCloser) *conn {
	return &conn{rwc: rwc}
}

func (c *conn) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.rwc.Close()
}

// writeRecord writes and sends a single record.
func (c *conn) writeRecord(t recType, reqID uint16, b []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.buf.Reset()
	c.h.init(t, reqID, len(b))

	var hb [headerLen]byte
	c.h.marshal(hb[:])
	c.buf.Write(hb[:])
	c.buf.Write(b)
	var pad [maxPad]byte
	c.buf.Write(pad[:c.h.PaddingLength])
	_, err := c.rwc.Write(c.buf.Bytes())
	return err
}

func (c *conn) writeEndRequest(reqID uint16, appStatus int, protocolStatus uint8) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b, uint32(appStatus))
	b[4] = protocolStatus
	return c.writeRecord(typeEndRequest, reqID, b)
}

func (c *conn) writePairs(t recType, reqID uint16, pairs map[string]string) error {
	w := newWriter(c, t, reqID)
	if _, err := w.Write(encodePairs(pairs)); err != nil {
		return err
	}
	return w.Close()
}

// bufWriter encapsulates bufio.Writer but also closes the underlying stream
// when Closed.
type bufWriter struct {
	closer io.Closer
	*bufio.Writer
}

func (w *bufWriter) Close() error {
	if err := w.Flush(); err != nil {
		w.closer.Close()
		return err
	}
	return w.closer.Close()
}

func newWriter(c *conn, t recType, reqID uint16) *bufWriter {
	s := &streamWriter{c: c, t: t, reqID: reqID}
	w := bufio.NewWriterSize(s, maxWrite)
	return &bufWriter{s, w}
}

// streamWriter abstracts out the separation of a stream into discrete
// records. It only writes maxWrite bytes at a time.
type streamWriter struct {
	c     *conn
	t     recType
	reqID uint16
}

func (w *streamWriter) Write(p []byte) (int, error) {
	nn := 0
	for len(p) > 0 {
		n := len(p)
		if n > maxWrite {
			n = maxWrite
		}
		if err := w.c.writeRecord(w.t, w.reqID, p[:n]); err != nil {
			return nn, err
		}
		nn += n
		p = p[n:]
	}
	return nn, nil
}

// Close terminates the stream with an empty record.
func (w *streamWriter) Close() error {
	return w.c.writeRecord(w.t, w.reqID, nil)
}
