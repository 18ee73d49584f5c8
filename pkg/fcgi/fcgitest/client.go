// Package fcgitest plays the web server side of FastCGI for tests: it sends
// one responder request and collects the response streams.
package fcgitest

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"slices"
	"time"
)

const (
	typeBeginRequest = 1
	typeEndRequest   = 3
	typeParams       = 4
	typeStdin        = 5
	typeStdout       = 6
	typeStderr       = 7

	roleResponder = 1
	maxContent    = 65535
)

// ErrConnClosed is returned when the responder closes the connection before
// ending the request.
var ErrConnClosed = errors.New("fcgitest: connection closed before end of request")

// Response is what the responder sent back for one request.
type Response struct {
	Stdout         []byte
	Stderr         []byte
	AppStatus      uint32
	ProtocolStatus uint8
}

// Do dials addr, sends a single request with the given parameters and body
// and waits for FCGI_END_REQUEST. Without a deadline on ctx the exchange is
// limited to ten seconds.
func Do(ctx context.Context, network, addr string, params map[string]string, body []byte) (*Response, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(10 * time.Second)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	const id = 1
	var out bytes.Buffer
	begin := make([]byte, 8)
	binary.BigEndian.PutUint16(begin, roleResponder)
	writeRecord(&out, typeBeginRequest, id, begin)
	writeStream(&out, typeParams, id, EncodePairs(params))
	writeStream(&out, typeStdin, id, body)
	if _, err := conn.Write(out.Bytes()); err != nil {
		return nil, err
	}

	resp := &Response{}
	for {
		typ, content, err := readRecord(conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return resp, ErrConnClosed
			}
			return resp, err
		}
		switch typ {
		case typeStdout:
			resp.Stdout = append(resp.Stdout, content...)
		case typeStderr:
			resp.Stderr = append(resp.Stderr, content...)
		case typeEndRequest:
			if len(content) < 8 {
				return resp, fmt.Errorf("fcgitest: short end request body: %d bytes", len(content))
			}
			resp.AppStatus = binary.BigEndian.Uint32(content)
			resp.ProtocolStatus = content[4]
			return resp, nil
		}
	}
}

// EncodePairs encodes name-value pairs in sorted key order.
func EncodePairs(pairs map[string]string) []byte {
	var out []byte
	size := func(n int) {
		if n > 127 {
			out = binary.BigEndian.AppendUint32(out, uint32(n)|1<<31)
			return
		}
		out = append(out, byte(n))
	}
	for _, k := range slices.Sorted(maps.Keys(pairs)) {
		size(len(k))
		size(len(pairs[k]))
		out = append(out, k...)
		out = append(out, pairs[k]...)
	}
	return out
}

// writeStream writes content split into records followed by the empty
// record closing the stream.
func writeStream(w *bytes.Buffer, typ uint8, id uint16, content []byte) {
	for len(content) > 0 {
		n := min(len(content), maxContent)
		writeRecord(w, typ, id, content[:n])
		content = content[n:]
	}
	writeRecord(w, typ, id, nil)
}

func writeRecord(w *bytes.Buffer, typ uint8, id uint16, content []byte) {
	pad := -len(content) & 7
	var h [8]byte
	h[0] = 1
	h[1] = typ
	binary.BigEndian.PutUint16(h[2:], id)
	binary.BigEndian.PutUint16(h[4:], uint16(len(content)))
	h[6] = uint8(pad)
	w.Write(h[:])
	w.Write(content)
	w.Write(make([]byte, pad))
}

func readRecord(r io.Reader) (uint8, []byte, error) {
	var h [8]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return 0, nil, err
	}
	n := int(binary.BigEndian.Uint16(h[4:]))
	body := make([]byte, n+int(h[6]))
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return h[1], body[:n], nil
}
