package smtp

import "io"

// payloadReader hands out a serialized message in chunks no larger than the
// caller's buffer. The cursor is the only state and the reader owns the
// payload for the duration of one DATA transfer.
type payloadReader struct {
	payload []byte
	off     int
}

func newPayloadReader(payload []byte) *payloadReader {
	return &payloadReader{payload: payload}
}

func (r *payloadReader) Read(p []byte) (int, error) {
	if r.off >= len(r.payload) {
		return 0, io.EOF
	}
	n := copy(p, r.payload[r.off:])
	r.off += n
	return n, nil
}

// Len returns the number of bytes not yet read.
func (r *payloadReader) Len() int {
	return len(r.payload) - r.off
}
