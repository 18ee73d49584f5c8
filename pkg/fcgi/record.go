package fcgi

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// recType is a record type, as defined by the FastCGI specification section 8.
type recType uint8

const (
	typeBeginRequest    recType = 1
	typeAbortRequest    recType = 2
	typeEndRequest      recType = 3
	typeParams          recType = 4
	typeStdin           recType = 5
	typeStdout          recType = 6
	typeStderr          recType = 7
	typeData            recType = 8
	typeGetValues       recType = 9
	typeGetValuesResult recType = 10
	typeUnknownType     recType = 11
)

func (t recType) String() string {
	switch t {
	case typeBeginRequest:
		return "FCGI_BEGIN_REQUEST"
	case typeAbortRequest:
		return "FCGI_ABORT_REQUEST"
	case typeEndRequest:
		return "FCGI_END_REQUEST"
	case typeParams:
		return "FCGI_PARAMS"
	case typeStdin:
		return "FCGI_STDIN"
	case typeStdout:
		return "FCGI_STDOUT"
	case typeStderr:
		return "FCGI_STDERR"
	case typeData:
		return "FCGI_DATA"
	case typeGetValues:
		return "FCGI_GET_VALUES"
	case typeGetValuesResult:
		return "FCGI_GET_VALUES_RESULT"
	default:
		return fmt.Sprintf("FCGI_UNKNOWN_TYPE(%d)", uint8(t))
	}
}

const (
	version   = 1
	headerLen = 8
	maxWrite  = 65535 // maximum record body
	maxPad    = 255
)

// keep the connection between web server and responder open after request
const flagKeepConn = 1

const (
	roleResponder = iota + 1 // only responders are implemented
	roleAuthorizer
	roleFilter
)

const (
	statusRequestComplete = iota
	statusCantMultiplex
	statusOverloaded
	statusUnknownRole
)

type header struct {
	Version       uint8
	Type          recType
	ID            uint16
	ContentLength uint16
	PaddingLength uint8
	Reserved      uint8
}

func (h *header) init(t recType, reqID uint16, contentLength int) {
	h.Version = version
	h.Type = t
	h.ID = reqID
	h.ContentLength = uint16(contentLength)
	h.PaddingLength = uint8(-contentLength & 7)
}

func (h *header) marshal(b []byte) {
	b[0] = h.Version
	b[1] = byte(h.Type)
	binary.BigEndian.PutUint16(b[2:4], h.ID)
	binary.BigEndian.PutUint16(b[4:6], h.ContentLength)
	b[6] = h.PaddingLength
	b[7] = h.Reserved
}

func (h *header) unmarshal(b []byte) {
	h.Version = b[0]
	h.Type = recType(b[1])
	h.ID = binary.BigEndian.Uint16(b[2:4])
	h.ContentLength = binary.BigEndian.Uint16(b[4:6])
	h.PaddingLength = b[6]
	h.Reserved = b[7]
}

type record struct {
	h   header
	buf [maxWrite + maxPad]byte
}

func (rec *record) read(r io.Reader) error {
	var hb [headerLen]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		return err
	}
	rec.h.unmarshal(hb[:])
	if rec.h.Version != version {
		return fmt.Errorf("%w: version %d", ErrInvalidHeader, rec.h.Version)
	}
	n := int(rec.h.ContentLength) + int(rec.h.PaddingLength)
	if _, err := io.ReadFull(r, rec.buf[:n]); err != nil {
		return err
	}
	return nil
}

func (rec *record) content() []byte {
	return rec.buf[:rec.h.ContentLength]
}

type beginRequest struct {
	role  uint16
	flags uint8
}

func (br *beginRequest) read(content []byte) error {
	if len(content) != 8 {
		return fmt.Errorf("%w: begin request body of %d bytes", ErrInvalidHeader, len(content))
	}
	br.role = binary.BigEndian.Uint16(content)
	br.flags = content[2]
	return nil
}

// readSize decodes a name-value pair length: one byte when the high bit is
// clear, four bytes otherwise.
func readSize(s []byte) (uint32, int) {
	if len(s) == 0 {
		return 0, 0
	}
	size, n := uint32(s[0]), 1
	if size&(1<<7) != 0 {
		if len(s) < 4 {
			return 0, 0
		}
		n = 4
		size = binary.BigEndian.Uint32(s)
		size &^= 1 << 31
	}
	return size, n
}

func encodeSize(b []byte, size uint32) int {
	if size > 127 {
		size |= 1 << 31
		binary.BigEndian.PutUint32(b, size)
		return 4
	}
	b[0] = byte(size)
	return 1
}

// parsePairs decodes a complete name-value pair stream. Truncated trailing
// data is reported as ErrInvalidParams.
func parsePairs(text []byte) (map[string]string, error) {
	pairs := make(map[string]string)
	for len(text) > 0 {
		keyLen, n := readSize(text)
		if n == 0 {
			return nil, ErrInvalidParams
		}
		text = text[n:]
		valLen, n := readSize(text)
		if n == 0 {
			return nil, ErrInvalidParams
		}
		text = text[n:]
		if uint64(keyLen)+uint64(valLen) > uint64(len(text)) {
			return nil, ErrInvalidParams
		}
		key := string(text[:keyLen])
		text = text[keyLen:]
		pairs[key] = string(text[:valLen])
		text = text[valLen:]
	}
	return pairs, nil
}

// encodePairs encodes pairs sorted by name so the byte stream is stable.
func encodePairs(pairs map[string]string) []byte {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []byte
	b := make([]byte, 8)
	for _, k := range keys {
		v := pairs[k]
		n := encodeSize(b, uint32(len(k)))
		n += encodeSize(b[n:], uint32(len(v)))
		out = append(out, b[:n]...)
		out = append(out, k...)
		out = append(out, v...)
	}
	return out
}
