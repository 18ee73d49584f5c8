package fcgi

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPairsRoundTrip(t *testing.T) {
	t.Parallel()

	pairs := map[string]string{
		"REQUEST_METHOD": "POST",
		"CONTENT_TYPE":   "multipart/form-data; boundary=abc",
		"EMPTY":          "",
		"LONG_VALUE":     strings.Repeat("x", 300),
		strings.Repeat("K", 200): "long key",
	}

	got, err := parsePairs(encodePairs(pairs))
	require.NoError(t, err)
	require.Equal(t, pairs, got)
}

func TestEncodeSize(t *testing.T) {
	t.Parallel()

	b := make([]byte, 4)
	require.Equal(t, 1, encodeSize(b, 127))
	require.Equal(t, byte(127), b[0])

	require.Equal(t, 4, encodeSize(b, 128))
	require.Equal(t, []byte{0x80, 0, 0, 128}, b)

	size, n := readSize(b)
	require.Equal(t, uint32(128), size)
	require.Equal(t, 4, n)
}

func TestParsePairsTruncated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "missing value length", data: []byte{4}},
		{name: "short long length", data: []byte{0x80, 0}},
		{name: "value past end", data: []byte{1, 5, 'a', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parsePairs(tt.data)
			require.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestRecordRead(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := newConn(nopCloser{&buf})
	require.NoError(t, c.writeRecord(typeStdin, 7, []byte("hello")))

	// header + content + padding to a multiple of 8
	require.Equal(t, headerLen+8, buf.Len())

	var rec record
	require.NoError(t, rec.read(&buf))
	require.Equal(t, typeStdin, rec.h.Type)
	require.Equal(t, uint16(7), rec.h.ID)
	require.Equal(t, []byte("hello"), rec.content())
}

func TestRecordReadBadVersion(t *testing.T) {
	t.Parallel()

	data := []byte{2, byte(typeStdin), 0, 1, 0, 0, 0, 0}
	var rec record
	err := rec.read(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestStreamWriterSplitsRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := newConn(nopCloser{&buf})
	w := newWriter(c, typeStdout, 1)

	payload := bytes.Repeat([]byte("a"), maxWrite+10)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var (
		rec   record
		got   []byte
		sizes []int
	)
	for buf.Len() > 0 {
		require.NoError(t, rec.read(&buf))
		require.Equal(t, typeStdout, rec.h.Type)
		sizes = append(sizes, int(rec.h.ContentLength))
		got = append(got, rec.content()...)
	}
	require.Equal(t, []int{maxWrite, 10, 0}, sizes)
	require.Equal(t, payload, got)
}

func TestRecTypeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "FCGI_BEGIN_REQUEST", typeBeginRequest.String())
	require.Equal(t, "FCGI_UNKNOWN_TYPE(42)", recType(42).String())
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }
