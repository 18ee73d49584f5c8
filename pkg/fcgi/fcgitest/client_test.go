package fcgitest_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshinkan/mailserver/pkg/fcgi"
	"github.com/joshinkan/mailserver/pkg/fcgi/fcgitest"
)

func TestDo(t *testing.T) {
	t.Parallel()

	ln, err := fcgi.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		req, err := ln.Accept()
		if err != nil {
			return
		}
		method, _ := req.Param("REQUEST_METHOD")
		body, _ := io.ReadAll(req.Stdin())
		_, _ = io.WriteString(req.Stdout(), method+" "+string(body))
		_, _ = io.WriteString(req.Stderr(), "warning")
		_ = req.FinishStatus(3)
	}()

	resp, err := fcgitest.Do(context.Background(), "tcp", ln.Addr().String(),
		map[string]string{"REQUEST_METHOD": "POST"}, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "POST hello", string(resp.Stdout))
	require.Equal(t, "warning", string(resp.Stderr))
	require.Equal(t, uint32(3), resp.AppStatus)
	require.Zero(t, resp.ProtocolStatus)
}
