package middlewares_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joshinkan/mailserver/internal"
	"github.com/joshinkan/mailserver/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestContext(nil, nil)
		resp := middlewares.RequestID()(okHandler)(c)

		id := resp.Headers["X-Request-Id"]
		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.Equal(t, id, middlewares.GetRequestID(c))
	})

	t.Run("uses forwarded request ID", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestContext(map[string]string{"HTTP_X_REQUEST_ID": "existing-request-id-123"}, nil)
		resp := middlewares.RequestID()(okHandler)(c)
		require.Equal(t, "existing-request-id-123", resp.Headers["X-Request-Id"])
	})

	t.Run("checks headers in order", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestContext(map[string]string{
			"HTTP_X_CORRELATION_ID": "correlation",
			"HTTP_X_TRACE_ID":       "trace",
		}, nil)
		mw := middlewares.RequestID(middlewares.WithRequestIDHeaders("X-Trace-Id", "X-Correlation-Id"))
		resp := mw(okHandler)(c)
		require.Equal(t, "trace", resp.Headers["X-Request-Id"])
	})

	t.Run("custom generator and response header", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestContext(nil, nil)
		mw := middlewares.RequestID(
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
		)
		resp := mw(okHandler)(c)
		require.Equal(t, "fixed", resp.Headers["X-Trace"])
		require.NotContains(t, resp.Headers, "X-Request-Id")
	})

	t.Run("request id is logged", func(t *testing.T) {
		t.Parallel()

		c, logs := newTestContext(nil, nil)
		mw := middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "req-42" }))
		mw(func(c internal.Context) internal.Response {
			c.LogInfo("inside handler")
			return internal.Message(http.StatusOK, "ok")
		})(c)

		require.Contains(t, logs.String(), `"request_id":"req-42"`)
	})

	t.Run("GetRequestID without middleware", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestContext(nil, nil)
		require.Empty(t, middlewares.GetRequestID(c))
	})
}
