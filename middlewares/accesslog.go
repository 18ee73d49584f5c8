package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/joshinkan/mailserver/internal"
)

// AccessLog returns middleware that logs one line per request with status
// and duration. Server errors are logged at error level, client errors at
// warn.
func AccessLog() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) internal.Response {
			start := time.Now()

			resp := next(c)

			status := statusOf(resp)
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			c.Logger().Log(c, level, "request served",
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			)
			return resp
		}
	}
}

func statusOf(resp internal.Response) int {
	if resp.Status == 0 {
		return http.StatusOK
	}
	return resp.Status
}
