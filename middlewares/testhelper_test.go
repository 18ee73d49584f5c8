package middlewares_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/joshinkan/mailserver/internal"
	"github.com/joshinkan/mailserver/middlewares"
	"github.com/joshinkan/mailserver/pkg/logger"
)

func newTestContext(params map[string]string, server *internal.ServerContext) (internal.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, slog.LevelDebug,
		middlewares.RequestIDExtractor(),
	)
	if params == nil {
		params = map[string]string{
			internal.ParamRequestMethod: http.MethodPost,
			internal.ParamScriptName:    "/api/trial-registration",
		}
	}
	return internal.NewContext(context.Background(), server, params, nil, log), &buf
}

func okHandler(c internal.Context) internal.Response {
	return internal.Message(http.StatusOK, "Email sent.")
}
