package handlers

import (
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/joshinkan/mailserver/internal"
	"github.com/joshinkan/mailserver/middlewares"
)

// Debug exposes request introspection. Its routes answer 404 unless the
// server runs in debug mode.
type Debug struct{}

// NewDebug creates the debug handler.
func NewDebug() *Debug {
	return &Debug{}
}

// Routes implements internal.Handler.
func (h *Debug) Routes(r internal.Router) {
	r.GET("/api/print-env", h.printEnv, middlewares.DebugOnly())
}

// printEnv lists every FastCGI parameter as "Key: Value<br/>", sorted by key.
func (h *Debug) printEnv(c internal.Context) internal.Response {
	params := c.Params()

	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(params)) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(params[key])
		b.WriteString("<br/>\n")
	}
	return internal.HTML(http.StatusOK, b.String())
}
