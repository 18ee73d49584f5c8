package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/joshinkan/mailserver/pkg/formdata"
	"github.com/joshinkan/mailserver/pkg/logger"
)

// FastCGI parameters describing the request.
const (
	ParamContentLength = "CONTENT_LENGTH"
	ParamContentType   = "CONTENT_TYPE"
	ParamScriptName    = "SCRIPT_NAME"
	ParamRequestMethod = "REQUEST_METHOD"
	ParamHTTPHost      = "HTTP_HOST"
	ParamScheme        = "X_SCHEME"
	ParamHTTPS         = "HTTPS"
)

// ErrNoContentLength is returned by FormData when the request does not
// declare a body length.
var ErrNoContentLength = errors.New("request has no valid content length")

// Context is the read-only view of one request handed to handlers. It also
// implements context.Context by delegating to the context the request is
// served under.
type Context interface {
	context.Context

	// Server returns the shared process configuration.
	Server() *ServerContext

	// Param returns a FastCGI parameter, or "" when it is not set.
	Param(name string) string

	// LookupParam returns a FastCGI parameter and whether it is set.
	LookupParam(name string) (string, bool)

	// Params returns a copy of all FastCGI parameters.
	Params() map[string]string

	// Method returns REQUEST_METHOD.
	Method() string

	// Path returns SCRIPT_NAME, which the web server sets to the request path.
	Path() string

	// Header returns an HTTP request header forwarded as an HTTP_* parameter.
	Header(name string) string

	// ContentType returns CONTENT_TYPE.
	ContentType() string

	// ContentLength returns CONTENT_LENGTH and whether it is a valid length.
	ContentLength() (int, bool)

	// Body returns the request body, cut to CONTENT_LENGTH.
	Body() []byte

	// FormData parses a multipart/form-data body.
	FormData() (formdata.Data, error)

	// SiteURL returns the configured domain. Without one it is scheme://host
	// of the request, or "" when the request carries no host either.
	SiteURL() string

	// Set stores a request-scoped value. It is visible through Value and Get.
	Set(key, value any)

	// Get returns a request-scoped value stored with Set.
	Get(key any) any

	// Logger returns the request logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)
}

type requestContext struct {
	ctx    context.Context
	server *ServerContext
	params map[string]string
	body   []byte
	logger *slog.Logger
}

// NewContext builds the Context for a single request. Records logged through
// it carry the request method and path.
func NewContext(ctx context.Context, server *ServerContext, params map[string]string, body []byte, log *slog.Logger) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if server == nil {
		server = NewServerContext(ServerContext{})
	}
	if params == nil {
		params = map[string]string{}
	}
	if log == nil {
		log = logger.NewNope()
	}

	var attrs []slog.Attr
	if m := params[ParamRequestMethod]; m != "" {
		attrs = append(attrs, slog.String("method", m))
	}
	if p := params[ParamScriptName]; p != "" {
		attrs = append(attrs, slog.String("path", p))
	}
	ctx = logger.WithAttrs(ctx, attrs...)

	return &requestContext{
		ctx:    ctx,
		server: server,
		params: params,
		body:   body,
		logger: log,
	}
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.ctx.Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *requestContext) Err() error {
	return c.ctx.Err()
}

func (c *requestContext) Value(key any) any {
	return c.ctx.Value(key)
}

func (c *requestContext) Server() *ServerContext {
	return c.server
}

func (c *requestContext) Param(name string) string {
	return c.params[name]
}

func (c *requestContext) LookupParam(name string) (string, bool) {
	v, ok := c.params[name]
	return v, ok
}

func (c *requestContext) Params() map[string]string {
	return maps.Clone(c.params)
}

func (c *requestContext) Method() string {
	return c.params[ParamRequestMethod]
}

func (c *requestContext) Path() string {
	return c.params[ParamScriptName]
}

// Header maps X-Request-Id to HTTP_X_REQUEST_ID the way CGI does.
func (c *requestContext) Header(name string) string {
	key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return c.params[key]
}

func (c *requestContext) ContentType() string {
	return c.params[ParamContentType]
}

func (c *requestContext) ContentLength() (int, bool) {
	n, ok := Param[int](c, ParamContentLength)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

func (c *requestContext) Body() []byte {
	if n, ok := c.ContentLength(); ok && n < len(c.body) {
		return c.body[:n]
	}
	return c.body
}

func (c *requestContext) FormData() (formdata.Data, error) {
	if _, ok := c.ContentLength(); !ok {
		return nil, ErrNoContentLength
	}
	boundary, err := formdata.BoundaryFromContentType(c.ContentType())
	if err != nil {
		return nil, err
	}
	data, err := formdata.Parse(c.Body(), boundary, c.server.Linebreak)
	if err != nil {
		return nil, fmt.Errorf("parse form data: %w", err)
	}
	return data, nil
}

// A configured domain wins over the request's Host header.
func (c *requestContext) SiteURL() string {
	if domain := strings.TrimSuffix(c.server.Domain, "/"); domain != "" {
		return domain
	}
	host := c.params[ParamHTTPHost]
	if host == "" {
		return ""
	}
	return c.scheme() + "://" + host
}

func (c *requestContext) scheme() string {
	if s := c.params[ParamScheme]; s != "" {
		return s
	}
	if strings.EqualFold(c.params[ParamHTTPS], "on") {
		return "https"
	}
	return "http"
}

func (c *requestContext) Set(key, value any) {
	c.ctx = context.WithValue(c.ctx, key, value)
}

func (c *requestContext) Get(key any) any {
	return c.ctx.Value(key)
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c, msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c, msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c, msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c, msg, attrs...)
}
