package internal

import (
	"net/http"
	"slices"
)

// Router is the interface handlers use to declare routes.
type Router interface {
	// GET registers a handler for GET requests.
	GET(path string, h HandlerFunc, mw ...Middleware)

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware)

	// Handle registers a handler for an arbitrary method.
	Handle(method, path string, h HandlerFunc, mw ...Middleware)
}

// Route binds an exact path and method to a handler.
type Route struct {
	Path    string
	Method  string
	Handler HandlerFunc
}

// RouteTable is an ordered list of routes. The first route whose path and
// method both equal the request's wins; there is no pattern matching.
type RouteTable struct {
	routes []Route
}

// NewRouteTable creates an empty table.
func NewRouteTable() *RouteTable {
	return &RouteTable{}
}

func (t *RouteTable) GET(path string, h HandlerFunc, mw ...Middleware) {
	t.Handle(http.MethodGet, path, h, mw...)
}

func (t *RouteTable) POST(path string, h HandlerFunc, mw ...Middleware) {
	t.Handle(http.MethodPost, path, h, mw...)
}

func (t *RouteTable) Handle(method, path string, h HandlerFunc, mw ...Middleware) {
	t.routes = append(t.routes, Route{
		Path:    path,
		Method:  method,
		Handler: chain(h, mw...),
	})
}

// Routes returns a copy of the registered routes in registration order.
func (t *RouteTable) Routes() []Route {
	return slices.Clone(t.routes)
}

// Match dispatches c to the first matching route. A request without a path
// or method gets a 500; a request no route matches gets the canned 404.
func (t *RouteTable) Match(c Context) Response {
	path, hasPath := c.LookupParam(ParamScriptName)
	method, hasMethod := c.LookupParam(ParamRequestMethod)
	if !hasPath || !hasMethod || path == "" || method == "" {
		return Text(http.StatusInternalServerError, "Server not initialized")
	}

	for _, route := range t.routes {
		if route.Path == path && route.Method == method {
			return route.Handler(c)
		}
	}
	return NotFound()
}

// chain applies mw so that the first middleware is the outermost.
func chain(h HandlerFunc, mw ...Middleware) HandlerFunc {
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	return h
}
