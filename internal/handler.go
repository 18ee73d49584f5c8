package internal

// Handler declares routes on a router.
//
// Example:
//
//	type RegistrationHandler struct {
//	    mailer *mailer.Mailer
//	}
//
//	func (h *RegistrationHandler) Routes(r internal.Router) {
//	    r.POST("/api/trial-registration", h.register)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers. Handlers only read the
// request and the shared ServerContext and return the response to write.
type HandlerFunc func(c Context) Response

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect the request, short-circuit processing,
// or decorate the response.
//
// Example:
//
//	func Debug(next internal.HandlerFunc) internal.HandlerFunc {
//	    return func(c internal.Context) internal.Response {
//	        if !c.Server().Debug {
//	            return internal.NotFound()
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc
