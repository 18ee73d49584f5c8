package middlewares

import "github.com/joshinkan/mailserver/internal"

// DebugOnly hides a route behind ServerContext.Debug. With debugging off the
// route answers like an unknown path.
func DebugOnly() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) internal.Response {
			if !c.Server().Debug {
				return internal.NotFound()
			}
			return next(c)
		}
	}
}
