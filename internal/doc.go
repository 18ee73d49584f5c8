// Package internal is the request layer of the mail server: it turns FastCGI
// requests into handler calls and handler results into responses.
//
// # Core Types
//
//   - ServerContext: process-wide configuration, built once and shared read-only
//   - Context: the read-only view of one request (FastCGI parameters and body)
//   - Response: status, headers and either a raw text body or a JSON value
//   - ResponseWriter: serializes a Response onto the FastCGI stdout stream
//   - RouteTable: exact path and method matching, first match wins
//   - App: the accept loop tying it together
//
// # Handlers
//
// Handlers are functions from a Context to a Response. They never write to
// the connection themselves and never mutate shared state:
//
//	func (h *Handler) Routes(r internal.Router) {
//	    r.POST("/api/trial-registration", h.register)
//	}
//
//	func (h *Handler) register(c internal.Context) internal.Response {
//	    data, err := c.FormData()
//	    if err != nil {
//	        return internal.ErrorResponse(c, internal.ErrBadRequest("Form data could not be parsed.", internal.WithError(err)))
//	    }
//	    ...
//	    return internal.Message(http.StatusOK, "Email sent.")
//	}
//
// # Response Wire Format
//
// A response is a status line, the headers sorted by name, a blank line and
// the body:
//
//	HTTP/1.1 200 OK
//	Content-Length: 25
//	Content-Type: application/json
//	Status: 200 OK
//
//	{"message":"Email sent."}
//
// Content-Length and Status are always computed by the ResponseWriter. A JSON
// value that cannot be encoded is replaced by a fixed 500 body.
//
// # Lifecycle
//
// App.Run accepts one request at a time until SIGINT or SIGTERM, then lets
// the in-flight request finish before closing the listener.
package internal
