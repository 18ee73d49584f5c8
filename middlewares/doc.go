// Package middlewares provides the request middlewares of the mail server.
//
// # Request ID
//
// RequestID takes the id forwarded by the web server in X-Request-Id (the
// HTTP_X_REQUEST_ID parameter) or generates a UUID, stores it in the request
// context and echoes it as X-Request-Id response header. RequestIDExtractor
// adds it to every log line:
//
//	app := internal.New(server,
//	    internal.WithLogger("mailserver", slog.LevelInfo, middlewares.RequestIDExtractor()),
//	    internal.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns a handler panic into a 500 {"error": ...} response and logs
// the panic value with its stack.
//
// # Access log
//
// AccessLog logs status and duration once per request. Like every line
// logged through the request Context it also carries method and path.
//
// # Debug routes
//
// DebugOnly answers 404 unless the server runs with debugging enabled.
//
// Register RequestID first so every later middleware and handler logs with
// the request id:
//
//	internal.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.AccessLog(),
//	    middlewares.Recover(),
//	)
package middlewares
