package internal

import (
	"maps"
	"net/http"
)

// Content types used by the built-in responses.
const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html"
)

// Response is the result of a handler. Exactly one of a text body or a JSON
// value is set, chosen by the constructor.
type Response struct {
	Status  int
	Headers map[string]string

	text   string
	json   any
	isJSON bool
}

// Text creates a response with a raw body. The body must be ASCII.
func Text(status int, body string) Response {
	return Response{Status: status, text: body}
}

// HTML creates a text/html response.
func HTML(status int, body string) Response {
	return Text(status, body).WithHeader("Content-Type", ContentTypeHTML)
}

// JSON creates a response whose body is v encoded as JSON. Encoding happens
// when the response is written.
func JSON(status int, v any) Response {
	return Response{Status: status, json: v, isJSON: true}
}

// WithHeader returns a copy of r with the header set.
func (r Response) WithHeader(name, value string) Response {
	headers := make(map[string]string, len(r.Headers)+1)
	maps.Copy(headers, r.Headers)
	headers[name] = value
	r.Headers = headers
	return r
}

// IsJSON reports whether the body is a JSON value.
func (r Response) IsJSON() bool {
	return r.isJSON
}

// Body returns the raw text body. It is empty for JSON responses.
func (r Response) Body() string {
	return r.text
}

// Value returns the JSON value. It is nil for text responses.
func (r Response) Value() any {
	return r.json
}

// StatusText returns the reason phrase for the status line.
func (r Response) StatusText() string {
	return statusText(r.Status)
}

// message is the JSON body of every API response.
type message struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Message creates a JSON {"message": msg} response.
func Message(status int, msg string) Response {
	return JSON(status, message{Message: msg})
}

// ErrorMessage creates a JSON {"error": msg} response.
func ErrorMessage(status int, msg string) Response {
	return JSON(status, message{Error: msg})
}

// NotFound is the canned response for unmatched routes.
func NotFound() Response {
	return HTML(http.StatusNotFound, "<center><h1>Not Found</h1></center>")
}
