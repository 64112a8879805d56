package http11

import (
	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/extensions"
)

// Response is one HTTP/1.1 response: status, headers, body, and a typed
// extension bag.
type Response struct {
	Status     Status
	Headers    *Headers
	Body       body.Body
	Extensions *extensions.Extensions
}

// NewResponse creates a response with the given status and body.
func NewResponse(status Status, b body.Body) *Response {
	if b == nil {
		b = body.Empty()
	}
	return &Response{
		Status:     status,
		Headers:    NewHeaders(),
		Body:       b,
		Extensions: extensions.New(),
	}
}

// TextResponse creates a text/plain response with the given status.
func TextResponse(status Status, text string) *Response {
	resp := NewResponse(status, body.FromString(text))
	resp.Headers.Set(HeaderContentType, "text/plain; charset=utf-8")
	return resp
}

// WithHeader sets a header and returns the response for chaining.
func (r *Response) WithHeader(name, value string) *Response {
	r.Headers.Set(name, value)
	return r
}
