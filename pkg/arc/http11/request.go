package http11

import (
	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/extensions"
)

// Request is one parsed HTTP/1.1 request: the (method, uri, version,
// headers) four-tuple plus a body handle and a typed extension bag. The
// pipeline owns it from parse until the handler returns.
type Request struct {
	Method     Method
	Uri        Uri
	Version    Version
	Headers    *Headers
	Body       body.Body
	Extensions *extensions.Extensions
}

// NewRequest creates a request with empty headers, an empty body, and an
// empty extension bag.
func NewRequest(method Method, uri Uri) *Request {
	return &Request{
		Method:     method,
		Uri:        uri,
		Version:    Version11,
		Headers:    NewHeaders(),
		Body:       body.Empty(),
		Extensions: extensions.New(),
	}
}

// Path returns the request path.
func (r *Request) Path() string {
	return r.Uri.Path()
}

// Query returns the parsed query parameters.
func (r *Request) Query() Query {
	return r.Uri.Query()
}

// TakeBody returns the body and replaces it with an empty one, enforcing the
// consume-at-most-once contract at the call site.
func (r *Request) TakeBody() body.Body {
	b := r.Body
	r.Body = body.Empty()
	return b
}
