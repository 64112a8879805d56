package web

import (
	json "github.com/goccy/go-json"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// Responder converts a value into a response. Handler return values, error
// values, and rejections all funnel through this interface.
type Responder interface {
	Response() *http11.Response
}

// ToResponse converts a handler return value into a response:
//
//	nil               -> 200 with an empty body
//	*http11.Response  -> itself
//	Responder         -> its conversion
//	error             -> its rejection response (500 when untyped)
//	string            -> 200 text/plain
//	[]byte            -> 200 application/octet-stream
//	http11.Status     -> empty response with that status
//	body.Body         -> 200 streaming that body
//	anything else     -> 200 JSON-encoded
func ToResponse(v any) *http11.Response {
	switch value := v.(type) {
	case nil:
		return http11.NewResponse(http11.StatusOK, body.Empty())
	case *http11.Response:
		return value
	case Responder:
		return value.Response()
	case error:
		return rejectionResponse(value)
	case string:
		return http11.TextResponse(http11.StatusOK, value)
	case []byte:
		resp := http11.NewResponse(http11.StatusOK, body.FromBytes(value))
		resp.Headers.Set(http11.HeaderContentType, "application/octet-stream")
		return resp
	case http11.Status:
		return http11.NewResponse(value, body.Empty())
	case body.Body:
		return http11.NewResponse(http11.StatusOK, value)
	default:
		return Json[any]{Value: value}.Response()
	}
}

// Opt wraps an optional handler result: absence converts to 404.
type Opt[T any] struct {
	Value T
	Ok    bool
}

// Some creates a present Opt.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Ok: true}
}

// None creates an absent Opt.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Response implements Responder.
func (o Opt[T]) Response() *http11.Response {
	if !o.Ok {
		return http11.NewResponse(http11.StatusNotFound, body.Empty())
	}
	return ToResponse(o.Value)
}

// Res wraps a fallible handler result: the Ok branch converts like any
// other value, the Err branch converts through its own rejection response
// (500 when the error carries no conversion).
type Res[T any] struct {
	Value T
	Err   error
}

// Ok creates a successful Res.
func Ok[T any](v T) Res[T] {
	return Res[T]{Value: v}
}

// Err creates a failed Res.
func Err[T any](err error) Res[T] {
	return Res[T]{Err: err}
}

// Response implements Responder, propagating whichever branch is set.
func (r Res[T]) Response() *http11.Response {
	if r.Err != nil {
		return rejectionResponse(r.Err)
	}
	return ToResponse(r.Value)
}

// ResponsePart mutates the headers or extensions of a response. Parts ride
// alongside a primary value through With.
type ResponsePart interface {
	Apply(resp *http11.Response)
}

// SetHeader is a response part that replaces one header.
type SetHeader struct {
	Name  string
	Value string
}

// Apply implements ResponsePart.
func (s SetHeader) Apply(resp *http11.Response) {
	resp.Headers.Set(s.Name, s.Value)
}

// AppendHeader is a response part that appends one header value.
type AppendHeader struct {
	Name  string
	Value string
}

// Apply implements ResponsePart.
func (a AppendHeader) Apply(resp *http11.Response) {
	resp.Headers.Append(a.Name, a.Value)
}

// SetStatus is a response part that overrides the status code.
type SetStatus http11.Status

// Apply implements ResponsePart.
func (s SetStatus) Apply(resp *http11.Response) {
	resp.Status = http11.Status(s)
}

// SetExtension is a response part that inserts a value into the response
// extensions.
type SetExtension struct {
	Value any
}

// Apply implements ResponsePart.
func (s SetExtension) Apply(resp *http11.Response) {
	resp.Extensions.Insert(s.Value)
}

// With pairs a primary value with response parts applied after conversion.
func With(value any, parts ...ResponsePart) Responder {
	return withParts{value: value, parts: parts}
}

type withParts struct {
	value any
	parts []ResponsePart
}

func (w withParts) Response() *http11.Response {
	resp := ToResponse(w.value)
	for _, part := range w.parts {
		part.Apply(resp)
	}
	return resp
}

// Json is both a body extractor and a response: as a return value it
// serializes Value as application/json.
type Json[T any] struct {
	Value T
}

// Response implements Responder.
func (j Json[T]) Response() *http11.Response {
	data, err := json.Marshal(j.Value)
	if err != nil {
		return rejectionResponse(Reject(http11.StatusInternalServerError, "failed to encode response body"))
	}
	resp := http11.NewResponse(http11.StatusOK, body.FromBytes(data))
	resp.Headers.Set(http11.HeaderContentType, "application/json; charset=utf-8")
	return resp
}

// Redirect returns a redirection response pointing at location.
func Redirect(status http11.Status, location string) *http11.Response {
	resp := http11.NewResponse(status, body.Empty())
	resp.Headers.Set(http11.HeaderLocation, location)
	return resp
}

// SeeOther returns a 303 redirect, the post-then-redirect idiom.
func SeeOther(location string) *http11.Response {
	return Redirect(http11.StatusSeeOther, location)
}

// TemporaryRedirect returns a 307 redirect preserving the method.
func TemporaryRedirect(location string) *http11.Response {
	return Redirect(http11.StatusTemporaryRedirect, location)
}

// Html returns a 200 text/html response.
func Html(markup string) *http11.Response {
	resp := http11.NewResponse(http11.StatusOK, body.FromString(markup))
	resp.Headers.Set(http11.HeaderContentType, "text/html; charset=utf-8")
	return resp
}
