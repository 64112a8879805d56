// Package web composes the request pipeline on top of the protocol engine:
// apps and scopes, the middleware chain, and the typed extractor/response
// machinery that turns plain functions into request handlers.
package web

import (
	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// Handler produces a response for one request.
type Handler interface {
	Serve(req *http11.Request) *http11.Response
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(req *http11.Request) *http11.Response

// Serve calls f(req).
func (f HandlerFunc) Serve(req *http11.Request) *http11.Response {
	return f(req)
}

// Middleware wraps a handler to observe, modify, or replace the response.
// Returning without calling next short-circuits the chain.
type Middleware func(next Handler) Handler

// RefExtractor builds a value from a borrowed request. Ref extractors
// compose freely; any number may appear in a handler's argument list.
type RefExtractor interface {
	ExtractRef(req *http11.Request) error
}

// BodyExtractor may consume the request body. Only the last argument of a
// handler may be a body extractor; every ref extractor is also usable there.
type BodyExtractor interface {
	ExtractBody(req *http11.Request) error
}

// refPtr constrains a pointer to an extractable argument type.
type refPtr[T any] interface {
	*T
	RefExtractor
}

// bodyPtr constrains a pointer to the (body-capable) last argument type.
type bodyPtr[T any] interface {
	*T
	BodyExtractor
}

// The Fn adapters lift plain functions of 0..10 extractor arguments into
// handlers. Every argument but the last is extracted by reference; the last
// may consume the body. The return value is converted with ToResponse; an
// extractor failure short-circuits with its rejection response.

// Fn0 lifts a zero-argument function.
func Fn0(h func() any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		return ToResponse(h())
	})
}

// Fn1 lifts a one-argument function.
func Fn1[A any, PA bodyPtr[A]](h func(A) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a))
	})
}

// Fn2 lifts a two-argument function.
func Fn2[A, B any, PA refPtr[A], PB bodyPtr[B]](h func(A, B) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b))
	})
}

// Fn3 lifts a three-argument function.
func Fn3[A, B, C any, PA refPtr[A], PB refPtr[B], PC bodyPtr[C]](h func(A, B, C) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var c C
		if err := PC(&c).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b, c))
	})
}

// Fn4 lifts a four-argument function.
func Fn4[A, B, C, D any, PA refPtr[A], PB refPtr[B], PC refPtr[C], PD bodyPtr[D]](h func(A, B, C, D) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var c C
		if err := PC(&c).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var d D
		if err := PD(&d).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b, c, d))
	})
}

// Fn5 lifts a five-argument function.
func Fn5[A, B, C, D, E any, PA refPtr[A], PB refPtr[B], PC refPtr[C], PD refPtr[D], PE bodyPtr[E]](h func(A, B, C, D, E) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var c C
		if err := PC(&c).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var d D
		if err := PD(&d).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var e E
		if err := PE(&e).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b, c, d, e))
	})
}

// Fn6 lifts a six-argument function.
func Fn6[A, B, C, D, E, F any, PA refPtr[A], PB refPtr[B], PC refPtr[C], PD refPtr[D], PE refPtr[E], PF bodyPtr[F]](h func(A, B, C, D, E, F) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var c C
		if err := PC(&c).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var d D
		if err := PD(&d).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var e E
		if err := PE(&e).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var f F
		if err := PF(&f).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b, c, d, e, f))
	})
}

// Fn7 lifts a seven-argument function.
func Fn7[A, B, C, D, E, F, G any, PA refPtr[A], PB refPtr[B], PC refPtr[C], PD refPtr[D], PE refPtr[E], PF refPtr[F], PG bodyPtr[G]](h func(A, B, C, D, E, F, G) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var c C
		if err := PC(&c).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var d D
		if err := PD(&d).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var e E
		if err := PE(&e).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var f F
		if err := PF(&f).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var g G
		if err := PG(&g).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b, c, d, e, f, g))
	})
}

// Fn8 lifts an eight-argument function.
func Fn8[A, B, C, D, E, F, G, H any, PA refPtr[A], PB refPtr[B], PC refPtr[C], PD refPtr[D], PE refPtr[E], PF refPtr[F], PG refPtr[G], PH bodyPtr[H]](h func(A, B, C, D, E, F, G, H) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var c C
		if err := PC(&c).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var d D
		if err := PD(&d).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var e E
		if err := PE(&e).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var f F
		if err := PF(&f).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var g G
		if err := PG(&g).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var hh H
		if err := PH(&hh).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b, c, d, e, f, g, hh))
	})
}

// Fn9 lifts a nine-argument function.
func Fn9[A, B, C, D, E, F, G, H, I any, PA refPtr[A], PB refPtr[B], PC refPtr[C], PD refPtr[D], PE refPtr[E], PF refPtr[F], PG refPtr[G], PH refPtr[H], PI bodyPtr[I]](h func(A, B, C, D, E, F, G, H, I) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var c C
		if err := PC(&c).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var d D
		if err := PD(&d).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var e E
		if err := PE(&e).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var f F
		if err := PF(&f).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var g G
		if err := PG(&g).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var hh H
		if err := PH(&hh).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var i I
		if err := PI(&i).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b, c, d, e, f, g, hh, i))
	})
}

// Fn10 lifts a ten-argument function.
func Fn10[A, B, C, D, E, F, G, H, I, J any, PA refPtr[A], PB refPtr[B], PC refPtr[C], PD refPtr[D], PE refPtr[E], PF refPtr[F], PG refPtr[G], PH refPtr[H], PI refPtr[I], PJ bodyPtr[J]](h func(A, B, C, D, E, F, G, H, I, J) any) Handler {
	return HandlerFunc(func(req *http11.Request) *http11.Response {
		var a A
		if err := PA(&a).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var b B
		if err := PB(&b).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var c C
		if err := PC(&c).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var d D
		if err := PD(&d).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var e E
		if err := PE(&e).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var f F
		if err := PF(&f).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var g G
		if err := PG(&g).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var hh H
		if err := PH(&hh).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var i I
		if err := PI(&i).ExtractRef(req); err != nil {
			return rejectionResponse(err)
		}
		var j J
		if err := PJ(&j).ExtractBody(req); err != nil {
			return rejectionResponse(err)
		}
		return ToResponse(h(a, b, c, d, e, f, g, hh, i, j))
	})
}
