package web

import "github.com/watt-toolkit/arc/pkg/arc/http11"

// Scope is a route tree intended to be mounted into an App (or another
// Scope) at a path prefix. It mirrors the App registration surface without
// the serving aspects. Scope middleware wraps only the scope's own routes.
type Scope struct {
	middleware    []Middleware
	registrations []scopeRoute
	children      []scopeMount
}

type scopeRoute struct {
	method  http11.Method
	pattern string
	handler Handler
	isAny   bool
}

type scopeMount struct {
	prefix string
	scope  *Scope
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Use appends middleware applied to every route in this scope.
func (s *Scope) Use(middleware ...Middleware) *Scope {
	s.middleware = append(s.middleware, middleware...)
	return s
}

// Route registers handler under method and pattern.
func (s *Scope) Route(method http11.Method, pattern string, handler Handler) *Scope {
	s.registrations = append(s.registrations, scopeRoute{method: method, pattern: pattern, handler: handler})
	return s
}

// Get registers a GET route.
func (s *Scope) Get(pattern string, handler Handler) *Scope {
	return s.Route(http11.MethodGet, pattern, handler)
}

// Post registers a POST route.
func (s *Scope) Post(pattern string, handler Handler) *Scope {
	return s.Route(http11.MethodPost, pattern, handler)
}

// Put registers a PUT route.
func (s *Scope) Put(pattern string, handler Handler) *Scope {
	return s.Route(http11.MethodPut, pattern, handler)
}

// Delete registers a DELETE route.
func (s *Scope) Delete(pattern string, handler Handler) *Scope {
	return s.Route(http11.MethodDelete, pattern, handler)
}

// Patch registers a PATCH route.
func (s *Scope) Patch(pattern string, handler Handler) *Scope {
	return s.Route(http11.MethodPatch, pattern, handler)
}

// Any registers handler for every method under pattern.
func (s *Scope) Any(pattern string, handler Handler) *Scope {
	s.registrations = append(s.registrations, scopeRoute{pattern: pattern, handler: handler, isAny: true})
	return s
}

// Mount grafts a child scope under prefix.
func (s *Scope) Mount(prefix string, child *Scope) *Scope {
	s.children = append(s.children, scopeMount{prefix: prefix, scope: child})
	return s
}

// each walks every route in the scope tree, with scope middleware applied
// innermost-scope first.
func (s *Scope) each(visit func(method http11.Method, pattern string, handler Handler, isAny bool)) {
	for _, r := range s.registrations {
		visit(r.method, r.pattern, Chain(s.middleware, r.handler), r.isAny)
	}
	for _, child := range s.children {
		child.scope.each(func(method http11.Method, pattern string, handler Handler, isAny bool) {
			visit(method, joinPath(child.prefix, pattern), Chain(s.middleware, handler), isAny)
		})
	}
}
