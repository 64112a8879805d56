package web

import (
	"strings"
	"sync"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/router"
)

// methodTable holds the per-method handlers registered under one route.
// Registration order is preserved for the Allow header.
type methodTable struct {
	entries []methodEntry
	any     Handler
}

type methodEntry struct {
	method  http11.Method
	handler Handler
}

func (t *methodTable) set(method http11.Method, handler Handler) {
	for i := range t.entries {
		if t.entries[i].method.Equal(method) {
			t.entries[i].handler = handler
			return
		}
	}
	t.entries = append(t.entries, methodEntry{method: method, handler: handler})
}

func (t *methodTable) get(method http11.Method) (Handler, bool) {
	for i := range t.entries {
		if t.entries[i].method.Equal(method) {
			return t.entries[i].handler, true
		}
	}
	if t.any != nil {
		return t.any, true
	}
	return nil, false
}

func (t *methodTable) allow() string {
	names := make([]string, len(t.entries))
	for i := range t.entries {
		names[i] = t.entries[i].method.String()
	}
	return strings.Join(names, ", ")
}

// App composes per-method route tables, mounted scopes, a middleware chain,
// typed application state, and a fallback handler into one request handler.
//
// Registration is not safe for concurrent use; once serving starts the route
// tables are read-only and shared across workers.
//
// Example:
//
//	app := web.NewApp()
//	app.Get("/hello/:name", web.Fn1(func(p web.Params) any {
//	    return "Hello " + p.GetOr("name", "world") + "!"
//	}))
type App struct {
	routes     *router.Router[*methodTable]
	middleware []Middleware
	fallback   Handler
	state      []any

	buildOnce sync.Once
	chain     Handler
}

// NewApp creates an empty application with the default 404 fallback.
func NewApp() *App {
	return &App{routes: router.New[*methodTable]()}
}

// Use appends middleware to the chain. Middleware runs in registration
// order, outermost first.
func (a *App) Use(middleware ...Middleware) *App {
	a.middleware = append(a.middleware, middleware...)
	return a
}

// State registers a typed state value, cloned into the request extensions on
// every dispatch and reachable through the State extractor.
func (a *App) State(value any) *App {
	a.state = append(a.state, value)
	return a
}

// Fallback replaces the handler invoked when no route matches.
func (a *App) Fallback(handler Handler) *App {
	a.fallback = handler
	return a
}

// Route registers handler under method and pattern.
func (a *App) Route(method http11.Method, pattern string, handler Handler) *App {
	table, ok := a.routes.Lookup(pattern)
	if !ok {
		table = &methodTable{}
		a.routes.Insert(pattern, table)
	}
	table.set(method, handler)
	return a
}

// Get registers a GET route.
func (a *App) Get(pattern string, handler Handler) *App {
	return a.Route(http11.MethodGet, pattern, handler)
}

// Post registers a POST route.
func (a *App) Post(pattern string, handler Handler) *App {
	return a.Route(http11.MethodPost, pattern, handler)
}

// Put registers a PUT route.
func (a *App) Put(pattern string, handler Handler) *App {
	return a.Route(http11.MethodPut, pattern, handler)
}

// Delete registers a DELETE route.
func (a *App) Delete(pattern string, handler Handler) *App {
	return a.Route(http11.MethodDelete, pattern, handler)
}

// Patch registers a PATCH route.
func (a *App) Patch(pattern string, handler Handler) *App {
	return a.Route(http11.MethodPatch, pattern, handler)
}

// Options registers an OPTIONS route.
func (a *App) Options(pattern string, handler Handler) *App {
	return a.Route(http11.MethodOptions, pattern, handler)
}

// Head registers a HEAD route.
func (a *App) Head(pattern string, handler Handler) *App {
	return a.Route(http11.MethodHead, pattern, handler)
}

// Trace registers a TRACE route.
func (a *App) Trace(pattern string, handler Handler) *App {
	return a.Route(http11.MethodTrace, pattern, handler)
}

// Connect registers a CONNECT route.
func (a *App) Connect(pattern string, handler Handler) *App {
	return a.Route(http11.MethodConnect, pattern, handler)
}

// Any registers handler for every method under pattern. Method-specific
// registrations take precedence.
func (a *App) Any(pattern string, handler Handler) *App {
	table, ok := a.routes.Lookup(pattern)
	if !ok {
		table = &methodTable{}
		a.routes.Insert(pattern, table)
	}
	table.any = handler
	return a
}

// Mount grafts a scope's routes under prefix, wrapping them in the scope's
// own middleware.
func (a *App) Mount(prefix string, scope *Scope) *App {
	scope.each(func(method http11.Method, pattern string, handler Handler, isAny bool) {
		full := joinPath(prefix, pattern)
		if isAny {
			a.Any(full, handler)
		} else {
			a.Route(method, full, handler)
		}
	})
	return a
}

// Handle implements http11.RequestHandler: the middleware chain wrapped
// around route dispatch. The chain is composed once, on first use.
func (a *App) Handle(req *http11.Request) *http11.Response {
	a.buildOnce.Do(func() {
		a.chain = Chain(a.middleware, HandlerFunc(a.dispatch))
	})
	for _, value := range a.state {
		req.Extensions.Insert(value)
	}
	return a.chain.Serve(req)
}

// Serve implements Handler, so an App can itself be wrapped or mounted.
func (a *App) Serve(req *http11.Request) *http11.Response {
	return a.Handle(req)
}

func (a *App) dispatch(req *http11.Request) *http11.Response {
	match, found := a.routes.Find(req.Path())
	if !found {
		return a.notFound(req)
	}

	req.Extensions.Insert(match.Params)

	handler, ok := match.Value.get(req.Method)
	if !ok {
		if len(match.Value.entries) == 0 {
			return a.notFound(req)
		}
		resp := http11.NewResponse(http11.StatusMethodNotAllowed, body.Empty())
		resp.Headers.Set(http11.HeaderAllow, match.Value.allow())
		return resp
	}
	return handler.Serve(req)
}

func (a *App) notFound(req *http11.Request) *http11.Response {
	if a.fallback != nil {
		return a.fallback.Serve(req)
	}
	return http11.TextResponse(http11.StatusNotFound, "Not Found")
}

// Chain composes middleware around a terminal handler, outermost first.
func Chain(middleware []Middleware, terminal Handler) Handler {
	h := terminal
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// joinPath joins a mount prefix and a route pattern, keeping one slash
// between them.
func joinPath(prefix, pattern string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if pattern == "/" || pattern == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	return prefix + pattern
}
