package router

import (
	"sort"
	"strings"
)

// Router is an ordered store from route to value. Routes are kept sorted by
// the total route order, so Find visits candidates most-specific first and
// the first match wins.
type Router[T any] struct {
	entries []routeEntry[T]
}

type routeEntry[T any] struct {
	route Route
	value T
}

// Match is the result of a successful lookup.
type Match[T any] struct {
	Route  Route
	Params Params
	Value  T
}

// New creates an empty router.
func New[T any]() *Router[T] {
	return &Router[T]{}
}

// Insert registers value under pattern, replacing any value stored under an
// identical route. It panics on an invalid pattern (missing leading '/' or a
// catch-all segment before the last position); route syntax errors are
// programmer errors.
func (r *Router[T]) Insert(pattern string, value T) (previous T, replaced bool) {
	route := MustParseRoute(pattern)

	idx := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].route.Compare(route) >= 0
	})
	if idx < len(r.entries) && r.entries[idx].route.Equal(route) {
		previous = r.entries[idx].value
		r.entries[idx].value = value
		return previous, true
	}

	r.entries = append(r.entries, routeEntry[T]{})
	copy(r.entries[idx+1:], r.entries[idx:])
	r.entries[idx] = routeEntry[T]{route: route, value: value}
	return previous, false
}

// Find matches path against the stored routes in most-specific-first order
// and returns the first match with its captured parameters.
func (r *Router[T]) Find(path string) (Match[T], bool) {
	var params Params
	for i := range r.entries {
		if matchRoute(r.entries[i].route, path, &params) {
			return Match[T]{
				Route:  r.entries[i].route,
				Params: params,
				Value:  r.entries[i].value,
			}, true
		}
		params.reset()
	}
	return Match[T]{}, false
}

// Lookup returns the value stored under the exact route of pattern.
func (r *Router[T]) Lookup(pattern string) (T, bool) {
	route := MustParseRoute(pattern)
	for i := range r.entries {
		if r.entries[i].route.Equal(route) {
			return r.entries[i].value, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of stored routes.
func (r *Router[T]) Len() int {
	return len(r.entries)
}

// Each visits (route, value) pairs most-specific first.
func (r *Router[T]) Each(visit func(route Route, value T) bool) {
	for i := range r.entries {
		if !visit(r.entries[i].route, r.entries[i].value) {
			return
		}
	}
}

// matchRoute walks route segments in lockstep with the components of path.
// A trailing '/' on the path is ignored: it either disappears (route already
// exhausted) or binds an empty capture to a final dynamic segment. Dynamic
// segments capture one component; a catch-all captures the remaining
// components joined by '/' (the empty string when none remain).
func matchRoute(route Route, path string, params *Params) bool {
	components := strings.Split(strings.TrimPrefix(path, "/"), "/")

	segments := route.Segments()
	for i, seg := range segments {
		if i >= len(components) {
			// Out of path. A trailing catch-all still matches, binding the
			// empty remainder.
			if seg.Kind == SegmentCatchAll {
				if seg.Value != "" {
					params.set(seg.Value, "")
				}
				return true
			}
			return false
		}

		switch seg.Kind {
		case SegmentStatic:
			if seg.Value != components[i] {
				return false
			}
		case SegmentDynamic:
			params.set(seg.Value, components[i])
		case SegmentCatchAll:
			if seg.Value != "" {
				rest := components[i:]
				if len(rest) == 1 && rest[0] == "" {
					params.set(seg.Value, "")
				} else {
					params.set(seg.Value, strings.Join(rest, "/"))
				}
				return true
			}
			return true
		}
	}

	// Leftover path components fail the candidate, except a single empty
	// component left behind by a trailing slash.
	switch len(components) - len(segments) {
	case 0:
		return true
	case 1:
		return components[len(components)-1] == ""
	default:
		return false
	}
}
