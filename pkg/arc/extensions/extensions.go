// Package extensions provides a typed value bag keyed by runtime type
// identity. Requests and responses carry one to move values between the
// protocol engine, middleware, and handlers without global state.
package extensions

import "reflect"

// Extensions stores at most one value per concrete type.
//
// The zero value is ready to use. Extensions is not safe for concurrent
// mutation; within the pipeline a single goroutine owns the request (and its
// bag) at any point in time.
type Extensions struct {
	values map[reflect.Type]any
}

// New creates an empty extension bag.
func New() *Extensions {
	return &Extensions{}
}

// Insert stores value under its concrete type, replacing any previous value
// of that type. Returns the replaced value, if any.
func (e *Extensions) Insert(value any) (previous any, replaced bool) {
	if value == nil {
		return nil, false
	}
	t := reflect.TypeOf(value)
	if e.values == nil {
		e.values = make(map[reflect.Type]any, 4)
	}
	previous, replaced = e.values[t]
	e.values[t] = value
	return previous, replaced
}

// Remove deletes the value stored under the concrete type of proto.
// Returns the removed value, if any.
func (e *Extensions) Remove(proto any) (removed any, ok bool) {
	if proto == nil || e.values == nil {
		return nil, false
	}
	t := reflect.TypeOf(proto)
	removed, ok = e.values[t]
	delete(e.values, t)
	return removed, ok
}

// Len returns the number of stored values.
func (e *Extensions) Len() int {
	return len(e.values)
}

// Clone returns a shallow copy of the bag. Stored values are shared.
func (e *Extensions) Clone() *Extensions {
	c := New()
	if len(e.values) > 0 {
		c.values = make(map[reflect.Type]any, len(e.values))
		for t, v := range e.values {
			c.values[t] = v
		}
	}
	return c
}

// Get retrieves the value of type T from the bag. Absence is a normal
// outcome, reported through ok.
func Get[T any](e *Extensions) (value T, ok bool) {
	if e == nil || e.values == nil {
		return value, false
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	v, ok := e.values[t]
	if !ok {
		return value, false
	}
	return v.(T), true
}

// Take retrieves and removes the value of type T from the bag.
func Take[T any](e *Extensions) (value T, ok bool) {
	if e == nil || e.values == nil {
		return value, false
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	v, ok := e.values[t]
	if !ok {
		return value, false
	}
	delete(e.values, t)
	return v.(T), true
}
