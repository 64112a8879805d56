package web

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/extensions"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/router"
)

// Query extracts the query string into a struct of T, binding fields by
// their `query` tag (falling back to the lowercased field name). Repeated
// query names bind to slice fields. Rejects 400 on an unparseable value.
type Query[T any] struct {
	Value T
}

// ExtractRef implements RefExtractor.
func (q *Query[T]) ExtractRef(req *http11.Request) error {
	pairs := make([]router.Param, 0, len(req.Uri.Query()))
	for _, p := range req.Uri.Query() {
		pairs = append(pairs, router.Param{Name: p.Name, Value: p.Value})
	}
	if err := bindStruct(&q.Value, "query", pairs); err != nil {
		return Reject(http11.StatusBadRequest, "invalid query string: "+err.Error())
	}
	return nil
}

// ExtractBody implements BodyExtractor.
func (q *Query[T]) ExtractBody(req *http11.Request) error { return q.ExtractRef(req) }

// Path extracts the captured route parameters into a struct of T, binding
// fields by their `path` tag (falling back to the lowercased field name).
// Rejects 400 when a captured value cannot be parsed into its field.
type Path[T any] struct {
	Value T
}

// ExtractRef implements RefExtractor.
func (p *Path[T]) ExtractRef(req *http11.Request) error {
	params, _ := extensions.Get[router.Params](req.Extensions)
	var pairs []router.Param
	params.Each(func(name, value string) bool {
		pairs = append(pairs, router.Param{Name: name, Value: value})
		return true
	})
	if err := bindStruct(&p.Value, "path", pairs); err != nil {
		return Reject(http11.StatusBadRequest, "invalid path parameters: "+err.Error())
	}
	return nil
}

// ExtractBody implements BodyExtractor.
func (p *Path[T]) ExtractBody(req *http11.Request) error { return p.ExtractRef(req) }

// Form consumes an application/x-www-form-urlencoded body into a struct of
// T, binding fields by their `form` tag (falling back to the lowercased
// field name). Rejects 400 on a malformed body or unparseable value, 415 on
// a different content type.
type Form[T any] struct {
	Value T
}

// ExtractBody implements BodyExtractor.
func (f *Form[T]) ExtractBody(req *http11.Request) error {
	if ct, ok := req.Headers.Get(http11.HeaderContentType); ok {
		mediaType, _, _ := strings.Cut(ct, ";")
		if !strings.EqualFold(strings.TrimSpace(mediaType), "application/x-www-form-urlencoded") {
			return Reject(http11.StatusUnsupportedMediaType, "expected an urlencoded form body")
		}
	}
	data, err := body.ReadAll(req.TakeBody())
	if err != nil {
		return bodyRejection(err)
	}
	fields, err := http11.ParseQuery(string(data))
	if err != nil {
		return Reject(http11.StatusBadRequest, "malformed form body")
	}
	pairs := make([]router.Param, 0, len(fields))
	for _, p := range fields {
		pairs = append(pairs, router.Param{Name: p.Name, Value: p.Value})
	}
	if err := bindStruct(&f.Value, "form", pairs); err != nil {
		return Reject(http11.StatusBadRequest, "invalid form body: "+err.Error())
	}
	return nil
}

// bindStruct assigns named string values onto the fields of *dst, a pointer
// to a struct. The field name comes from the given tag, falling back to the
// lowercased Go field name. Supported field kinds: string, bool, integers,
// unsigned integers, floats, and slices of those.
func bindStruct(dst any, tag string, pairs []router.Param) error {
	v := reflect.ValueOf(dst).Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("bind target must be a struct, got %s", v.Kind())
	}
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get(tag)
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		var values []string
		for _, p := range pairs {
			if p.Name == name {
				values = append(values, p.Value)
			}
		}
		if len(values) == 0 {
			continue
		}

		target := v.Field(i)
		if target.Kind() == reflect.Slice {
			slice := reflect.MakeSlice(target.Type(), len(values), len(values))
			for j, value := range values {
				if err := bindScalar(slice.Index(j), value); err != nil {
					return fmt.Errorf("field %q: %w", name, err)
				}
			}
			target.Set(slice)
			continue
		}
		if err := bindScalar(target, values[0]); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

func bindScalar(target reflect.Value, value string) error {
	switch target.Kind() {
	case reflect.String:
		target.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q is not a bool", value)
		}
		target.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, target.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
		target.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, target.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not an unsigned integer", value)
		}
		target.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, target.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not a number", value)
		}
		target.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field kind %s", target.Kind())
	}
	return nil
}
