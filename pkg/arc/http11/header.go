package http11

import "strings"

// Well-known header names. Interned so parsing and policy checks reuse one
// canonical string instead of allocating per request.
const (
	HeaderAccept             = "Accept"
	HeaderAllow              = "Allow"
	HeaderAuthorization      = "Authorization"
	HeaderCacheControl       = "Cache-Control"
	HeaderConnection         = "Connection"
	HeaderContentLength      = "Content-Length"
	HeaderContentType        = "Content-Type"
	HeaderCookie             = "Cookie"
	HeaderDate               = "Date"
	HeaderHost               = "Host"
	HeaderLocation           = "Location"
	HeaderOrigin             = "Origin"
	HeaderServer             = "Server"
	HeaderSetCookie          = "Set-Cookie"
	HeaderTransferEncoding   = "Transfer-Encoding"
	HeaderUpgrade            = "Upgrade"
	HeaderUserAgent          = "User-Agent"
	HeaderSecWebSocketKey    = "Sec-WebSocket-Key"
	HeaderSecWebSocketAccept = "Sec-WebSocket-Accept"
	HeaderSecWebSocketVer    = "Sec-WebSocket-Version"
)

// interned maps lowercase names to their canonical casing. Lookup hits avoid
// retaining parse-buffer strings for the common names.
var interned = func() map[string]string {
	names := []string{
		HeaderAccept, HeaderAllow, HeaderAuthorization, HeaderCacheControl,
		HeaderConnection, HeaderContentLength, HeaderContentType, HeaderCookie,
		HeaderDate, HeaderHost, HeaderLocation, HeaderOrigin, HeaderServer,
		HeaderSetCookie, HeaderTransferEncoding, HeaderUpgrade, HeaderUserAgent,
		HeaderSecWebSocketKey, HeaderSecWebSocketAccept, HeaderSecWebSocketVer,
	}
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[strings.ToLower(n)] = n
	}
	return m
}()

// internName returns the interned string when name is spelled exactly like a
// well-known name, or name unchanged. Original casing is preserved for
// serialization either way.
func internName(name string) string {
	if c, ok := interned[strings.ToLower(name)]; ok && c == name {
		return c
	}
	return name
}

type headerEntry struct {
	name   string   // original casing, preserved for the wire
	values []string // non-empty, ordered
}

// Headers is a case-insensitive mapping from header name to a non-empty
// ordered list of values. Insertion order across distinct names is preserved
// for serialization. Name comparison is an ASCII lowercase fold; the original
// casing is kept.
type Headers struct {
	entries []headerEntry
}

// NewHeaders creates an empty header map.
func NewHeaders() *Headers {
	return &Headers{}
}

func (h *Headers) find(name string) int {
	for i := range h.entries {
		if strings.EqualFold(h.entries[i].name, name) {
			return i
		}
	}
	return -1
}

// Set replaces all values stored under name with value.
func (h *Headers) Set(name, value string) {
	if i := h.find(name); i >= 0 {
		h.entries[i].values = append(h.entries[i].values[:0], value)
		return
	}
	h.entries = append(h.entries, headerEntry{name: internName(name), values: []string{value}})
}

// Append adds value under name, creating the entry if needed.
func (h *Headers) Append(name, value string) {
	if i := h.find(name); i >= 0 {
		h.entries[i].values = append(h.entries[i].values, value)
		return
	}
	h.entries = append(h.entries, headerEntry{name: internName(name), values: []string{value}})
}

// Get returns the first value stored under name.
func (h *Headers) Get(name string) (string, bool) {
	if i := h.find(name); i >= 0 {
		return h.entries[i].values[0], true
	}
	return "", false
}

// GetOr returns the first value under name, or fallback when absent.
func (h *Headers) GetOr(name, fallback string) string {
	if v, ok := h.Get(name); ok {
		return v
	}
	return fallback
}

// GetAll returns every value stored under name, in insertion order.
// The returned slice must not be mutated.
func (h *Headers) GetAll(name string) []string {
	if i := h.find(name); i >= 0 {
		return h.entries[i].values
	}
	return nil
}

// Has reports whether name is present.
func (h *Headers) Has(name string) bool {
	return h.find(name) >= 0
}

// Del removes all values stored under name.
func (h *Headers) Del(name string) {
	if i := h.find(name); i >= 0 {
		h.entries = append(h.entries[:i], h.entries[i+1:]...)
	}
}

// Len returns the number of distinct header names.
func (h *Headers) Len() int {
	return len(h.entries)
}

// Each visits every (name, value) pair: names in insertion order, values in
// append order within a name. Iteration stops when visit returns false.
func (h *Headers) Each(visit func(name, value string) bool) {
	for i := range h.entries {
		for _, v := range h.entries[i].values {
			if !visit(h.entries[i].name, v) {
				return
			}
		}
	}
}

// EachEntry visits every name once with its joined wire value.
func (h *Headers) EachEntry(visit func(name, value string) bool) {
	for i := range h.entries {
		if !visit(h.entries[i].name, strings.Join(h.entries[i].values, ", ")) {
			return
		}
	}
}

// Clone returns a deep copy of the header map.
func (h *Headers) Clone() *Headers {
	c := &Headers{entries: make([]headerEntry, len(h.entries))}
	for i := range h.entries {
		c.entries[i] = headerEntry{
			name:   h.entries[i].name,
			values: append([]string(nil), h.entries[i].values...),
		}
	}
	return c
}

// ContainsToken reports whether any value under name contains token in its
// comma-separated token list, compared case-insensitively. Used for headers
// like Connection and Upgrade.
func (h *Headers) ContainsToken(name, token string) bool {
	for _, v := range h.GetAll(name) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}

// ParseHeaderLine parses one "Name: value" line and appends it, splitting the
// value on its intra-header separator: ';' for Cookie, ',' for everything
// else. Empty names or values fail with ErrInvalidHeader.
func (h *Headers) ParseHeaderLine(line string) error {
	name, rawValue, found := strings.Cut(line, ":")
	if !found || name == "" {
		return ErrInvalidHeader
	}
	// No whitespace is allowed between the field name and the colon.
	if name[len(name)-1] == ' ' || name[len(name)-1] == '\t' {
		return ErrInvalidHeader
	}
	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return ErrInvalidHeader
	}

	sep := ","
	if strings.EqualFold(name, HeaderCookie) {
		sep = ";"
	}
	for _, part := range strings.Split(rawValue, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			return ErrInvalidHeader
		}
		h.Append(name, part)
	}
	return nil
}
