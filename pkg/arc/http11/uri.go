package http11

import (
	"strconv"
	"strings"
)

// Authority is the [userinfo@]host[:port] portion of a URI.
// Port 0 with HasPort false means no port was present.
type Authority struct {
	UserInfo string
	Host     string
	Port     uint16
	HasPort  bool
}

// ParseAuthority parses "[userinfo@]host[:port]" with support for bracketed
// IPv6 hosts. The port, when present, must be a 16-bit unsigned integer.
func ParseAuthority(s string) (Authority, error) {
	var a Authority

	if at := strings.IndexByte(s, '@'); at >= 0 {
		a.UserInfo = s[:at]
		s = s[at+1:]
	}

	if strings.HasPrefix(s, "[") {
		// Bracketed IPv6 literal: [::1] or [::1]:8080
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return Authority{}, ErrInvalidURI
		}
		a.Host = s[:end+1]
		rest := s[end+1:]
		if rest == "" {
			return a, nil
		}
		if rest[0] != ':' {
			return Authority{}, ErrInvalidURI
		}
		return a, a.parsePort(rest[1:])
	}

	if colon := strings.LastIndexByte(s, ':'); colon >= 0 {
		a.Host = s[:colon]
		return a, a.parsePort(s[colon+1:])
	}

	a.Host = s
	return a, nil
}

func (a *Authority) parsePort(s string) error {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return ErrInvalidPort
	}
	a.Port = uint16(port)
	a.HasPort = true
	return nil
}

// String renders the authority in wire form.
func (a Authority) String() string {
	var b strings.Builder
	if a.UserInfo != "" {
		b.WriteString(a.UserInfo)
		b.WriteByte('@')
	}
	b.WriteString(a.Host)
	if a.HasPort {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(a.Port), 10))
	}
	return b.String()
}

// QueryParam is one name=value pair of a query string.
type QueryParam struct {
	Name  string
	Value string
}

// Query is an ordered sequence of query parameters. Repeated names are
// preserved in order.
type Query []QueryParam

// Get returns the first value for name.
func (q Query) Get(name string) (string, bool) {
	for _, p := range q {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// GetAll returns every value for name, in order.
func (q Query) GetAll(name string) []string {
	var out []string
	for _, p := range q {
		if p.Name == name {
			out = append(out, p.Value)
		}
	}
	return out
}

// ParseQuery splits a raw query string into ordered pairs. Each pair is
// percent-decoded; a pair without '=' keeps an empty value.
func ParseQuery(raw string) (Query, error) {
	if raw == "" {
		return nil, nil
	}
	var q Query
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		dn, err := Decode(name)
		if err != nil {
			return nil, err
		}
		dv, err := Decode(value)
		if err != nil {
			return nil, err
		}
		q = append(q, QueryParam{Name: dn, Value: dv})
	}
	return q, nil
}

// String renders the query with each name and value percent-encoded.
func (q Query) String() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Encode(p.Name))
		b.WriteByte('=')
		b.WriteString(Encode(p.Value))
	}
	return b.String()
}

// PathAndQuery is the path, query, and fragment portion of a URI.
// The path is always non-empty and begins with '/'.
type PathAndQuery struct {
	Path     string
	Query    Query
	RawQuery string
	Fragment string
}

// ParsePathAndQuery splits on the first '#' for the fragment, then on the
// first '?' for the query. A path not beginning with '/' has one prepended.
func ParsePathAndQuery(s string) (PathAndQuery, error) {
	var pq PathAndQuery

	if hash := strings.IndexByte(s, '#'); hash >= 0 {
		pq.Fragment = s[hash+1:]
		s = s[:hash]
	}
	if qm := strings.IndexByte(s, '?'); qm >= 0 {
		pq.RawQuery = s[qm+1:]
		query, err := ParseQuery(pq.RawQuery)
		if err != nil {
			return PathAndQuery{}, err
		}
		pq.Query = query
		s = s[:qm]
	}

	path, err := Decode(s)
	if err != nil {
		return PathAndQuery{}, err
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	pq.Path = path
	return pq, nil
}

// String renders the path-and-query in wire form. The fragment is included
// when present; it is never sent by the protocol engine.
func (pq PathAndQuery) String() string {
	var b strings.Builder
	b.WriteString(pq.Path)
	if pq.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(pq.RawQuery)
	}
	if pq.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(pq.Fragment)
	}
	return b.String()
}

// Uri is a parsed request target: optional scheme and authority plus a
// path-and-query.
type Uri struct {
	Scheme       string
	Authority    *Authority
	PathAndQuery PathAndQuery
}

// ParseUri parses an origin-form target ("/path?query") or an absolute-form
// target ("scheme://authority/path?query").
func ParseUri(s string) (Uri, error) {
	if s == "" {
		return Uri{}, ErrInvalidURI
	}

	var u Uri
	if idx := strings.Index(s, "://"); idx > 0 && !strings.HasPrefix(s, "/") {
		u.Scheme = s[:idx]
		rest := s[idx+3:]

		slash := strings.IndexByte(rest, '/')
		authorityPart := rest
		pathPart := "/"
		if slash >= 0 {
			authorityPart = rest[:slash]
			pathPart = rest[slash:]
		}
		if authorityPart != "" {
			authority, err := ParseAuthority(authorityPart)
			if err != nil {
				return Uri{}, err
			}
			u.Authority = &authority
		}
		pq, err := ParsePathAndQuery(pathPart)
		if err != nil {
			return Uri{}, err
		}
		u.PathAndQuery = pq
		return u, nil
	}

	pq, err := ParsePathAndQuery(s)
	if err != nil {
		return Uri{}, err
	}
	u.PathAndQuery = pq
	return u, nil
}

// Path returns the URI path.
func (u Uri) Path() string {
	return u.PathAndQuery.Path
}

// Query returns the parsed query parameters.
func (u Uri) Query() Query {
	return u.PathAndQuery.Query
}

// String renders the URI in wire form.
func (u Uri) String() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	if u.Authority != nil {
		b.WriteString(u.Authority.String())
	}
	b.WriteString(u.PathAndQuery.String())
	return b.String()
}
