package web

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/extensions"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/router"
)

// Request part extractors. Each reads from the borrowed request; the body
// stays untouched, so they compose freely in any argument position.

// Method extracts the request method. Never rejects.
type Method http11.Method

// ExtractRef implements RefExtractor.
func (m *Method) ExtractRef(req *http11.Request) error {
	*m = Method(req.Method)
	return nil
}

// ExtractBody implements BodyExtractor.
func (m *Method) ExtractBody(req *http11.Request) error { return m.ExtractRef(req) }

// Version extracts the protocol version. Never rejects.
type Version http11.Version

// ExtractRef implements RefExtractor.
func (v *Version) ExtractRef(req *http11.Request) error {
	*v = Version(req.Version)
	return nil
}

// ExtractBody implements BodyExtractor.
func (v *Version) ExtractBody(req *http11.Request) error { return v.ExtractRef(req) }

// Uri extracts the request URI. Never rejects.
type Uri http11.Uri

// ExtractRef implements RefExtractor.
func (u *Uri) ExtractRef(req *http11.Request) error {
	*u = Uri(req.Uri)
	return nil
}

// ExtractBody implements BodyExtractor.
func (u *Uri) ExtractBody(req *http11.Request) error { return u.ExtractRef(req) }

// Scheme extracts the URI scheme. Rejects 400 when the target carries none.
type Scheme string

// ExtractRef implements RefExtractor.
func (s *Scheme) ExtractRef(req *http11.Request) error {
	if req.Uri.Scheme == "" {
		return Reject(http11.StatusBadRequest, "request target has no scheme")
	}
	*s = Scheme(req.Uri.Scheme)
	return nil
}

// ExtractBody implements BodyExtractor.
func (s *Scheme) ExtractBody(req *http11.Request) error { return s.ExtractRef(req) }

// Authority extracts the URI authority. Rejects 400 when absent.
type Authority http11.Authority

// ExtractRef implements RefExtractor.
func (a *Authority) ExtractRef(req *http11.Request) error {
	if req.Uri.Authority == nil {
		return Reject(http11.StatusBadRequest, "request target has no authority")
	}
	*a = Authority(*req.Uri.Authority)
	return nil
}

// ExtractBody implements BodyExtractor.
func (a *Authority) ExtractBody(req *http11.Request) error { return a.ExtractRef(req) }

// PathQuery extracts the path-and-query. Never rejects.
type PathQuery http11.PathAndQuery

// ExtractRef implements RefExtractor.
func (p *PathQuery) ExtractRef(req *http11.Request) error {
	*p = PathQuery(req.Uri.PathAndQuery)
	return nil
}

// ExtractBody implements BodyExtractor.
func (p *PathQuery) ExtractBody(req *http11.Request) error { return p.ExtractRef(req) }

// Headers extracts the request headers. Never rejects.
type Headers struct {
	*http11.Headers
}

// ExtractRef implements RefExtractor.
func (h *Headers) ExtractRef(req *http11.Request) error {
	h.Headers = req.Headers
	return nil
}

// ExtractBody implements BodyExtractor.
func (h *Headers) ExtractBody(req *http11.Request) error { return h.ExtractRef(req) }

// Params extracts the route parameters captured by the matcher. Empty when
// the route had no captures. Never rejects.
type Params struct {
	router.Params
}

// ExtractRef implements RefExtractor.
func (p *Params) ExtractRef(req *http11.Request) error {
	if params, ok := extensions.Get[router.Params](req.Extensions); ok {
		p.Params = params
	}
	return nil
}

// ExtractBody implements BodyExtractor.
func (p *Params) ExtractBody(req *http11.Request) error { return p.ExtractRef(req) }

// State extracts the typed application state injected at dispatch.
// Rejects 500 when no state of type T was registered.
type State[T any] struct {
	Value T
}

// ExtractRef implements RefExtractor.
func (s *State[T]) ExtractRef(req *http11.Request) error {
	value, ok := extensions.Get[T](req.Extensions)
	if !ok {
		return Reject(http11.StatusInternalServerError, "missing application state")
	}
	s.Value = value
	return nil
}

// ExtractBody implements BodyExtractor.
func (s *State[T]) ExtractBody(req *http11.Request) error { return s.ExtractRef(req) }

// Body-consuming extractors. Only valid in the last argument position.

// Bytes consumes the request body as one byte slice.
// Rejects 413 when the body exceeds its size cap, 400 on a broken body.
type Bytes []byte

// ExtractBody implements BodyExtractor.
func (b *Bytes) ExtractBody(req *http11.Request) error {
	data, err := body.ReadAll(req.TakeBody())
	if err != nil {
		return bodyRejection(err)
	}
	*b = data
	return nil
}

// Text consumes the request body as a UTF-8 string.
// Rejects 400 when the body is not valid UTF-8.
type Text string

// ExtractBody implements BodyExtractor.
func (t *Text) ExtractBody(req *http11.Request) error {
	data, err := body.ReadAll(req.TakeBody())
	if err != nil {
		return bodyRejection(err)
	}
	if !utf8.Valid(data) {
		return Reject(http11.StatusBadRequest, "request body is not valid UTF-8")
	}
	*t = Text(data)
	return nil
}

// ExtractBody implements BodyExtractor. Json consumes the body and decodes
// it as JSON into Value. Rejects 400 on a missing or undecodable body.
func (j *Json[T]) ExtractBody(req *http11.Request) error {
	data, err := body.ReadAll(req.TakeBody())
	if err != nil {
		return bodyRejection(err)
	}
	if len(data) == 0 {
		return Reject(http11.StatusBadRequest, "expected a JSON body")
	}
	if err := json.Unmarshal(data, &j.Value); err != nil {
		return Reject(http11.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	return nil
}

func bodyRejection(err error) error {
	if err == body.ErrPayloadTooLarge {
		return Reject(http11.StatusPayloadTooLarge, "request body too large")
	}
	return Reject(http11.StatusBadRequest, "failed to read request body: "+err.Error())
}

// Typed header extractors, each rejecting when the header is absent: 400,
// or 401 for Authorization.

// Host extracts the Host header.
type Host string

// ExtractRef implements RefExtractor.
func (h *Host) ExtractRef(req *http11.Request) error {
	value, ok := req.Headers.Get(http11.HeaderHost)
	if !ok {
		return Reject(http11.StatusBadRequest, "missing Host header")
	}
	*h = Host(value)
	return nil
}

// ExtractBody implements BodyExtractor.
func (h *Host) ExtractBody(req *http11.Request) error { return h.ExtractRef(req) }

// UserAgent extracts the User-Agent header.
type UserAgent string

// ExtractRef implements RefExtractor.
func (u *UserAgent) ExtractRef(req *http11.Request) error {
	value, ok := req.Headers.Get(http11.HeaderUserAgent)
	if !ok {
		return Reject(http11.StatusBadRequest, "missing User-Agent header")
	}
	*u = UserAgent(value)
	return nil
}

// ExtractBody implements BodyExtractor.
func (u *UserAgent) ExtractBody(req *http11.Request) error { return u.ExtractRef(req) }

// ContentType extracts the Content-Type header.
type ContentType string

// ExtractRef implements RefExtractor.
func (c *ContentType) ExtractRef(req *http11.Request) error {
	value, ok := req.Headers.Get(http11.HeaderContentType)
	if !ok {
		return Reject(http11.StatusBadRequest, "missing Content-Type header")
	}
	*c = ContentType(value)
	return nil
}

// ExtractBody implements BodyExtractor.
func (c *ContentType) ExtractBody(req *http11.Request) error { return c.ExtractRef(req) }

// Authorization extracts the Authorization header verbatim.
type Authorization string

// ExtractRef implements RefExtractor.
func (a *Authorization) ExtractRef(req *http11.Request) error {
	value, ok := req.Headers.Get(http11.HeaderAuthorization)
	if !ok {
		return Reject(http11.StatusUnauthorized, "missing Authorization header")
	}
	*a = Authorization(value)
	return nil
}

// ExtractBody implements BodyExtractor.
func (a *Authorization) ExtractBody(req *http11.Request) error { return a.ExtractRef(req) }

// BasicAuth extracts and decodes Basic credentials.
// Rejects 401 when absent or malformed.
type BasicAuth struct {
	Username string
	Password string
}

// ExtractRef implements RefExtractor.
func (b *BasicAuth) ExtractRef(req *http11.Request) error {
	value, ok := req.Headers.Get(http11.HeaderAuthorization)
	if !ok {
		return Reject(http11.StatusUnauthorized, "missing Authorization header")
	}
	scheme, credentials, found := strings.Cut(value, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return Reject(http11.StatusUnauthorized, "expected Basic authorization")
	}
	decoded, err := base64.StdEncoding.DecodeString(credentials)
	if err != nil {
		return Reject(http11.StatusUnauthorized, "malformed Basic credentials")
	}
	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return Reject(http11.StatusUnauthorized, "malformed Basic credentials")
	}
	b.Username = username
	b.Password = password
	return nil
}

// ExtractBody implements BodyExtractor.
func (b *BasicAuth) ExtractBody(req *http11.Request) error { return b.ExtractRef(req) }
