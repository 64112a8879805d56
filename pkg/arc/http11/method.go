package http11

import "strings"

// Method identifiers for O(1) switching. methodExtension marks a
// non-canonical token carried verbatim (uppercased) in Method.token.
const (
	methodUnknown uint8 = iota
	methodGET
	methodPOST
	methodPUT
	methodDELETE
	methodPATCH
	methodHEAD
	methodOPTIONS
	methodCONNECT
	methodTRACE
	methodExtension
)

// Method is an HTTP request method: one of the nine canonical tokens or an
// extension method carrying an arbitrary uppercase token.
type Method struct {
	id    uint8
	token string
}

// The canonical methods.
var (
	MethodGet     = Method{methodGET, "GET"}
	MethodPost    = Method{methodPOST, "POST"}
	MethodPut     = Method{methodPUT, "PUT"}
	MethodDelete  = Method{methodDELETE, "DELETE"}
	MethodPatch   = Method{methodPATCH, "PATCH"}
	MethodHead    = Method{methodHEAD, "HEAD"}
	MethodOptions = Method{methodOPTIONS, "OPTIONS"}
	MethodConnect = Method{methodCONNECT, "CONNECT"}
	MethodTrace   = Method{methodTRACE, "TRACE"}
)

var canonicalMethods = [...]Method{
	MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch,
	MethodHead, MethodOptions, MethodConnect, MethodTrace,
}

// ParseMethod parses a method token. Canonical forms are recognized
// case-insensitively; anything else becomes an extension method with the
// token uppercased. An empty token fails.
func ParseMethod(token string) (Method, error) {
	if token == "" {
		return Method{}, ErrInvalidMethod
	}
	for _, m := range canonicalMethods {
		if len(token) == len(m.token) && strings.EqualFold(token, m.token) {
			return m, nil
		}
	}
	upper := strings.ToUpper(token)
	for i := 0; i < len(upper); i++ {
		if upper[i] <= ' ' || upper[i] >= 0x7f {
			return Method{}, ErrInvalidMethod
		}
	}
	return Method{methodExtension, upper}, nil
}

// String returns the wire token for the method.
func (m Method) String() string {
	return m.token
}

// IsZero reports whether the method is the zero value (no token).
func (m Method) IsZero() bool {
	return m.id == methodUnknown
}

// Equal compares two methods by token.
func (m Method) Equal(other Method) bool {
	if m.id != methodExtension && other.id != methodExtension {
		return m.id == other.id
	}
	return m.token == other.token
}

// IsIdempotent reports whether the method is defined as idempotent.
func (m Method) IsIdempotent() bool {
	switch m.id {
	case methodGET, methodHEAD, methodPUT, methodDELETE, methodOPTIONS, methodTRACE:
		return true
	default:
		return false
	}
}

// IsSafe reports whether the method is defined as safe (no side effects).
func (m Method) IsSafe() bool {
	switch m.id {
	case methodGET, methodHEAD, methodOPTIONS, methodTRACE:
		return true
	default:
		return false
	}
}
