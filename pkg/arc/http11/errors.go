package http11

import "errors"

// Parser errors - pre-allocated so the hot path never formats strings.
var (
	// ErrInvalidRequestLine indicates the request line is malformed.
	// Request line format: METHOD SP request-target SP HTTP/1.1 CRLF
	ErrInvalidRequestLine = errors.New("http11: invalid request line")

	// ErrInvalidMethod indicates an empty or malformed HTTP method token.
	ErrInvalidMethod = errors.New("http11: invalid HTTP method")

	// ErrInvalidPath indicates the request path is malformed.
	ErrInvalidPath = errors.New("http11: invalid request path")

	// ErrUnsupportedVersion indicates a protocol version other than HTTP/1.1.
	// Only HTTP/1.1 is supported by this engine.
	ErrUnsupportedVersion = errors.New("http11: invalid or unsupported protocol version")

	// ErrInvalidHeader indicates a malformed header line.
	// Headers must be in format: Name: Value CRLF with non-empty name and value.
	ErrInvalidHeader = errors.New("http11: invalid HTTP header")

	// ErrNonASCII indicates the request line or a header line contains
	// non-ASCII bytes.
	ErrNonASCII = errors.New("http11: request line is not ASCII")

	// ErrHeadersTooLarge indicates the request head exceeds the size limit.
	ErrHeadersTooLarge = errors.New("http11: headers too large")

	// ErrUnknownTransferEncoding indicates a Transfer-Encoding other than chunked.
	ErrUnknownTransferEncoding = errors.New("http11: unknown transfer encoding")

	// ErrInvalidContentLength indicates a malformed Content-Length value.
	ErrInvalidContentLength = errors.New("http11: invalid Content-Length")

	// ErrUnexpectedEOF indicates the connection closed mid-request.
	ErrUnexpectedEOF = errors.New("http11: unexpected EOF")
)

// Wire primitive errors.
var (
	// ErrInvalidStatusCode indicates a status code outside [100, 599].
	ErrInvalidStatusCode = errors.New("http11: invalid status code")

	// ErrInvalidURI indicates a request target that cannot be parsed.
	ErrInvalidURI = errors.New("http11: invalid URI")

	// ErrInvalidPort indicates an authority port that is not a 16-bit integer.
	ErrInvalidPort = errors.New("http11: invalid authority port")

	// ErrInvalidEncoding indicates a malformed percent-encoded sequence.
	ErrInvalidEncoding = errors.New("http11: invalid percent encoding")
)

// Connection and upgrade errors.
var (
	// ErrConnectionClosed indicates the connection has been closed.
	ErrConnectionClosed = errors.New("http11: connection closed")

	// ErrUpgradeFailed indicates the upgrade notifier went away before the
	// response was written.
	ErrUpgradeFailed = errors.New("http11: failed to upgrade connection")

	// ErrNoUpgrade indicates there is no pending connection upgrade.
	ErrNoUpgrade = errors.New("http11: no pending connection upgrade")
)
