package http11

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/extensions"
)

// Request head limits, per RFC 7230 recommendations.
const (
	// MaxRequestLineSize is the maximum size of the request line.
	MaxRequestLineSize = 8192

	// MaxHeadersSize is the maximum total size of all header lines.
	MaxHeadersSize = 8192
)

// ParseRequest reads one request head from r and selects the body reader by
// its framing headers. maxBodySize caps the cumulative body bytes; zero or
// negative disables the cap.
//
// Body reader selection:
//   - Neither Content-Length nor Transfer-Encoding, method GET or HEAD:
//     empty body.
//   - Content-Length present: fixed-length reader.
//   - Transfer-Encoding equal to "chunked": chunked reader; any other
//     transfer encoding fails.
//   - Otherwise: read until connection close, bounded by maxBodySize.
func ParseRequest(r *bufio.Reader, maxBodySize int64) (*Request, error) {
	line, err := readLine(r, MaxRequestLineSize)
	if err != nil {
		return nil, err
	}

	method, uri, version, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	headers := NewHeaders()
	total := 0
	for {
		line, err := readLine(r, MaxHeadersSize)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		total += len(line)
		if total > MaxHeadersSize {
			return nil, ErrHeadersTooLarge
		}
		if err := headers.ParseHeaderLine(line); err != nil {
			return nil, err
		}
	}

	req := &Request{
		Method:     method,
		Uri:        uri,
		Version:    version,
		Headers:    headers,
		Extensions: extensions.New(),
	}

	b, err := selectBodyReader(req, r, maxBodySize)
	if err != nil {
		return nil, err
	}
	req.Body = b
	return req, nil
}

// readLine reads a CRLF-terminated line, rejecting non-ASCII bytes and lines
// longer than limit. The returned line excludes the CRLF.
func readLine(r *bufio.Reader, limit int) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return "", ErrUnexpectedEOF
		}
		if err == io.EOF {
			return "", ErrUnexpectedEOF
		}
		return "", err
	}
	if len(line) > limit {
		return "", ErrHeadersTooLarge
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return "", ErrInvalidRequestLine
	}
	line = line[:len(line)-2]
	for i := 0; i < len(line); i++ {
		if line[i] >= 0x80 {
			return "", ErrNonASCII
		}
	}
	return line, nil
}

// parseRequestLine splits "METHOD SP request-target SP HTTP/1.1" into its
// exactly three parts.
func parseRequestLine(line string) (Method, Uri, Version, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return Method{}, Uri{}, Version{}, ErrInvalidRequestLine
	}

	method, err := ParseMethod(parts[0])
	if err != nil {
		return Method{}, Uri{}, Version{}, err
	}
	uri, err := ParseUri(parts[1])
	if err != nil {
		return Method{}, Uri{}, Version{}, err
	}
	version, err := ParseVersion(parts[2])
	if err != nil {
		return Method{}, Uri{}, Version{}, err
	}
	return method, uri, version, nil
}

func selectBodyReader(req *Request, r io.Reader, maxBodySize int64) (body.Body, error) {
	contentLength, hasLength := req.Headers.Get(HeaderContentLength)
	transferEncoding, hasEncoding := req.Headers.Get(HeaderTransferEncoding)

	if !hasLength && !hasEncoding {
		if req.Method.Equal(MethodGet) || req.Method.Equal(MethodHead) {
			return body.Empty(), nil
		}
		// Unframed body: read until the peer closes, bounded by the cap.
		return body.NewFixedReader(r, -1, maxBodySize), nil
	}

	if hasLength {
		length, err := strconv.ParseInt(contentLength, 10, 64)
		if err != nil || length < 0 {
			return nil, ErrInvalidContentLength
		}
		if length == 0 {
			return body.Empty(), nil
		}
		return body.NewFixedReader(r, length, maxBodySize), nil
	}

	if strings.EqualFold(transferEncoding, "chunked") {
		return body.NewChunkedReader(r, maxBodySize), nil
	}
	return nil, ErrUnknownTransferEncoding
}
