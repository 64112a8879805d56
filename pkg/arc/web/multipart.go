package web

import (
	"bytes"
	"strings"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// MultipartPart is one field of a multipart/form-data body.
type MultipartPart struct {
	Name     string
	Filename string
	Headers  *http11.Headers
	Data     []byte
}

// Multipart consumes a multipart/form-data body into memory-buffered parts.
// Rejects 415 on a different content type and 400 on malformed framing.
type Multipart struct {
	Parts []MultipartPart
}

// Get returns the first part with the given field name.
func (m *Multipart) Get(name string) (*MultipartPart, bool) {
	for i := range m.Parts {
		if m.Parts[i].Name == name {
			return &m.Parts[i], true
		}
	}
	return nil, false
}

// ExtractBody implements BodyExtractor.
func (m *Multipart) ExtractBody(req *http11.Request) error {
	ct, ok := req.Headers.Get(http11.HeaderContentType)
	if !ok {
		return Reject(http11.StatusUnsupportedMediaType, "expected a multipart/form-data body")
	}
	mediaType, params, _ := strings.Cut(ct, ";")
	if !strings.EqualFold(strings.TrimSpace(mediaType), "multipart/form-data") {
		return Reject(http11.StatusUnsupportedMediaType, "expected a multipart/form-data body")
	}
	boundary := multipartBoundary(params)
	if boundary == "" {
		return Reject(http11.StatusBadRequest, "multipart body has no boundary")
	}

	data, err := body.ReadAll(req.TakeBody())
	if err != nil {
		return bodyRejection(err)
	}

	parts, err := parseMultipart(data, boundary)
	if err != nil {
		return Reject(http11.StatusBadRequest, err.Error())
	}
	m.Parts = parts
	return nil
}

func multipartBoundary(params string) string {
	for _, param := range strings.Split(params, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if found && strings.EqualFold(name, "boundary") {
			return strings.Trim(value, `"`)
		}
	}
	return ""
}

func parseMultipart(data []byte, boundary string) ([]MultipartPart, error) {
	delimiter := []byte("--" + boundary)
	var parts []MultipartPart

	segments := bytes.Split(data, delimiter)
	// The first segment is the preamble, the last is the "--\r\n" epilogue.
	if len(segments) < 2 {
		return nil, errMalformedMultipart
	}
	for _, segment := range segments[1 : len(segments)-1] {
		segment = bytes.TrimPrefix(segment, []byte("\r\n"))
		segment = bytes.TrimSuffix(segment, []byte("\r\n"))

		headerBlock, content, found := bytes.Cut(segment, []byte("\r\n\r\n"))
		if !found {
			return nil, errMalformedMultipart
		}

		part := MultipartPart{Headers: http11.NewHeaders()}
		for _, line := range strings.Split(string(headerBlock), "\r\n") {
			if line == "" {
				continue
			}
			if err := part.Headers.ParseHeaderLine(line); err != nil {
				return nil, errMalformedMultipart
			}
		}
		if disposition, ok := part.Headers.Get("Content-Disposition"); ok {
			part.Name = dispositionParam(disposition, "name")
			part.Filename = dispositionParam(disposition, "filename")
		}
		part.Data = content
		parts = append(parts, part)
	}
	return parts, nil
}

// dispositionParam digs a parameter out of a Content-Disposition value,
// e.g. `form-data; name="avatar"; filename="cat.png"`.
func dispositionParam(disposition, name string) string {
	for _, param := range strings.Split(disposition, ";") {
		pname, pvalue, found := strings.Cut(strings.TrimSpace(param), "=")
		if found && strings.EqualFold(strings.TrimSpace(pname), name) {
			return strings.Trim(pvalue, `"`)
		}
	}
	return ""
}

var errMalformedMultipart = Reject(http11.StatusBadRequest, "malformed multipart body")
