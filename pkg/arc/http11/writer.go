package http11

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/watt-toolkit/arc/pkg/arc/body"
)

// WritePolicy carries the header policies applied while serializing a
// response.
type WritePolicy struct {
	// IncludeDateHeader injects a Date header with the current UTC time when
	// the response does not already carry one.
	IncludeDateHeader bool

	// DiscardBody suppresses the body bytes (HEAD responses). Headers are
	// still emitted as computed.
	DiscardBody bool

	// now overrides the clock in tests.
	now func() time.Time
}

// WriteResponse serializes resp to w: status line, header policies, headers
// in insertion order (multi-values joined with ", "), blank line, then the
// body chunk-by-chunk with a flush after each chunk.
//
// A disconnect-class write error (connection reset, broken pipe) is treated
// as a benign client disconnect and swallowed; any other error propagates.
func WriteResponse(w io.Writer, resp *Response, policy WritePolicy) error {
	if resp.Body == nil {
		resp.Body = body.Empty()
	}
	bw := bufio.NewWriter(w)

	bw.WriteString(version11Token)
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(resp.Status.Code()))
	if reason := resp.Status.Reason(); reason != "" {
		bw.WriteByte(' ')
		bw.WriteString(reason)
	}
	bw.WriteString("\r\n")

	if policy.IncludeDateHeader && !resp.Headers.Has(HeaderDate) {
		now := time.Now
		if policy.now != nil {
			now = policy.now
		}
		resp.Headers.Set(HeaderDate, now().UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT"))
	}
	if size, known := resp.Body.SizeHint(); known && !resp.Headers.Has(HeaderContentLength) {
		resp.Headers.Set(HeaderContentLength, strconv.FormatInt(size, 10))
	}

	resp.Headers.EachEntry(func(name, value string) bool {
		bw.WriteString(name)
		bw.WriteString(": ")
		bw.WriteString(value)
		bw.WriteString("\r\n")
		return true
	})
	bw.WriteString("\r\n")

	if err := bw.Flush(); err != nil {
		return clientDisconnectOr(err)
	}

	if policy.DiscardBody {
		return body.Discard(resp.Body)
	}

	for {
		chunk, err := resp.Body.ReadNext()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := bw.Write(chunk); err != nil {
			return clientDisconnectOr(err)
		}
		if err := bw.Flush(); err != nil {
			return clientDisconnectOr(err)
		}
	}
}

// WriteRequest serializes req to w for the client path. A known body size
// fills in Content-Length when absent.
func WriteRequest(w io.Writer, req *Request) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(req.Method.String())
	bw.WriteByte(' ')
	pq := req.Uri.PathAndQuery
	pq.Fragment = ""
	bw.WriteString(pq.String())
	bw.WriteByte(' ')
	bw.WriteString(req.Version.String())
	bw.WriteString("\r\n")

	if size, known := req.Body.SizeHint(); known && !req.Headers.Has(HeaderContentLength) {
		req.Headers.Set(HeaderContentLength, strconv.FormatInt(size, 10))
	}

	req.Headers.EachEntry(func(name, value string) bool {
		bw.WriteString(name)
		bw.WriteString(": ")
		bw.WriteString(value)
		bw.WriteString("\r\n")
		return true
	})
	bw.WriteString("\r\n")

	for {
		chunk, err := req.Body.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if _, err := bw.Write(chunk); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// clientDisconnectOr maps disconnect-class write errors to nil.
func clientDisconnectOr(err error) error {
	if isClientDisconnect(err) {
		return nil
	}
	return err
}

func isClientDisconnect(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
