// Package sse implements Server-Sent Events streaming: an event builder and
// a channel-backed response body.
package sse

import (
	"errors"
	"strconv"
	"strings"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// Event construction errors. An id, event name, or data payload with a line
// break would forge extra fields on the wire, so construction fails instead.
var (
	ErrIDLineBreak    = errors.New("sse: 'id' cannot contain a line break")
	ErrEventLineBreak = errors.New("sse: 'event' cannot contain a line break")
	ErrDataLineBreak  = errors.New("sse: 'data' cannot contain a line break")
)

// Event is one server-sent event. Construct it through Builder.
type Event struct {
	id    string
	event string
	retry int64 // -1 when unset
	data  string
}

// ID returns the event id, empty when unset.
func (e Event) ID() string { return e.id }

// Event returns the event name, empty when unset.
func (e Event) Event() string { return e.event }

// Retry returns the retry interval in milliseconds and whether it was set.
func (e Event) Retry() (int64, bool) { return e.retry, e.retry >= 0 }

// Data returns the data payload.
func (e Event) Data() string { return e.data }

// String serializes the event: optional "id:", "event:", and "retry:" lines
// followed by the "data:" line, each CRLF-terminated.
func (e Event) String() string {
	var b strings.Builder
	if e.id != "" {
		b.WriteString("id: ")
		b.WriteString(e.id)
		b.WriteString("\r\n")
	}
	if e.event != "" {
		b.WriteString("event: ")
		b.WriteString(e.event)
		b.WriteString("\r\n")
	}
	if e.retry >= 0 {
		b.WriteString("retry: ")
		b.WriteString(strconv.FormatInt(e.retry, 10))
		b.WriteString("\r\n")
	}
	b.WriteString("data: ")
	b.WriteString(e.data)
	b.WriteString("\r\n")
	return b.String()
}

// Builder assembles an event. Errors stick: the first invalid field fails
// the final Data call.
type Builder struct {
	event Event
	err   error
}

// NewEvent starts building an event.
func NewEvent() *Builder {
	return &Builder{event: Event{retry: -1}}
}

// ID sets the event id.
func (b *Builder) ID(id string) *Builder {
	if b.err == nil {
		if hasLineBreak(id) {
			b.err = ErrIDLineBreak
		} else {
			b.event.id = id
		}
	}
	return b
}

// Event sets the event name.
func (b *Builder) Event(name string) *Builder {
	if b.err == nil {
		if hasLineBreak(name) {
			b.err = ErrEventLineBreak
		} else {
			b.event.event = name
		}
	}
	return b
}

// Retry sets the client reconnection delay in milliseconds.
func (b *Builder) Retry(millis int64) *Builder {
	if b.err == nil {
		b.event.retry = millis
	}
	return b
}

// Data sets the payload and finishes the event.
func (b *Builder) Data(data string) (Event, error) {
	if b.err != nil {
		return Event{}, b.err
	}
	if hasLineBreak(data) {
		return Event{}, ErrDataLineBreak
	}
	b.event.data = data
	return b.event, nil
}

// WithData builds a data-only event.
func WithData(data string) (Event, error) {
	return NewEvent().Data(data)
}

func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

// Stream is a channel-backed SSE body. Events pushed through the Sender are
// serialized one chunk each; closing the sender terminates the stream.
type Stream struct {
	inner *body.Channel
}

// Sender pushes events into a stream. Safe to clone by value and share; the
// underlying channel sender serializes delivery.
type Sender struct {
	inner *body.Sender
}

// NewStream returns a connected sender and stream body.
func NewStream() (*Sender, *Stream) {
	sender, channel := body.NewChannel()
	return &Sender{inner: sender}, &Stream{inner: channel}
}

// Send delivers one event to the stream, blocking until the consumer pulls it.
func (s *Sender) Send(event Event) error {
	return s.inner.Send([]byte(event.String()))
}

// Close terminates the stream.
func (s *Sender) Close() error {
	return s.inner.Close()
}

// ReadNext implements body.Body.
func (s *Stream) ReadNext() ([]byte, error) {
	return s.inner.ReadNext()
}

// SizeHint implements body.Body.
func (s *Stream) SizeHint() (int64, bool) {
	return 0, false
}

// Response wraps the stream as a text/event-stream response.
func (s *Stream) Response() *http11.Response {
	resp := http11.NewResponse(http11.StatusOK, s)
	resp.Headers.Set(http11.HeaderContentType, "text/event-stream")
	resp.Headers.Set(http11.HeaderCacheControl, "no-cache")
	return resp
}
