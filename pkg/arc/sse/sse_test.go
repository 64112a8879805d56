package sse

import (
	"errors"
	"io"
	"testing"
)

// TestEvent_Serialization tests the field order and CRLF framing.
func TestEvent_Serialization(t *testing.T) {
	event, err := NewEvent().ID("7").Event("update").Retry(1500).Data("hello")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := "id: 7\r\nevent: update\r\nretry: 1500\r\ndata: hello\r\n"
	if got := event.String(); got != want {
		t.Errorf("Got %q, want %q", got, want)
	}
}

// TestEvent_DataOnly tests the minimal form.
func TestEvent_DataOnly(t *testing.T) {
	event, err := WithData("ping")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := event.String(); got != "data: ping\r\n" {
		t.Errorf("Got %q", got)
	}
}

// TestEvent_LineBreaksRejected tests construction failures.
func TestEvent_LineBreaksRejected(t *testing.T) {
	if _, err := NewEvent().ID("a\nb").Data("x"); !errors.Is(err, ErrIDLineBreak) {
		t.Errorf("Got %v, want ErrIDLineBreak", err)
	}
	if _, err := NewEvent().Event("a\r\nb").Data("x"); !errors.Is(err, ErrEventLineBreak) {
		t.Errorf("Got %v, want ErrEventLineBreak", err)
	}
	if _, err := WithData("a\nb"); !errors.Is(err, ErrDataLineBreak) {
		t.Errorf("Got %v, want ErrDataLineBreak", err)
	}
}

// TestStream tests the channel-backed body and terminal EOF.
func TestStream(t *testing.T) {
	sender, stream := NewStream()

	go func() {
		first, _ := WithData("one")
		second, _ := WithData("two")
		sender.Send(first)
		sender.Send(second)
		sender.Close()
	}()

	chunk, err := stream.ReadNext()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(chunk) != "data: one\r\n" {
		t.Errorf("Got %q", chunk)
	}

	chunk, err = stream.ReadNext()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(chunk) != "data: two\r\n" {
		t.Errorf("Got %q", chunk)
	}

	if _, err := stream.ReadNext(); err != io.EOF {
		t.Errorf("Got %v, want io.EOF", err)
	}
}

// TestStream_Response tests the content type of the SSE response.
func TestStream_Response(t *testing.T) {
	_, stream := NewStream()
	resp := stream.Response()
	if ct, _ := resp.Headers.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Got %q", ct)
	}
	if _, known := resp.Body.SizeHint(); known {
		t.Error("SSE bodies must not advertise a size")
	}
}
