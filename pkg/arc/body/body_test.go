package body

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// TestBytesBody tests the single-shot in-memory body.
func TestBytesBody(t *testing.T) {
	b := FromString("hello")

	if size, known := b.SizeHint(); !known || size != 5 {
		t.Errorf("Got hint %d, %v", size, known)
	}

	chunk, err := b.ReadNext()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(chunk) != "hello" {
		t.Errorf("Got %q", chunk)
	}

	if _, err := b.ReadNext(); err != io.EOF {
		t.Errorf("Got %v, want io.EOF", err)
	}
}

// TestEmptyBody tests the zero-chunk body.
func TestEmptyBody(t *testing.T) {
	b := Empty()
	if size, known := b.SizeHint(); !known || size != 0 {
		t.Errorf("Got hint %d, %v", size, known)
	}
	if _, err := b.ReadNext(); err != io.EOF {
		t.Errorf("Got %v, want io.EOF", err)
	}
}

// TestReaderBody tests wrapping an io.Reader.
func TestReaderBody(t *testing.T) {
	b := FromReader(strings.NewReader(strings.Repeat("x", 10000)))
	if _, known := b.SizeHint(); known {
		t.Error("reader bodies must not know their size")
	}
	data, err := ReadAll(b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data) != 10000 {
		t.Errorf("Got %d bytes", len(data))
	}
}

// TestFixedReader_KnownLength tests exact-length delivery.
func TestFixedReader_KnownLength(t *testing.T) {
	r := NewFixedReader(strings.NewReader("hello world"), 5, 0)
	data, err := ReadAll(r)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Got %q", data)
	}
}

// TestFixedReader_ShortStream tests premature EOF.
func TestFixedReader_ShortStream(t *testing.T) {
	r := NewFixedReader(strings.NewReader("hello"), 6, 0)
	_, err := ReadAll(r)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Got %v, want io.ErrUnexpectedEOF", err)
	}
}

// TestFixedReader_MaxSize tests the cumulative cap.
func TestFixedReader_MaxSize(t *testing.T) {
	input := strings.Repeat("x", 9000)
	r := NewFixedReader(strings.NewReader(input), int64(len(input)), 8192)

	var total int
	for {
		chunk, err := r.ReadNext()
		if err != nil {
			if !errors.Is(err, ErrPayloadTooLarge) {
				t.Fatalf("Got %v, want ErrPayloadTooLarge", err)
			}
			break
		}
		total += len(chunk)
		if total > 8192 {
			t.Fatalf("delivered %d bytes past the cap", total)
		}
	}
}

// TestFixedReader_UnknownLength tests read-until-close.
func TestFixedReader_UnknownLength(t *testing.T) {
	r := NewFixedReader(strings.NewReader("until the end"), -1, 0)
	data, err := ReadAll(r)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "until the end" {
		t.Errorf("Got %q", data)
	}
}

// TestChunkedReader_Simple tests basic chunked decoding.
func TestChunkedReader_Simple(t *testing.T) {
	input := "5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	data, err := ReadAll(NewChunkedReader(strings.NewReader(input), 0))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("Got %q, want %q", data, "hello world")
	}
}

// TestChunkedReader_Extensions tests that chunk extensions are ignored.
func TestChunkedReader_Extensions(t *testing.T) {
	input := "4;name=value\r\nWiki\r\n5;foo=bar\r\npedia\r\n0\r\n\r\n"
	data, err := ReadAll(NewChunkedReader(strings.NewReader(input), 0))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "Wikipedia" {
		t.Errorf("Got %q", data)
	}
}

// TestChunkedReader_Malformed tests framing validation.
func TestChunkedReader_Malformed(t *testing.T) {
	cases := []string{
		"5\r\nhello",              // truncated mid-chunk
		"5\r\nhelloXX",            // bad chunk terminator
		"zz\r\nhello\r\n0\r\n\r\n", // bad size
		"5\r\nhello\r\n0\r\n",     // missing final CRLF
		"",                        // empty stream
	}
	for _, input := range cases {
		_, err := ReadAll(NewChunkedReader(strings.NewReader(input), 0))
		if err == nil {
			t.Errorf("decode(%q): expected error", input)
		}
	}
}

// TestChunkedReader_MaxSize tests the cumulative cap across chunks.
func TestChunkedReader_MaxSize(t *testing.T) {
	input := "5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	_, err := ReadAll(NewChunkedReader(strings.NewReader(input), 8))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Got %v, want ErrPayloadTooLarge", err)
	}
}

// TestChunkedWriter_Framing tests producer-side chunk framing and the
// terminal frame on close.
func TestChunkedWriter_Framing(t *testing.T) {
	sender, w := NewChunkedWriter()

	go func() {
		sender.SendString("hello")
		sender.SendString(" world")
		sender.Close()
	}()

	var framed []byte
	for {
		chunk, err := w.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		framed = append(framed, chunk...)
	}

	want := "5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	if string(framed) != want {
		t.Errorf("Got %q, want %q", framed, want)
	}
}

// TestChunkedRoundTrip tests encode-then-decode yields the same sequence.
func TestChunkedRoundTrip(t *testing.T) {
	chunks := []string{"alpha", "beta", "a longer chunk with spaces", "x"}

	sender, w := NewChunkedWriter()
	go func() {
		for _, c := range chunks {
			sender.SendString(c)
		}
		sender.Close()
	}()

	var framed []byte
	for {
		chunk, err := w.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		framed = append(framed, chunk...)
	}

	reader := NewChunkedReader(strings.NewReader(string(framed)), 0)
	var decoded []string
	for {
		chunk, err := reader.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		decoded = append(decoded, string(chunk))
	}

	if len(decoded) != len(chunks) {
		t.Fatalf("Got %d chunks, want %d", len(decoded), len(chunks))
	}
	for i := range chunks {
		if decoded[i] != chunks[i] {
			t.Errorf("Chunk %d: got %q, want %q", i, decoded[i], chunks[i])
		}
	}
}

// TestChannel tests the sender-driven stream body.
func TestChannel(t *testing.T) {
	sender, stream := NewChannel()

	go func() {
		sender.Send([]byte("one"))
		sender.Send([]byte("two"))
		sender.Close()
	}()

	first, err := stream.ReadNext()
	if err != nil || string(first) != "one" {
		t.Fatalf("Got %q, %v", first, err)
	}
	second, err := stream.ReadNext()
	if err != nil || string(second) != "two" {
		t.Fatalf("Got %q, %v", second, err)
	}
	if _, err := stream.ReadNext(); err != io.EOF {
		t.Errorf("Got %v, want io.EOF", err)
	}

	if err := sender.Send([]byte("late")); !errors.Is(err, ErrSenderClosed) {
		t.Errorf("Got %v, want ErrSenderClosed", err)
	}
}
