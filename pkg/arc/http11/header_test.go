package http11

import "testing"

// TestHeaders_CaseInsensitive tests that lookup folds ASCII case.
func TestHeaders_CaseInsensitive(t *testing.T) {
	h := NewHeaders()
	h.Set("Content-Type", "text/plain")

	for _, name := range []string{"content-type", "CONTENT-TYPE", "Content-Type", "cOnTeNt-TyPe"} {
		if v, ok := h.Get(name); !ok || v != "text/plain" {
			t.Errorf("Get(%q): got %q, %v", name, v, ok)
		}
	}
}

// TestHeaders_CasePreserved tests that the wire casing survives.
func TestHeaders_CasePreserved(t *testing.T) {
	h := NewHeaders()
	h.Set("X-CuStOm-Header", "1")

	var seen string
	h.Each(func(name, value string) bool {
		seen = name
		return true
	})
	if seen != "X-CuStOm-Header" {
		t.Errorf("Got %q, want original casing", seen)
	}
}

// TestHeaders_SetReplacesAppendAdds tests the Set/Append contract.
func TestHeaders_SetReplacesAppendAdds(t *testing.T) {
	h := NewHeaders()
	h.Append("Accept", "text/html")
	h.Append("accept", "application/json")

	if got := h.GetAll("Accept"); len(got) != 2 {
		t.Fatalf("Got %d values, want 2", len(got))
	}
	if v, _ := h.Get("Accept"); v != "text/html" {
		t.Errorf("Get returns %q, want first value", v)
	}

	h.Set("ACCEPT", "*/*")
	if got := h.GetAll("Accept"); len(got) != 1 || got[0] != "*/*" {
		t.Errorf("After Set: got %v", got)
	}
}

// TestHeaders_InsertionOrder tests that distinct names keep insertion order.
func TestHeaders_InsertionOrder(t *testing.T) {
	h := NewHeaders()
	h.Set("Host", "example.com")
	h.Set("Accept", "*/*")
	h.Set("User-Agent", "arc")

	var names []string
	h.EachEntry(func(name, value string) bool {
		names = append(names, name)
		return true
	})

	want := []string{"Host", "Accept", "User-Agent"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Got order %v, want %v", names, want)
		}
	}
}

// TestParseHeaderLine_CommaSplit tests multi-value splitting on comma.
func TestParseHeaderLine_CommaSplit(t *testing.T) {
	h := NewHeaders()
	if err := h.ParseHeaderLine("Accept: text/html, application/json"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got := h.GetAll("Accept")
	if len(got) != 2 || got[0] != "text/html" || got[1] != "application/json" {
		t.Errorf("Got %v", got)
	}
}

// TestParseHeaderLine_CookieSemicolonSplit tests the Cookie separator.
func TestParseHeaderLine_CookieSemicolonSplit(t *testing.T) {
	h := NewHeaders()
	if err := h.ParseHeaderLine("Cookie: a=1; b=2; c=3"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got := h.GetAll("Cookie")
	if len(got) != 3 || got[0] != "a=1" || got[2] != "c=3" {
		t.Errorf("Got %v", got)
	}
}

// TestParseHeaderLine_Invalid tests empty names and values.
func TestParseHeaderLine_Invalid(t *testing.T) {
	for _, line := range []string{"", "NoColon", ": value", "Name:", "Name:   ", "Name : value"} {
		h := NewHeaders()
		if err := h.ParseHeaderLine(line); err == nil {
			t.Errorf("ParseHeaderLine(%q): expected error", line)
		}
	}
}

// TestHeaders_ContainsToken tests token-list matching.
func TestHeaders_ContainsToken(t *testing.T) {
	h := NewHeaders()
	h.Set("Connection", "keep-alive, Upgrade")

	if !h.ContainsToken("Connection", "upgrade") {
		t.Error("expected token match for upgrade")
	}
	if h.ContainsToken("Connection", "close") {
		t.Error("unexpected token match for close")
	}
}

// TestHeaders_Del tests removal.
func TestHeaders_Del(t *testing.T) {
	h := NewHeaders()
	h.Set("Host", "a")
	h.Set("Accept", "b")
	h.Del("HOST")

	if h.Has("Host") {
		t.Error("Host should be gone")
	}
	if h.Len() != 1 {
		t.Errorf("Got len %d, want 1", h.Len())
	}
}
