package http11

import "testing"

// TestParseUri_OriginForm tests plain path targets.
func TestParseUri_OriginForm(t *testing.T) {
	u, err := ParseUri("/users/42?sort=name&dir=asc#frag")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.Path() != "/users/42" {
		t.Errorf("Got path %q", u.Path())
	}
	if v, _ := u.Query().Get("sort"); v != "name" {
		t.Errorf("Got sort=%q", v)
	}
	if u.PathAndQuery.Fragment != "frag" {
		t.Errorf("Got fragment %q", u.PathAndQuery.Fragment)
	}
}

// TestParseUri_MissingLeadingSlash tests that a slash is prepended.
func TestParseUri_MissingLeadingSlash(t *testing.T) {
	u, err := ParseUri("users?x=1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.Path() != "/users" {
		t.Errorf("Got path %q", u.Path())
	}
}

// TestParseUri_PercentDecoded tests target decoding.
func TestParseUri_PercentDecoded(t *testing.T) {
	u, err := ParseUri("/files/my%20doc.txt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.Path() != "/files/my doc.txt" {
		t.Errorf("Got path %q", u.Path())
	}
}

// TestParseUri_AbsoluteForm tests scheme and authority parsing.
func TestParseUri_AbsoluteForm(t *testing.T) {
	u, err := ParseUri("http://user@example.com:8080/index?x=1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.Scheme != "http" {
		t.Errorf("Got scheme %q", u.Scheme)
	}
	if u.Authority == nil {
		t.Fatal("expected an authority")
	}
	if u.Authority.UserInfo != "user" || u.Authority.Host != "example.com" {
		t.Errorf("Got authority %+v", u.Authority)
	}
	if !u.Authority.HasPort || u.Authority.Port != 8080 {
		t.Errorf("Got port %d (has=%v)", u.Authority.Port, u.Authority.HasPort)
	}
	if u.Path() != "/index" {
		t.Errorf("Got path %q", u.Path())
	}
}

// TestParseAuthority_IPv6 tests bracketed IPv6 hosts.
func TestParseAuthority_IPv6(t *testing.T) {
	a, err := ParseAuthority("[::1]:9000")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a.Host != "[::1]" || a.Port != 9000 {
		t.Errorf("Got %+v", a)
	}

	a, err = ParseAuthority("[2001:db8::1]")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a.Host != "[2001:db8::1]" || a.HasPort {
		t.Errorf("Got %+v", a)
	}
}

// TestParseAuthority_BadPort tests non-16-bit ports.
func TestParseAuthority_BadPort(t *testing.T) {
	for _, input := range []string{"host:70000", "host:-1", "host:abc"} {
		if _, err := ParseAuthority(input); err == nil {
			t.Errorf("ParseAuthority(%q): expected error", input)
		}
	}
}

// TestParseQuery_RepeatedNames tests that repeated names are preserved.
func TestParseQuery_RepeatedNames(t *testing.T) {
	q, err := ParseQuery("tag=a&tag=b&other=c")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	all := q.GetAll("tag")
	if len(all) != 2 || all[0] != "a" || all[1] != "b" {
		t.Errorf("Got %v", all)
	}
}

// TestVersion tests that only HTTP/1.1 parses.
func TestVersion(t *testing.T) {
	if _, err := ParseVersion("HTTP/1.1"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	for _, v := range []string{"HTTP/1.0", "HTTP/2.0", "http/1.1", ""} {
		if _, err := ParseVersion(v); err == nil {
			t.Errorf("ParseVersion(%q): expected error", v)
		}
	}
}

// TestParseMethod tests canonical and extension methods.
func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("get")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !m.Equal(MethodGet) || m.String() != "GET" {
		t.Errorf("Got %v", m)
	}

	m, err = ParseMethod("purge")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.String() != "PURGE" {
		t.Errorf("Got %q, want uppercased extension token", m.String())
	}

	if _, err := ParseMethod(""); err == nil {
		t.Error("expected error for empty method")
	}
}

// TestStatus tests range validation and reason phrases.
func TestStatus(t *testing.T) {
	if _, err := NewStatus(99); err == nil {
		t.Error("expected error for 99")
	}
	if _, err := NewStatus(600); err == nil {
		t.Error("expected error for 600")
	}
	s, err := NewStatus(418)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Reason() != "" {
		t.Errorf("Got %q, want empty reason for 418", s.Reason())
	}
	if StatusOK.Reason() != "OK" || StatusNotFound.Reason() != "Not Found" {
		t.Error("canonical reasons wrong")
	}
}
