package web

import (
	"testing"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

func bodyString(t *testing.T, resp *http11.Response) string {
	t.Helper()
	data, err := body.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return string(data)
}

// TestToResponse_String tests text conversion.
func TestToResponse_String(t *testing.T) {
	resp := ToResponse("hi there")
	if resp.Status != http11.StatusOK {
		t.Errorf("Got %v", resp.Status)
	}
	if ct, _ := resp.Headers.Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Got %q", ct)
	}
	if got := bodyString(t, resp); got != "hi there" {
		t.Errorf("Got %q", got)
	}
}

// TestToResponse_Bytes tests byte-slice conversion.
func TestToResponse_Bytes(t *testing.T) {
	resp := ToResponse([]byte{1, 2, 3})
	if ct, _ := resp.Headers.Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Got %q", ct)
	}
}

// TestToResponse_Status tests bare status conversion.
func TestToResponse_Status(t *testing.T) {
	resp := ToResponse(http11.StatusNoContent)
	if resp.Status != http11.StatusNoContent {
		t.Errorf("Got %v", resp.Status)
	}
}

// TestToResponse_Nil tests the empty 200.
func TestToResponse_Nil(t *testing.T) {
	resp := ToResponse(nil)
	if resp.Status != http11.StatusOK {
		t.Errorf("Got %v", resp.Status)
	}
}

// TestToResponse_Error tests rejection-aware error conversion.
func TestToResponse_Error(t *testing.T) {
	resp := ToResponse(Reject(http11.StatusConflict, "already exists"))
	if resp.Status != http11.StatusConflict {
		t.Errorf("Got %v", resp.Status)
	}
	if got := bodyString(t, resp); got != "already exists" {
		t.Errorf("Got %q", got)
	}
}

// TestToResponse_Json tests the JSON response branch.
func TestToResponse_Json(t *testing.T) {
	resp := ToResponse(Json[map[string]int]{Value: map[string]int{"n": 7}})
	if ct, _ := resp.Headers.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Got %q", ct)
	}
	if got := bodyString(t, resp); got != `{"n":7}` {
		t.Errorf("Got %q", got)
	}
}

// TestOpt tests None -> 404 and Some -> conversion.
func TestOpt(t *testing.T) {
	resp := None[string]().Response()
	if resp.Status != http11.StatusNotFound {
		t.Errorf("Got %v", resp.Status)
	}

	resp = Some("found").Response()
	if resp.Status != http11.StatusOK {
		t.Errorf("Got %v", resp.Status)
	}
	if got := bodyString(t, resp); got != "found" {
		t.Errorf("Got %q", got)
	}
}

// TestRes tests that either branch propagates its own response.
func TestRes(t *testing.T) {
	resp := Ok("fine").Response()
	if resp.Status != http11.StatusOK {
		t.Errorf("Got %v", resp.Status)
	}
	if got := bodyString(t, resp); got != "fine" {
		t.Errorf("Got %q", got)
	}

	resp = Err[string](Reject(http11.StatusConflict, "taken")).Response()
	if resp.Status != http11.StatusConflict {
		t.Errorf("Got %v", resp.Status)
	}
	if got := bodyString(t, resp); got != "taken" {
		t.Errorf("Got %q", got)
	}
}

// TestWith tests response parts riding on a primary value.
func TestWith(t *testing.T) {
	resp := ToResponse(With("created",
		SetStatus(http11.StatusCreated),
		SetHeader{Name: "X-Thing", Value: "1"},
		AppendHeader{Name: "X-Thing", Value: "2"},
	))
	if resp.Status != http11.StatusCreated {
		t.Errorf("Got %v", resp.Status)
	}
	values := resp.Headers.GetAll("X-Thing")
	if len(values) != 2 || values[0] != "1" || values[1] != "2" {
		t.Errorf("Got %v", values)
	}
}

// TestRedirect tests redirect helpers.
func TestRedirect(t *testing.T) {
	resp := SeeOther("/next")
	if resp.Status != http11.StatusSeeOther {
		t.Errorf("Got %v", resp.Status)
	}
	if loc, _ := resp.Headers.Get("Location"); loc != "/next" {
		t.Errorf("Got %q", loc)
	}
}
