package http11

import (
	"errors"
	"net"
	"testing"
	"time"
)

// TestPendingUpgrade_Rendezvous tests that Wait parks until Notify.
func TestPendingUpgrade_Rendezvous(t *testing.T) {
	notifier, pending := NewPendingUpgrade()

	client, srv := net.Pipe()
	defer client.Close()
	defer srv.Close()

	result := make(chan error, 1)
	go func() {
		upgrade, err := pending.Wait()
		if err == nil {
			upgrade.Close()
		}
		result <- err
	}()

	// Give the waiter a chance to park before notifying.
	time.Sleep(10 * time.Millisecond)
	if !notifier.Notify(NewConn(srv)) {
		t.Fatal("Notify returned false")
	}

	select {
	case err := <-result:
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never woke")
	}
}

// TestPendingUpgrade_Abandon tests the failure path.
func TestPendingUpgrade_Abandon(t *testing.T) {
	notifier, pending := NewPendingUpgrade()

	result := make(chan error, 1)
	go func() {
		_, err := pending.Wait()
		result <- err
	}()

	time.Sleep(10 * time.Millisecond)
	notifier.Abandon()

	select {
	case err := <-result:
		if !errors.Is(err, ErrUpgradeFailed) {
			t.Errorf("Got %v, want ErrUpgradeFailed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never woke")
	}
}

// TestConn_TryClone tests the shared-stream clone semantics.
func TestConn_TryClone(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()

	conn := NewConn(srv)
	clone, err := conn.TryClone()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Closing one handle keeps the stream alive for the other.
	if err := conn.Close(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 2)
		clone.Read(buf)
		close(done)
	}()
	if _, err := client.Write([]byte("ok")); err != nil {
		t.Fatalf("stream closed too early: %v", err)
	}
	<-done

	if err := clone.Close(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := clone.TryClone(); err == nil {
		t.Error("expected error cloning a fully closed conn")
	}
}
