package http11

import "sync"

// Upgrade provides the raw connection stream after a protocol upgrade. The
// holder has exclusive ownership of both halves of the stream.
type Upgrade struct {
	conn Conn
}

func newUpgrade(conn Conn) *Upgrade {
	return &Upgrade{conn: conn}
}

// Read reads from the upgraded stream.
func (u *Upgrade) Read(p []byte) (int, error) {
	return u.conn.Read(p)
}

// Write writes to the upgraded stream.
func (u *Upgrade) Write(p []byte) (int, error) {
	return u.conn.Write(p)
}

// Close closes this handle of the upgraded stream.
func (u *Upgrade) Close() error {
	return u.conn.Close()
}

// TryClone duplicates the upgraded stream handle.
func (u *Upgrade) TryClone() (*Upgrade, error) {
	c, err := u.conn.TryClone()
	if err != nil {
		return nil, err
	}
	return &Upgrade{conn: c}, nil
}

// upgradeState is the rendezvous shared by PendingUpgrade and its notifier.
type upgradeState struct {
	mu        sync.Mutex
	cond      *sync.Cond
	upgrade   *Upgrade
	abandoned bool
}

// PendingUpgrade parks its holder until the protocol engine finishes writing
// the response and hands over the raw stream. The handler takes it out of the
// request extensions and calls Wait from a separate goroutine.
type PendingUpgrade struct {
	st *upgradeState
}

// UpgradeNotifier is the engine-side half of the rendezvous.
type UpgradeNotifier struct {
	st *upgradeState
}

// NewPendingUpgrade creates a connected notifier/pending pair.
func NewPendingUpgrade() (*UpgradeNotifier, *PendingUpgrade) {
	st := &upgradeState{}
	st.cond = sync.NewCond(&st.mu)
	return &UpgradeNotifier{st: st}, &PendingUpgrade{st: st}
}

// Wait blocks until the response has been written and the upgraded stream is
// available. If the engine abandons the upgrade (response failed, connection
// dropped), Wait fails with ErrUpgradeFailed.
func (p *PendingUpgrade) Wait() (*Upgrade, error) {
	st := p.st
	st.mu.Lock()
	defer st.mu.Unlock()
	for st.upgrade == nil && !st.abandoned {
		st.cond.Wait()
	}
	if st.upgrade == nil {
		return nil, ErrUpgradeFailed
	}
	u := st.upgrade
	st.upgrade = nil
	return u, nil
}

// Notify hands the upgraded stream to the waiter. Returns false if the
// rendezvous was already resolved.
func (n *UpgradeNotifier) Notify(conn Conn) bool {
	st := n.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.upgrade != nil || st.abandoned {
		return false
	}
	st.upgrade = newUpgrade(conn)
	st.cond.Signal()
	return true
}

// Abandon wakes the waiter with a failure. Called when the response could
// not be written.
func (n *UpgradeNotifier) Abandon() {
	st := n.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.upgrade == nil {
		st.abandoned = true
	}
	st.cond.Signal()
}
