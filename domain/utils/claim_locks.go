package utils

import "sync"

// ClaimLocks provides per-ticket exclusive locks for claim processing. A lock
// is acquired before any externally observable side effect of a claim and
// released only after the paired durable write has committed or rolled back,
// so two concurrent claims on one ticket can never both proceed.
type ClaimLocks struct {
	mu   sync.Mutex
	held map[int64]struct{}
}

// NewClaimLocks creates an empty lock table.
func NewClaimLocks() *ClaimLocks {
	return &ClaimLocks{held: make(map[int64]struct{})}
}

// TryAcquire attempts to take the lock for ticketID without blocking.
// Returns false if another claim holds it.
func (l *ClaimLocks) TryAcquire(ticketID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[ticketID]; taken {
		return false
	}
	l.held[ticketID] = struct{}{}
	return true
}

// Release frees the lock for ticketID. Releasing a lock that is not held is
// a no-op.
func (l *ClaimLocks) Release(ticketID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, ticketID)
}

// ForceRelease clears a stuck lock and reports whether one was held. Admin
// recovery only; it does not touch the ticket's claimed state.
func (l *ClaimLocks) ForceRelease(ticketID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, taken := l.held[ticketID]
	delete(l.held, ticketID)
	return taken
}

// Held reports whether the lock for ticketID is currently taken.
func (l *ClaimLocks) Held(ticketID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, taken := l.held[ticketID]
	return taken
}
