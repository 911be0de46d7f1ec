package authorizer

import (
	"fmt"
	"sync"
	"time"
)

// refreshOutcome is what the store holds after the most recent refresh
// attempt: a fresh credential (err nil), or the failure cause together with
// the last credential that was successfully issued, if any.
type refreshOutcome struct {
	cred *Credential
	err  error
}

// credentialStore is the single source of truth for the current credential.
// Arbitrarily many readers, exactly one writer (the refresh loop). The lock
// is held only for the in-memory swap or snapshot; the network exchange that
// produces an outcome happens entirely outside it.
type credentialStore struct {
	mu         sync.RWMutex
	outcome    refreshOutcome
	expirySkew time.Duration
	now        func() time.Time
}

func newCredentialStore(initial Credential, expirySkew time.Duration) *credentialStore {
	cred := initial
	return &credentialStore{
		outcome:    refreshOutcome{cred: &cred},
		expirySkew: expirySkew,
		now:        time.Now,
	}
}

// read returns the current credential without blocking on I/O. During a failed
// refresh the previously issued credential keeps being served until it expires
// (plus the configured skew); past that point reads fail with ErrUnavailable
// wrapping the latest fetch failure.
func (s *credentialStore) read() (Credential, error) {
	s.mu.RLock()
	outcome := s.outcome
	s.mu.RUnlock()

	if outcome.cred != nil && outcome.cred.UsableAt(s.now(), s.expirySkew) {
		return *outcome.cred, nil
	}
	if outcome.err != nil {
		return Credential{}, fmt.Errorf("%w: %w", ErrUnavailable, outcome.err)
	}
	return Credential{}, ErrUnavailable
}

// write replaces the outcome. Called only by the refresh loop.
func (s *credentialStore) write(outcome refreshOutcome) {
	s.mu.Lock()
	s.outcome = outcome
	s.mu.Unlock()
}

// snapshot returns the current outcome for scheduling decisions.
func (s *credentialStore) snapshot() refreshOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outcome
}
