package authorizer

import (
	"context"
	"time"
	"weak"
)

// refreshState is everything the refresh loop shares with the authorizer
// handles. The loop reaches it only through a weak pointer, so the loop alone
// cannot keep the state alive: once every handle is gone the upgrade fails and
// the loop stops.
type refreshState struct {
	store     *credentialStore
	fetcher   TokenFetcher
	scheme    string
	clientID  string
	tolerance time.Duration
	floor     time.Duration
	retryBase time.Duration
	logger    Logger
	now       func() time.Time
}

// nextDelay computes how long to wait before the next refresh. With a fresh
// credential it targets expiry minus the refresh tolerance, floored so a
// tolerance at or above the token lifetime cannot degrade into a busy loop.
// After a failure it returns the given backoff instead, so transient issuer
// outages self-heal without waiting out a full token lifetime.
func (s *refreshState) nextDelay(outcome refreshOutcome, backoff time.Duration) time.Duration {
	if outcome.err != nil {
		return backoff
	}
	if outcome.cred == nil || !outcome.cred.Expires() {
		return s.floor
	}
	delay := outcome.cred.ExpiresAt().Sub(s.now()) - s.tolerance
	if delay < s.floor {
		return s.floor
	}
	return delay
}

// nextBackoff advances the failure backoff: retryBase on the first failure,
// then doubling, capped at the refresh tolerance so a retry never waits longer
// than the proactive refresh lead time.
func (s *refreshState) nextBackoff(backoff time.Duration) time.Duration {
	if backoff <= 0 {
		return s.retryBase
	}
	backoff *= 2
	if backoff > s.tolerance {
		backoff = s.tolerance
	}
	if backoff < s.retryBase {
		backoff = s.retryBase
	}
	return backoff
}

// refreshOnce fetches a new credential and records the outcome in the store.
// A failed fetch keeps the previous credential in the outcome so readers can
// ride out the grace period; the failure is logged, never propagated.
func (s *refreshState) refreshOnce(ctx context.Context) refreshOutcome {
	cred, err := s.fetcher.Fetch(ctx)

	var outcome refreshOutcome
	if err != nil {
		prev := s.store.snapshot()
		outcome = refreshOutcome{cred: prev.cred, err: err}
		if s.logger != nil {
			s.logger.Printf("authorizer: token refresh for client %q failed: %v", s.clientID, err)
		}
	} else {
		outcome = refreshOutcome{cred: &cred}
		if s.logger != nil {
			expiry := "never"
			if cred.Expires() {
				expiry = cred.ExpiresAt().Format(time.RFC3339)
			}
			s.logger.Printf("authorizer: obtained new access token for client %q (expires: %s)",
				s.clientID, expiry)
		}
	}

	s.store.write(outcome)
	return outcome
}

// refreshLoop drives background refresh for one authorizer construction.
// State transitions: wait until the next refresh is due, fetch, record the
// outcome, repeat. The loop terminates when the stop channel closes or when
// the weak upgrade fails, which means every handle has been dropped.
//
// The strong reference obtained each cycle must not be held across the wait:
// the upgrade check at the top of the cycle is what detects handle drop.
func refreshLoop(wp weak.Pointer[refreshState], initial refreshOutcome, stop <-chan struct{}) {
	var backoff time.Duration
	outcome := initial
	for {
		state := wp.Value()
		if state == nil {
			return
		}
		if outcome.err != nil {
			backoff = state.nextBackoff(backoff)
		} else {
			backoff = 0
		}
		delay := state.nextDelay(outcome, backoff)
		state = nil

		timer := time.NewTimer(delay)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		state = wp.Value()
		if state == nil {
			return
		}
		outcome = state.refreshOnce(context.Background())
	}
}
