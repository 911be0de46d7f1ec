// Package authorizer supplies outbound clients with an always-fresh
// Authorization header without blocking request paths on network round-trips
// to the token issuer.
//
// Two variants satisfy the same Authorizer contract:
//
//   - ClientCredentialAuthorizer: OAuth2 client credentials flow with
//     background refresh. One synchronous fetch at Build seeds the credential
//     cache; a single background goroutine refreshes the token before it
//     expires. Request paths only read in-memory state.
//   - BearerTokenAuthorizer: a fixed token, set once, never refreshed.
//
// # Behavior under refresh failure
//
// A failed refresh never interrupts traffic while the previous credential
// remains unexpired (the grace period). Once that credential expires with
// refreshes still failing, AuthorizationHeader returns ErrUnavailable wrapping
// the latest failure cause until a refresh succeeds. Refresh failures are
// never fatal to the process.
//
// # Lifetime
//
// The refresh loop holds only a weak reference to the shared credential cache.
// It stops on its own within one scheduling cycle after the last handle is
// dropped, or immediately on Close. Copies of a handle share one cache and one
// loop; Build is what spawns a loop, not copying.
//
// # Quick Start
//
//	a, err := authorizer.NewClientCredentialBuilder(
//	    "client-id",
//	    "client-secret",
//	    "https://auth.example.com/oauth/v2/token",
//	).
//	    WithScopes("openid", "profile").
//	    WithRefreshTolerance(30 * time.Second).
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	header, err := a.AuthorizationHeader() // "Bearer eyJh..."
//
// # Notes
//
//   - Credential String/GoString renderings redact the secret.
//   - All read operations complete without suspending; only the background
//     loop performs network I/O after construction.
package authorizer
