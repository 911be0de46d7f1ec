package authorizer

import (
	"fmt"
	"strings"
	"time"
)

// Credential is an immutable access credential: an opaque secret, the absolute
// instant it expires, and the scopes it was granted. A zero expiry means the
// credential never expires.
//
// Credential values are replaced, never mutated in place; readers always
// receive their own copy.
type Credential struct {
	secret    string
	expiresAt time.Time
	scopes    []string
}

// NewCredential builds a credential from an opaque secret, its absolute expiry
// and the granted scopes. Pass the zero time for credentials without an expiry.
func NewCredential(secret string, expiresAt time.Time, scopes ...string) Credential {
	return Credential{
		secret:    secret,
		expiresAt: expiresAt,
		scopes:    append([]string(nil), scopes...),
	}
}

// Secret returns the raw secret. Never log or display it; use the Credential's
// String representation for diagnostics.
func (c Credential) Secret() string { return c.secret }

// ExpiresAt returns the absolute expiry instant, or the zero time if the
// credential never expires.
func (c Credential) ExpiresAt() time.Time { return c.expiresAt }

// Expires reports whether the credential has an expiry at all.
func (c Credential) Expires() bool { return !c.expiresAt.IsZero() }

// Scopes returns a copy of the granted scopes.
func (c Credential) Scopes() []string { return append([]string(nil), c.scopes...) }

// UsableAt reports whether the credential is still usable at t. The skew is
// added to the expiry to absorb clock drift between issuer and consumer.
func (c Credential) UsableAt(t time.Time, skew time.Duration) bool {
	if !c.Expires() {
		return true
	}
	return t.Before(c.expiresAt.Add(skew))
}

// String renders the credential with the secret redacted.
func (c Credential) String() string {
	expiry := "never"
	if c.Expires() {
		expiry = c.expiresAt.Format(time.RFC3339)
	}
	return fmt.Sprintf("Credential{secret:REDACTED, expires:%s, scopes:[%s]}",
		expiry, strings.Join(c.scopes, " "))
}

// GoString redacts the secret for %#v as well.
func (c Credential) GoString() string { return c.String() }
