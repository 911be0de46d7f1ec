package authorizer

import "net/http"

// BearerTokenAuthorizer attaches a fixed bearer token to outbound requests.
// There is no background activity: the credential is set once at construction
// and never rewritten. It satisfies the same Authorizer contract as the
// refreshing variant, so transport glue does not care which one it holds.
type BearerTokenAuthorizer struct {
	header string
}

// NewBearerTokenAuthorizer creates an authorizer for a fixed token. Pass only
// the token, without the "Bearer " prefix.
//
// Fails with a ConfigError if the token is empty or not usable as an HTTP
// header value.
func NewBearerTokenAuthorizer(token string) (*BearerTokenAuthorizer, error) {
	if token == "" {
		return nil, &ConfigError{Field: "token", Reason: "must not be empty"}
	}
	if !validHeaderToken(token) {
		return nil, &ConfigError{Field: "token", Reason: "must be printable ASCII to be usable as a header value"}
	}
	return &BearerTokenAuthorizer{header: defaultScheme + " " + token}, nil
}

// AuthorizationHeader always returns the same "Bearer <token>" value.
func (a *BearerTokenAuthorizer) AuthorizationHeader() (string, error) {
	return a.header, nil
}

// Decorate returns a copy of req carrying the Authorization header. Requests
// that already carry one pass through unchanged.
func (a *BearerTokenAuthorizer) Decorate(req *http.Request) (*http.Request, error) {
	return decorate(a, req)
}

// validHeaderToken reports whether s can be sent verbatim in an Authorization
// header: printable ASCII, no spaces or control characters.
func validHeaderToken(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] >= 0x7f {
			return false
		}
	}
	return true
}
