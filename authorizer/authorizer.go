package authorizer

import "net/http"

// Authorizer produces the current Authorization header for outbound requests.
//
// Implementations must be safe for concurrent use and must never block on
// network I/O: AuthorizationHeader reads in-memory state only. Background
// refresh, where it exists, is an implementation detail of the variant.
type Authorizer interface {
	// AuthorizationHeader returns the scheme-prefixed header value, e.g.
	// "Bearer eyJh...". It fails with ErrUnavailable when no usable credential
	// exists right now.
	AuthorizationHeader() (string, error)

	// Decorate returns a copy of req carrying the current Authorization
	// header. The input request is never mutated. Requests that already carry
	// an Authorization header pass through unchanged. Decorate fails the same
	// way AuthorizationHeader fails, so callers never send an unauthenticated
	// request by accident.
	Decorate(req *http.Request) (*http.Request, error)
}

// Logger receives diagnostic messages about token fetch and refresh activity.
// Implementations must not assume messages contain secrets; they never do.
type Logger interface {
	Printf(format string, args ...any)
}

// decorate is the shared Decorate implementation for all variants.
func decorate(a Authorizer, req *http.Request) (*http.Request, error) {
	if req.Header.Get("Authorization") != "" {
		return req, nil
	}
	header, err := a.AuthorizationHeader()
	if err != nil {
		return nil, err
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", header)
	return clone, nil
}
