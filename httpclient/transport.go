package httpclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vakamo-labs/middle-go/authorizer"
)

// AuthTransport is an http.RoundTripper that decorates outgoing requests with
// the current Authorization header produced by an Authorizer.
//
// It wraps an existing transport (typically http.DefaultTransport) and injects
// the header before each request. Requests that already carry an Authorization
// header pass through untouched. If no credential is available, the request
// fails with the authorizer's error instead of going out unauthenticated.
type AuthTransport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Authorizer produces the Authorization header. Required.
	Authorizer authorizer.Authorizer
}

// RoundTrip implements http.RoundTripper. The original request is never
// mutated; decoration happens on a clone.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Authorizer == nil {
		return nil, errors.New("httpclient: Authorizer is nil")
	}

	decorated, err := t.Authorizer.Decorate(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(decorated)
}

// NewAuthTransport creates a new AuthTransport with the given authorizer.
// The base transport defaults to http.DefaultTransport if nil.
func NewAuthTransport(a authorizer.Authorizer, base http.RoundTripper) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{
		Base:       base,
		Authorizer: a,
	}
}
