// Package httpclient offers HTTP client construction helpers with automatic
// request authorization and TLS/mTLS options.
//
// It provides a fluent Builder that creates an http.Client whose requests are
// decorated with the current Authorization header by any authorizer.Authorizer
// (refreshing client-credentials or static bearer token), plus configurable
// TLS (custom CA, mTLS, insecure for tests), timeouts, base transports, and
// redirect handling. AuthTransport can wrap any RoundTripper for manual
// composition.
//
// # Quick Start
//
//	a, err := authorizer.NewClientCredentialBuilder(
//	    "client-id", "client-secret",
//	    "https://auth.example.com/oauth/v2/token",
//	).WithScopes("openid", "profile").Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := httpclient.NewBuilder().
//	    WithAuthorizer(a).
//	    WithTLS("/path/to/ca.crt", "", "").
//	    WithTimeout(60 * time.Second).
//	    Build()
//
//	resp, err := client.Get("https://api.example.com/data")
//
// # Manual Transport Wrapping
//
//	transport := httpclient.NewAuthTransport(a, nil)
//	client := &http.Client{Transport: transport}
//
// All components are safe for concurrent use if the provided Authorizer is.
package httpclient
