// Package testutil provides test helpers for middle-go packages.
//
// It includes a mock OAuth2 token endpoint served through an in-memory
// RoundTripper (no sockets, no global transport mutation), response scripting
// for flaky-issuer scenarios, and self-signed certificate generation for
// TLS/mTLS builder tests.
//
// # Utilities
//
//   - MockTokenEndpoint with TokenResponse / ErrorResponse / Sequence handlers
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - WriteTestCACert / WriteTestCertAndKey: temporary CA and leaf certificates
package testutil
