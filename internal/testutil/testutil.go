package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RecordedRequest is one request seen by a MockTokenEndpoint, with its body
// already drained so tests can assert on form parameters.
type RecordedRequest struct {
	Request *http.Request
	Body    string
}

// MockTokenEndpoint simulates an OAuth2 token endpoint without real sockets.
// It records every request and serves responses through a custom RoundTripper
// wired into the client returned by Client.
type MockTokenEndpoint struct {
	// URL is a stable fake endpoint address to configure fetchers with.
	URL string

	mu       sync.Mutex
	handler  RoundTripFunc
	requests []RecordedRequest
}

// NewMockTokenEndpoint builds a mock token endpoint backed by an in-memory
// RoundTripper. If handler is nil, it serves a default successful token
// response.
func NewMockTokenEndpoint(tb testing.TB, handler RoundTripFunc) *MockTokenEndpoint {
	tb.Helper()

	if handler == nil {
		handler = TokenResponse("mock-access-token", 3600)
	}
	return &MockTokenEndpoint{
		URL:     "https://mock-issuer.example.com/oauth/v2/token",
		handler: handler,
	}
}

// Client returns an HTTP client that routes every request through the
// endpoint's recorder and handler. Pass it to the code under test instead of
// mutating http.DefaultTransport.
func (m *MockTokenEndpoint) Client() *http.Client {
	rt := RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		body := ""
		if req.Body != nil {
			b, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			req.Body.Close()
			body = string(b)
			req.Body = io.NopCloser(strings.NewReader(body))
		}

		m.mu.Lock()
		m.requests = append(m.requests, RecordedRequest{Request: req, Body: body})
		handler := m.handler
		m.mu.Unlock()

		return handler(req)
	})
	return &http.Client{Transport: rt}
}

// Requests returns a copy of all recorded requests.
func (m *MockTokenEndpoint) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]RecordedRequest, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// Calls returns the number of requests the endpoint has served.
func (m *MockTokenEndpoint) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// TokenResponse returns a handler that always serves a successful token
// response with the given access token and lifetime in seconds. A zero or
// negative expiresIn omits the expires_in field, producing a token that never
// expires.
func TokenResponse(accessToken string, expiresIn int) RoundTripFunc {
	body := fmt.Sprintf(`{"access_token":%q,"token_type":"Bearer"}`, accessToken)
	if expiresIn > 0 {
		body = fmt.Sprintf(`{"access_token":%q,"token_type":"Bearer","expires_in":%d}`, accessToken, expiresIn)
	}
	return func(req *http.Request) (*http.Response, error) {
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// ErrorResponse returns a handler that always serves the given status code and
// body, simulating an issuer failure.
func ErrorResponse(status int, body string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: status,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// Sequence returns a handler that serves the given handlers in order, with the
// last one repeating. Use it to script flaky-issuer scenarios.
func Sequence(handlers ...RoundTripFunc) RoundTripFunc {
	var mu sync.Mutex
	calls := 0
	return func(req *http.Request) (*http.Response, error) {
		mu.Lock()
		idx := calls
		calls++
		mu.Unlock()
		if idx >= len(handlers) {
			idx = len(handlers) - 1
		}
		return handlers[idx](req)
	}
}

// WriteTestCACert writes a self-signed CA certificate to the provided path for
// TLS builder tests.
func WriteTestCACert(tb testing.TB, path string) {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		Subject:               pkix.Name{CommonName: "test-ca"},
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		tb.Fatalf("failed to create CA certificate: %v", err)
	}

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		tb.Fatalf("failed to write CA certificate: %v", err)
	}
}

// WriteTestCertAndKey writes a self-signed certificate and key to the provided
// paths for mTLS builder tests.
func WriteTestCertAndKey(tb testing.TB, certPath, keyPath string) {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		Subject:      pkix.Name{CommonName: "test-cert"},
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		tb.Fatalf("failed to create certificate: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		tb.Fatalf("failed to write certificate: %v", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)})
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		tb.Fatalf("failed to write key: %v", err)
	}
}
