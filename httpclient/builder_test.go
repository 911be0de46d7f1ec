package httpclient

import (
	"crypto/tls"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/vakamo-labs/middle-go/authorizer"
	"github.com/vakamo-labs/middle-go/internal/testutil"
)

// baseHTTPTransport unwraps the client's transport chain down to the
// underlying *http.Transport.
func baseHTTPTransport(tb testing.TB, client *http.Client) *http.Transport {
	tb.Helper()

	transport := client.Transport
	if at, ok := transport.(*AuthTransport); ok {
		transport = at.Base
	}
	ht, ok := transport.(*http.Transport)
	if !ok {
		tb.Fatalf("expected *http.Transport, got %T", transport)
	}
	return ht
}

func TestBuilderDefaults(t *testing.T) {
	client, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if client.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", client.Timeout)
	}
	if client.CheckRedirect != nil {
		t.Error("redirects should be followed by default")
	}

	ht := baseHTTPTransport(t, client)
	if ht.TLSClientConfig == nil || ht.TLSClientConfig.MinVersion != tls.VersionTLS12 {
		t.Error("expected TLS 1.2 minimum even without explicit TLS config")
	}
}

func TestBuilderWithAuthorizer(t *testing.T) {
	a, err := authorizer.NewBearerTokenAuthorizer("tok")
	if err != nil {
		t.Fatalf("NewBearerTokenAuthorizer failed: %v", err)
	}

	client, err := NewBuilder().WithAuthorizer(a).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	at, ok := client.Transport.(*AuthTransport)
	if !ok {
		t.Fatalf("expected *AuthTransport, got %T", client.Transport)
	}
	if at.Authorizer != a {
		t.Error("transport should hold the configured authorizer")
	}
}

func TestBuilderWithTimeout(t *testing.T) {
	client, err := NewBuilder().WithTimeout(5 * time.Second).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", client.Timeout)
	}
}

func TestBuilderWithoutRedirects(t *testing.T) {
	client, err := NewBuilder().WithoutRedirects().Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if client.CheckRedirect == nil {
		t.Fatal("expected a redirect policy")
	}
	if err := client.CheckRedirect(nil, nil); err != http.ErrUseLastResponse {
		t.Errorf("expected ErrUseLastResponse, got %v", err)
	}
}

func TestBuilderWithCustomCA(t *testing.T) {
	caFile := filepath.Join(t.TempDir(), "ca.crt")
	testutil.WriteTestCACert(t, caFile)

	client, err := NewBuilder().WithTLS(caFile, "", "").Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	ht := baseHTTPTransport(t, client)
	if ht.TLSClientConfig.RootCAs == nil {
		t.Error("expected custom CA pool")
	}
}

func TestBuilderWithMTLS(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "client.crt")
	keyFile := filepath.Join(dir, "client.key")
	testutil.WriteTestCertAndKey(t, certFile, keyFile)

	client, err := NewBuilder().WithTLS("", certFile, keyFile).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	ht := baseHTTPTransport(t, client)
	if len(ht.TLSClientConfig.Certificates) != 1 {
		t.Error("expected a client certificate for mTLS")
	}
}

func TestBuilderTLSErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
	}{
		{
			name:    "missing CA file",
			builder: NewBuilder().WithTLS("/nonexistent/ca.crt", "", ""),
		},
		{
			name:    "cert without key",
			builder: NewBuilder().WithTLS("", "/some/client.crt", ""),
		},
		{
			name:    "key without cert",
			builder: NewBuilder().WithTLS("", "", "/some/client.key"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.builder.Build(); err == nil {
				t.Fatal("Build() should fail")
			}
		})
	}
}

func TestBuilderInsecureSkipVerify(t *testing.T) {
	client, err := NewBuilder().WithInsecureSkipVerify().Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	ht := baseHTTPTransport(t, client)
	if !ht.TLSClientConfig.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify to be set")
	}
}

func TestBuilderEndToEnd(t *testing.T) {
	a, err := authorizer.NewBearerTokenAuthorizer("abc123")
	if err != nil {
		t.Fatalf("NewBearerTokenAuthorizer failed: %v", err)
	}

	var seen string
	base := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Get("Authorization")
		return okResponse(req)
	})

	client, err := NewBuilder().
		WithAuthorizer(a).
		WithBaseTransport(base).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	resp, err := client.Get("https://api.example.com/data")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if seen != "Bearer abc123" {
		t.Errorf("expected %q, got %q", "Bearer abc123", seen)
	}
}
