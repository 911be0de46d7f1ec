package grpcclient

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vakamo-labs/middle-go/authorizer"
	"github.com/vakamo-labs/middle-go/internal/testutil"
)

func TestBuildRequiresAddress(t *testing.T) {
	_, err := NewBuilder().Build()
	if err == nil {
		t.Fatal("expected error for missing address")
	}
	if !strings.Contains(err.Error(), "address is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildDefaults(t *testing.T) {
	conn, err := NewBuilder().
		WithAddress("server.example.com:9090").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer conn.Close()
}

func TestBuildWithAuthorizer(t *testing.T) {
	a, err := authorizer.NewBearerTokenAuthorizer("my-token")
	if err != nil {
		t.Fatalf("NewBearerTokenAuthorizer failed: %v", err)
	}

	conn, err := NewBuilder().
		WithAddress("server.example.com:9090").
		WithAuthorizer(a).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer conn.Close()
}

func TestBuildWithCustomCA(t *testing.T) {
	caFile := filepath.Join(t.TempDir(), "ca.crt")
	testutil.WriteTestCACert(t, caFile)

	conn, err := NewBuilder().
		WithAddress("server.example.com:9090").
		WithTLS(caFile, "", "", "server.example.com").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer conn.Close()
}

func TestBuildWithMTLS(t *testing.T) {
	dir := t.TempDir()
	caFile := filepath.Join(dir, "ca.crt")
	certFile := filepath.Join(dir, "client.crt")
	keyFile := filepath.Join(dir, "client.key")
	testutil.WriteTestCACert(t, caFile)
	testutil.WriteTestCertAndKey(t, certFile, keyFile)

	conn, err := NewBuilder().
		WithAddress("server.example.com:9090").
		WithTLS(caFile, certFile, keyFile, "").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer conn.Close()
}

func TestBuildTLSErrors(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "client.crt")
	keyFile := filepath.Join(dir, "client.key")
	testutil.WriteTestCertAndKey(t, certFile, keyFile)

	tests := []struct {
		name    string
		caFile  string
		cert    string
		key     string
		wantErr string
	}{
		{
			name:    "missing CA file",
			caFile:  "/nonexistent/ca.pem",
			wantErr: "read CA file",
		},
		{
			name:    "cert without key",
			cert:    certFile,
			wantErr: "both TLS cert and key",
		},
		{
			name:    "key without cert",
			key:     keyFile,
			wantErr: "both TLS cert and key",
		},
		{
			name:    "missing cert file",
			cert:    "/nonexistent/cert.pem",
			key:     keyFile,
			wantErr: "load client certificate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().
				WithAddress("server.example.com:9090").
				WithTLS(tt.caFile, tt.cert, tt.key, "").
				Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
