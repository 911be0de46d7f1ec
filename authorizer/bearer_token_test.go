package authorizer

import (
	"errors"
	"net/http"
	"testing"
)

func TestNewBearerTokenAuthorizer(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "simple token", token: "abc123"},
		{name: "jwt-shaped token", token: "eyJhbGciOiJSUzI1NiJ9.eyJzdWIiOiJ4In0.c2ln"},
		{name: "empty token", token: "", wantErr: true},
		{name: "non-ascii token", token: "täken", wantErr: true},
		{name: "token with space", token: "two words", wantErr: true},
		{name: "token with control char", token: "abc\ndef", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewBearerTokenAuthorizer(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				var ce *ConfigError
				if !errors.As(err, &ce) {
					t.Errorf("expected ConfigError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			header, err := a.AuthorizationHeader()
			if err != nil {
				t.Fatalf("AuthorizationHeader() failed: %v", err)
			}
			if header != "Bearer "+tt.token {
				t.Errorf("expected %q, got %q", "Bearer "+tt.token, header)
			}
		})
	}
}

func TestBearerTokenAuthorizerIsStable(t *testing.T) {
	a, err := NewBearerTokenAuthorizer("abc123")
	if err != nil {
		t.Fatalf("NewBearerTokenAuthorizer failed: %v", err)
	}

	for i := 0; i < 100; i++ {
		header, err := a.AuthorizationHeader()
		if err != nil {
			t.Fatalf("AuthorizationHeader() failed: %v", err)
		}
		if header != "Bearer abc123" {
			t.Fatalf("expected %q, got %q", "Bearer abc123", header)
		}
	}
}

func TestBearerTokenDecorate(t *testing.T) {
	a, err := NewBearerTokenAuthorizer("my-token")
	if err != nil {
		t.Fatalf("NewBearerTokenAuthorizer failed: %v", err)
	}

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}

	decorated, err := a.Decorate(req)
	if err != nil {
		t.Fatalf("Decorate() failed: %v", err)
	}
	if got := decorated.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("expected %q, got %q", "Bearer my-token", got)
	}

	req.Header.Set("Authorization", "Bearer existing")
	decorated, err = a.Decorate(req)
	if err != nil {
		t.Fatalf("Decorate() failed: %v", err)
	}
	if got := decorated.Header.Get("Authorization"); got != "Bearer existing" {
		t.Errorf("existing header should be preserved, got %q", got)
	}
}
