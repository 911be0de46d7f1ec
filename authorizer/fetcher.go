package authorizer

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenFetcher performs one token exchange with the issuer and returns a fresh
// credential. Implementations must be safe to retry and safe for concurrent
// use; the core calls Fetch once during Build and then only from the refresh
// loop.
type TokenFetcher interface {
	Fetch(ctx context.Context) (Credential, error)
}

// clientCredentialsFetcher exchanges client credentials for a token through
// golang.org/x/oauth2. Each Fetch bounds the exchange with a timeout and
// retries failed attempts up to maxRetries times before reporting a
// FetchError.
type clientCredentialsFetcher struct {
	config        *clientcredentials.Config
	httpClient    *http.Client
	fetchTimeout  time.Duration
	maxRetries    int
	retryInterval time.Duration
	logger        Logger
}

func (f *clientCredentialsFetcher) Fetch(ctx context.Context) (Credential, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Credential{}, &FetchError{Err: ctx.Err()}
			case <-time.After(f.retryInterval):
			}
		}

		cred, err := f.fetchOnce(ctx)
		if err == nil {
			return cred, nil
		}
		lastErr = err

		if f.logger != nil {
			f.logger.Printf("authorizer: token fetch attempt %d for client %q failed: %v",
				attempt+1, f.config.ClientID, err)
		}
	}
	return Credential{}, &FetchError{Err: lastErr}
}

func (f *clientCredentialsFetcher) fetchOnce(ctx context.Context) (Credential, error) {
	if f.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.fetchTimeout)
		defer cancel()
	}
	if f.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}

	token, err := f.config.Token(ctx)
	if err != nil {
		return Credential{}, err
	}

	// token.Expiry stays zero when the issuer omits expires_in; such
	// credentials never expire and disable background refresh.
	return NewCredential(token.AccessToken, token.Expiry, f.config.Scopes...), nil
}
