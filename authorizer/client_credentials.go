package authorizer

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"weak"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Defaults applied by NewClientCredentialBuilder.
const (
	defaultScheme           = "Bearer"
	defaultRefreshTolerance = 30 * time.Second
	defaultFetchTimeout     = 30 * time.Second
	defaultMaxRetries       = 3
	defaultRetryInterval    = 10 * time.Millisecond
	defaultFloorDelay       = time.Second
)

// ClientCredentialBuilder configures a ClientCredentialAuthorizer.
//
// The zero value is not usable; start with NewClientCredentialBuilder and
// chain the With* methods. All validation happens in Build, synchronously and
// before any network activity.
type ClientCredentialBuilder struct {
	clientID     string
	clientSecret string
	tokenURL     string
	scopes       []string
	extraParams  url.Values

	scheme           string
	refreshTolerance time.Duration
	expirySkew       time.Duration
	fetchTimeout     time.Duration
	maxRetries       int
	retryInterval    time.Duration
	disableRefresh   bool

	httpClient *http.Client
	fetcher    TokenFetcher
	logger     Logger

	// test seams
	floor     time.Duration
	retryBase time.Duration
}

// NewClientCredentialBuilder creates a builder for the OAuth2 client
// credentials flow.
//
// Parameters:
//   - clientID: OAuth2 client identifier
//   - clientSecret: OAuth2 client secret
//   - tokenURL: OAuth2 token endpoint (e.g., "https://auth.example.com/oauth/v2/token")
func NewClientCredentialBuilder(clientID, clientSecret, tokenURL string) *ClientCredentialBuilder {
	return &ClientCredentialBuilder{
		clientID:         clientID,
		clientSecret:     clientSecret,
		tokenURL:         tokenURL,
		scheme:           defaultScheme,
		refreshTolerance: defaultRefreshTolerance,
		fetchTimeout:     defaultFetchTimeout,
		maxRetries:       defaultMaxRetries,
		retryInterval:    defaultRetryInterval,
		floor:            defaultFloorDelay,
		retryBase:        defaultFloorDelay,
	}
}

// WithScopes sets the scopes to request in the token.
func (b *ClientCredentialBuilder) WithScopes(scopes ...string) *ClientCredentialBuilder {
	b.scopes = append(b.scopes, scopes...)
	return b
}

// WithExtraParam appends an extra parameter to the token request.
func (b *ClientCredentialBuilder) WithExtraParam(name, value string) *ClientCredentialBuilder {
	if b.extraParams == nil {
		b.extraParams = url.Values{}
	}
	b.extraParams.Set(name, value)
	return b
}

// WithScheme overrides the authentication scheme used in the Authorization
// header. Default is "Bearer".
func (b *ClientCredentialBuilder) WithScheme(scheme string) *ClientCredentialBuilder {
	b.scheme = scheme
	return b
}

// WithRefreshTolerance sets the lead time subtracted from the token expiry to
// schedule the next proactive refresh. Default is 30 seconds.
func (b *ClientCredentialBuilder) WithRefreshTolerance(tolerance time.Duration) *ClientCredentialBuilder {
	b.refreshTolerance = tolerance
	return b
}

// WithExpirySkew allows a credential to keep being served for the given
// duration past its expiry. Default is zero: an expired credential is unusable
// the instant its expiry passes. Use this to absorb clock drift between the
// issuer and this process.
func (b *ClientCredentialBuilder) WithExpirySkew(skew time.Duration) *ClientCredentialBuilder {
	b.expirySkew = skew
	return b
}

// WithFetchTimeout bounds each token exchange with the issuer. Default is 30
// seconds. A timed-out fetch is an ordinary fetch failure.
func (b *ClientCredentialBuilder) WithFetchTimeout(timeout time.Duration) *ClientCredentialBuilder {
	b.fetchTimeout = timeout
	return b
}

// WithMaxRetries sets the number of consecutive retries within one fetch
// invocation. Default is 3.
func (b *ClientCredentialBuilder) WithMaxRetries(n int) *ClientCredentialBuilder {
	b.maxRetries = n
	return b
}

// WithRetryInterval sets the interval between consecutive retries within one
// fetch invocation. Default is 10ms.
func (b *ClientCredentialBuilder) WithRetryInterval(interval time.Duration) *ClientCredentialBuilder {
	b.retryInterval = interval
	return b
}

// WithHTTPClient sets the HTTP client used for token requests. When setting a
// custom client, make sure redirects are disabled to prevent SSRF through a
// misbehaving issuer. If not set, a client with redirects disabled is used.
func (b *ClientCredentialBuilder) WithHTTPClient(client *http.Client) *ClientCredentialBuilder {
	b.httpClient = client
	return b
}

// WithTokenFetcher replaces the token exchange implementation. Mainly useful
// in tests and for non-standard issuers.
func (b *ClientCredentialBuilder) WithTokenFetcher(fetcher TokenFetcher) *ClientCredentialBuilder {
	b.fetcher = fetcher
	return b
}

// WithoutRefresh disables background refresh. The initial credential is fetched
// once and served until it expires.
func (b *ClientCredentialBuilder) WithoutRefresh() *ClientCredentialBuilder {
	b.disableRefresh = true
	return b
}

// WithLogger sets a custom logger for fetch and refresh events. If not set,
// no logging occurs.
func (b *ClientCredentialBuilder) WithLogger(logger Logger) *ClientCredentialBuilder {
	b.logger = logger
	return b
}

// WithLoggingEnabled enables logging using the default Go log package.
func (b *ClientCredentialBuilder) WithLoggingEnabled() *ClientCredentialBuilder {
	b.logger = log.Default()
	return b
}

func (b *ClientCredentialBuilder) validate() error {
	if strings.TrimSpace(b.clientID) == "" {
		return &ConfigError{Field: "client_id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(b.clientSecret) == "" {
		return &ConfigError{Field: "client_secret", Reason: "must not be empty"}
	}
	u, err := url.Parse(b.tokenURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &ConfigError{Field: "token_url", Reason: "must be an absolute URL"}
	}
	if b.refreshTolerance < 0 {
		return &ConfigError{Field: "refresh_tolerance", Reason: "must not be negative"}
	}
	if b.expirySkew < 0 {
		return &ConfigError{Field: "expiry_skew", Reason: "must not be negative"}
	}
	if b.scheme == "" {
		return &ConfigError{Field: "scheme", Reason: "must not be empty"}
	}
	return nil
}

// Build validates the configuration, performs one synchronous token fetch and
// starts the background refresh loop. If the initial fetch fails, Build fails
// and no goroutine is spawned.
//
// Credentials without an expiry are served indefinitely and start no refresh
// loop, as does a builder configured WithoutRefresh.
func (b *ClientCredentialBuilder) Build(ctx context.Context) (*ClientCredentialAuthorizer, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fetcher := b.fetcher
	if fetcher == nil {
		httpClient := b.httpClient
		if httpClient == nil {
			httpClient = &http.Client{
				CheckRedirect: func(*http.Request, []*http.Request) error {
					return http.ErrUseLastResponse
				},
			}
		}
		fetcher = &clientCredentialsFetcher{
			config: &clientcredentials.Config{
				ClientID:       b.clientID,
				ClientSecret:   b.clientSecret,
				TokenURL:       b.tokenURL,
				Scopes:         b.scopes,
				EndpointParams: b.extraParams,
				AuthStyle:      oauth2.AuthStyleInHeader,
			},
			httpClient:    httpClient,
			fetchTimeout:  b.fetchTimeout,
			maxRetries:    b.maxRetries,
			retryInterval: b.retryInterval,
			logger:        b.logger,
		}
	}

	cred, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("authorizer: initial token fetch failed: %w", err)
	}

	state := &refreshState{
		store:     newCredentialStore(cred, b.expirySkew),
		fetcher:   fetcher,
		scheme:    b.scheme,
		clientID:  b.clientID,
		tolerance: b.refreshTolerance,
		floor:     b.floor,
		retryBase: b.retryBase,
		logger:    b.logger,
		now:       time.Now,
	}

	a := &ClientCredentialAuthorizer{
		state: state,
		stop:  make(chan struct{}),
	}

	switch {
	case b.disableRefresh:
		if b.logger != nil {
			b.logger.Printf("authorizer: refresh disabled for client %q", b.clientID)
		}
	case !cred.Expires():
		if b.logger != nil {
			b.logger.Printf("authorizer: token for client %q does not expire, refresh not needed", b.clientID)
		}
	default:
		if b.logger != nil {
			b.logger.Printf("authorizer: starting refresh loop for client %q", b.clientID)
		}
		go refreshLoop(weak.Make(state), refreshOutcome{cred: &cred}, a.stop)
	}

	return a, nil
}

// ClientCredentialAuthorizer authenticates outbound requests with tokens
// obtained through the OAuth2 client credentials flow. Tokens are refreshed
// in the background before they expire; request paths only ever read
// in-memory state.
//
// The handle is cheap to share: every copy of the pointer references the same
// credential cache and the same refresh loop. The loop stops on its own once
// all handles have been dropped, or immediately on Close.
type ClientCredentialAuthorizer struct {
	state    *refreshState
	stop     chan struct{}
	stopOnce sync.Once
}

// AuthorizationHeader returns the scheme-prefixed access token, e.g.
// "Bearer eyJh...". During a transient refresh failure the previous credential
// is returned while it remains unexpired; after that, ErrUnavailable.
func (a *ClientCredentialAuthorizer) AuthorizationHeader() (string, error) {
	cred, err := a.state.store.read()
	if err != nil {
		return "", err
	}
	return a.state.scheme + " " + cred.Secret(), nil
}

// Decorate returns a copy of req carrying the current Authorization header.
func (a *ClientCredentialAuthorizer) Decorate(req *http.Request) (*http.Request, error) {
	return decorate(a, req)
}

// Close stops the background refresh loop. It is optional: the loop also stops
// on its own once every handle has been dropped. Close is idempotent and
// affects all copies of the handle. An in-flight fetch is allowed to finish;
// no further fetches are scheduled.
func (a *ClientCredentialAuthorizer) Close() error {
	a.stopOnce.Do(func() { close(a.stop) })
	return nil
}
