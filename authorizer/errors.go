package authorizer

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned by read paths when no usable credential exists:
// the most recent refresh failed and any previously issued credential has
// expired. The returned error wraps the latest fetch failure when one is known.
var ErrUnavailable = errors.New("authorizer: no usable credential")

// ConfigError reports invalid construction input. Configuration errors are not
// retryable; Build fails synchronously before any network activity.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("authorizer: invalid configuration: %s: %s", e.Field, e.Reason)
}

// FetchError reports a failed token exchange with the issuer. Fetch errors are
// retryable: the refresh loop records them and keeps retrying on a bounded
// backoff while readers ride out the grace period.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("authorizer: token fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
