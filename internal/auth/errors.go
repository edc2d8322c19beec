package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError indicates a credential configuration is structurally invalid:
// required sub-fields are missing, or a refresh_token grant is missing its
// refresh token. It is returned before any network I/O happens.
type ConfigError struct {
	// Scheme is the declared credential scheme.
	Scheme Scheme

	// Problems lists the human-readable validation findings.
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s auth config: %s", e.Scheme, strings.Join(e.Problems, "; "))
}

// IsConfigError checks if an error is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// UnsupportedGrantError indicates an OAuth2 grant that cannot be executed
// server-side was requested. The authorization_code flow needs an
// interactive user redirect and is therefore rejected programmatically.
type UnsupportedGrantError struct {
	Grant GrantType
}

func (e *UnsupportedGrantError) Error() string {
	return fmt.Sprintf("unsupported grant type %q: requires interactive user authorization", e.Grant)
}

// IsUnsupportedGrant checks if an error is or wraps an UnsupportedGrantError.
func IsUnsupportedGrant(err error) bool {
	var grantErr *UnsupportedGrantError
	return errors.As(err, &grantErr)
}

// TokenRequestError indicates the token endpoint answered with a non-2xx
// status. Body carries the upstream response body for diagnosis.
type TokenRequestError struct {
	StatusCode int
	Body       string
}

func (e *TokenRequestError) Error() string {
	return fmt.Sprintf("token request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsTokenRequestError checks if an error is or wraps a TokenRequestError.
func IsTokenRequestError(err error) bool {
	var tokenErr *TokenRequestError
	return errors.As(err, &tokenErr)
}
