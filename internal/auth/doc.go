// Package auth implements the request-authentication dispatcher that signs
// outbound HTTP calls made by workflow nodes.
//
// The dispatcher takes an immutable request descriptor and a credential
// configuration and returns a new descriptor with the credentials injected.
// Supported schemes are none, apiKey (header, query, or cookie placement),
// basic, bearer, and oauth2.
//
// For oauth2 credentials the dispatcher owns an in-memory access-token cache
// keyed by client ID and scope. Tokens are fetched from the configured token
// endpoint with a form-encoded POST, cached with a one-minute safety buffer
// subtracted from their reported lifetime, and refreshed on expiry.
// Concurrent fetches for the same cache key are coalesced through a
// singleflight group so only one network round trip is in flight per key.
//
// All errors are typed: ConfigError for structurally invalid credentials,
// UnsupportedGrantError for the interactive authorization_code grant, and
// TokenRequestError for non-2xx responses from the token endpoint. Errors
// propagate synchronously to the caller; the dispatcher never retries.
package auth
