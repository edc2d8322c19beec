package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"agentflow/pkg/logging"

	"golang.org/x/sync/singleflight"
)

// Dispatcher signs outbound requests on behalf of workflow nodes. It is
// safe for concurrent use; the only mutable state it owns is the OAuth2
// token cache.
type Dispatcher struct {
	cache  *tokenCache
	tokens *tokenClient

	// fetchGroup coalesces concurrent token fetches for the same cache key
	// so only one request is in flight per key.
	fetchGroup singleflight.Group

	now func() time.Time
}

// DispatcherOptions configures the Dispatcher.
type DispatcherOptions struct {
	// HTTPClient is used for token endpoint requests. If nil, a client with
	// DefaultHTTPTimeout is created.
	HTTPClient *http.Client

	// Now overrides the clock, for tests. If nil, time.Now is used.
	Now func() time.Time
}

// NewDispatcher creates a Dispatcher with default options.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithOptions(DispatcherOptions{})
}

// NewDispatcherWithOptions creates a Dispatcher with custom options.
func NewDispatcherWithOptions(opts DispatcherOptions) *Dispatcher {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		cache:  newTokenCache(),
		tokens: newTokenClient(opts.HTTPClient),
		now:    now,
	}
}

// ApplyAuth returns a copy of req with the credentials described by cfg
// injected. The input request is never mutated. The configuration is
// validated first, so a malformed config fails with a ConfigError before
// any scheme-specific logic runs.
func (d *Dispatcher) ApplyAuth(ctx context.Context, req Request, cfg Config) (Request, error) {
	if cfg == nil {
		cfg = None{}
	}
	if problems := ValidateConfig(cfg); len(problems) > 0 {
		return Request{}, &ConfigError{Scheme: cfg.Scheme(), Problems: problems}
	}

	out := req.Clone()

	switch c := cfg.(type) {
	case None:
		return out, nil

	case APIKey:
		d.applyAPIKey(&out, c)
		return out, nil

	case Basic:
		encoded := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
		out.Headers["Authorization"] = "Basic " + encoded
		return out, nil

	case Bearer:
		out.Headers["Authorization"] = "Bearer " + c.Token
		return out, nil

	case OAuth2:
		token, err := d.resolveAccessToken(ctx, c)
		if err != nil {
			return Request{}, err
		}
		out.Headers["Authorization"] = "Bearer " + token
		return out, nil

	default:
		return Request{}, fmt.Errorf("unknown auth config type %T", cfg)
	}
}

// applyAPIKey places the key/value pair at the configured location. For the
// cookie location the pair is appended to any existing Cookie header.
func (d *Dispatcher) applyAPIKey(req *Request, c APIKey) {
	switch c.In {
	case APIKeyInQuery:
		if req.Query == nil {
			req.Query = make(map[string]string)
		}
		req.Query[c.Key] = c.Value
	case APIKeyInCookie:
		pair := c.Key + "=" + c.Value
		if existing, ok := req.Headers["Cookie"]; ok && existing != "" {
			req.Headers["Cookie"] = existing + "; " + pair
		} else {
			req.Headers["Cookie"] = pair
		}
	default:
		// header is the default placement
		req.Headers[c.Key] = c.Value
	}
}

// resolveAccessToken resolves a usable access token for an OAuth2
// credential by priority: a valid cache entry, an externally supplied
// unexpired token, then a fresh fetch from the token endpoint.
func (d *Dispatcher) resolveAccessToken(ctx context.Context, cfg OAuth2) (string, error) {
	key := cacheKey(cfg.ClientID, cfg.Scope)

	if token, ok := d.cache.get(key, d.now()); ok {
		return token, nil
	}

	if cfg.AccessToken != "" && cfg.TokenExpiry.After(d.now()) {
		logging.Debug("AuthDispatcher", "Using externally supplied access token for key=%s", key)
		return cfg.AccessToken, nil
	}

	result, err, shared := d.fetchGroup.Do(key, func() (interface{}, error) {
		// Re-check the cache: a concurrent caller may have fetched while we
		// waited on the singleflight lock.
		if token, ok := d.cache.get(key, d.now()); ok {
			return token, nil
		}

		resp, err := d.tokens.fetch(ctx, cfg)
		if err != nil {
			return "", err
		}

		expiresAt := d.now().Add(time.Duration(resp.ExpiresIn)*time.Second - expirySafetyBuffer)
		d.cache.put(key, resp.AccessToken, expiresAt)
		logging.Info("AuthDispatcher", "Fetched access token for key=%s via %s grant", key, cfg.GrantType)
		return resp.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		logging.Debug("AuthDispatcher", "Token fetch for key=%s shared with concurrent caller", key)
	}

	return result.(string), nil
}

// ClearCache drops all cached tokens. Intended as an operational and test
// hook; the next OAuth2 request per key fetches a fresh token.
func (d *Dispatcher) ClearCache() {
	d.cache.clear()
}

// CachedTokenCount returns the number of tokens currently held in the
// cache, expired entries included.
func (d *Dispatcher) CachedTokenCount() int {
	return d.cache.size()
}
