package auth

import (
	"sync"
	"time"

	"agentflow/pkg/logging"
)

// expirySafetyBuffer is subtracted from a token's reported lifetime so a
// token is never used when it could expire mid-flight.
const expirySafetyBuffer = time.Minute

// cachedToken is a usable access token together with the instant it stops
// being usable.
type cachedToken struct {
	token     string
	expiresAt time.Time
}

// tokenCache provides thread-safe in-memory storage for OAuth2 access
// tokens, keyed by client ID and scope. Expiry is checked on read; there is
// no active eviction, so the cache is bounded by the number of distinct
// (clientID, scope) pairs seen.
type tokenCache struct {
	mu     sync.RWMutex
	tokens map[string]cachedToken
}

func newTokenCache() *tokenCache {
	return &tokenCache{
		tokens: make(map[string]cachedToken),
	}
}

// cacheKey derives the cache key for an OAuth2 credential. Distinct client
// IDs or distinct scopes never share a token.
func cacheKey(clientID, scope string) string {
	if scope == "" {
		scope = "default"
	}
	return clientID + "-" + scope
}

// get returns the cached token for key if it is still usable at instant now.
func (c *tokenCache) get(key string, now time.Time) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.tokens[key]
	if !exists {
		return "", false
	}
	if !now.Before(entry.expiresAt) {
		logging.Debug("AuthDispatcher", "Cached token expired for key=%s", key)
		return "", false
	}
	return entry.token, true
}

// put stores a token for key, replacing any previous entry.
func (c *tokenCache) put(key, token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens[key] = cachedToken{token: token, expiresAt: expiresAt}
	logging.Debug("AuthDispatcher", "Cached token for key=%s (expires: %v)", key, expiresAt)
}

// clear drops every cached token.
func (c *tokenCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.tokens)
	c.tokens = make(map[string]cachedToken)
	logging.Debug("AuthDispatcher", "Cleared %d cached tokens", count)
}

// size returns the number of cached tokens, expired entries included.
func (c *tokenCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}
