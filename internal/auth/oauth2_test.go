package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenEndpoint is an httptest server that answers token requests and
// counts how many it received.
type tokenEndpoint struct {
	server  *httptest.Server
	fetches atomic.Int64

	mu       sync.Mutex
	lastForm map[string]string
}

func newTokenEndpoint(t *testing.T, accessToken string, expiresIn int) *tokenEndpoint {
	t.Helper()

	te := &tokenEndpoint{}
	te.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		te.fetches.Add(1)

		require.NoError(t, r.ParseForm())
		form := make(map[string]string)
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		te.mu.Lock()
		te.lastForm = form
		te.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"access_token": accessToken}
		if expiresIn > 0 {
			resp["expires_in"] = expiresIn
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(te.server.Close)
	return te
}

func (te *tokenEndpoint) form() map[string]string {
	te.mu.Lock()
	defer te.mu.Unlock()
	return te.lastForm
}

func clientCredentialsConfig(tokenURL string) OAuth2 {
	return OAuth2{
		GrantType:    GrantClientCredentials,
		ClientID:     "client-1",
		ClientSecret: "shhh",
		TokenURL:     tokenURL,
	}
}

func TestOAuth2_ClientCredentialsFetchAndCache(t *testing.T) {
	te := newTokenEndpoint(t, "tok-1", 3600)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewDispatcherWithOptions(DispatcherOptions{Now: func() time.Time { return now }})

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}
	cfg := clientCredentialsConfig(te.server.URL)

	out, err := d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", out.Headers["Authorization"])
	assert.Equal(t, int64(1), te.fetches.Load())

	form := te.form()
	assert.Equal(t, "client_credentials", form["grant_type"])
	assert.Equal(t, "client-1", form["client_id"])
	assert.Equal(t, "shhh", form["client_secret"])
	_, hasScope := form["scope"]
	assert.False(t, hasScope, "scope should be omitted when empty")

	// Second call before expiry hits the cache, no new fetch.
	out, err = d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", out.Headers["Authorization"])
	assert.Equal(t, int64(1), te.fetches.Load())
}

func TestOAuth2_CachedTokenExpiresWithSafetyBuffer(t *testing.T) {
	te := newTokenEndpoint(t, "tok-1", 120)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewDispatcherWithOptions(DispatcherOptions{Now: func() time.Time { return now }})

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}
	cfg := clientCredentialsConfig(te.server.URL)

	_, err := d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	require.Equal(t, int64(1), te.fetches.Load())

	// 59s in: still within expires_in(120s) - 60s buffer, cache serves.
	now = now.Add(59 * time.Second)
	_, err = d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), te.fetches.Load())

	// 60s in: the safety buffer makes the cached token unusable.
	now = now.Add(time.Second)
	_, err = d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), te.fetches.Load())
}

func TestOAuth2_DistinctClientAndScopeNeverShareTokens(t *testing.T) {
	te := newTokenEndpoint(t, "tok-1", 3600)
	d := NewDispatcher()

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}

	cfgA := clientCredentialsConfig(te.server.URL)
	cfgB := clientCredentialsConfig(te.server.URL)
	cfgB.ClientID = "client-2"
	cfgC := clientCredentialsConfig(te.server.URL)
	cfgC.Scope = "read:items"

	for _, cfg := range []OAuth2{cfgA, cfgB, cfgC} {
		_, err := d.ApplyAuth(context.Background(), req, cfg)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(3), te.fetches.Load())
	assert.Equal(t, 3, d.CachedTokenCount())
}

func TestOAuth2_ExternalAccessTokenUsedWhileValid(t *testing.T) {
	te := newTokenEndpoint(t, "fresh", 3600)
	d := NewDispatcher()

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}

	cfg := clientCredentialsConfig(te.server.URL)
	cfg.AccessToken = "external"
	cfg.TokenExpiry = time.Now().Add(time.Hour)

	out, err := d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Bearer external", out.Headers["Authorization"])
	assert.Equal(t, int64(0), te.fetches.Load())

	// Once the external token is expired, a fetch happens.
	cfg.TokenExpiry = time.Now().Add(-time.Minute)
	out, err = d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Bearer fresh", out.Headers["Authorization"])
	assert.Equal(t, int64(1), te.fetches.Load())
}

func TestOAuth2_RefreshTokenGrant(t *testing.T) {
	te := newTokenEndpoint(t, "refreshed", 3600)
	d := NewDispatcher()

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}

	cfg := clientCredentialsConfig(te.server.URL)
	cfg.GrantType = GrantRefreshToken
	cfg.RefreshToken = "refresh-1"

	out, err := d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Bearer refreshed", out.Headers["Authorization"])

	form := te.form()
	assert.Equal(t, "refresh_token", form["grant_type"])
	assert.Equal(t, "refresh-1", form["refresh_token"])
	assert.Equal(t, "client-1", form["client_id"])
	assert.Equal(t, "shhh", form["client_secret"])
}

func TestOAuth2_RefreshTokenGrantWithoutTokenFailsFast(t *testing.T) {
	te := newTokenEndpoint(t, "never", 3600)
	d := NewDispatcher()

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}

	cfg := clientCredentialsConfig(te.server.URL)
	cfg.GrantType = GrantRefreshToken

	_, err := d.ApplyAuth(context.Background(), req, cfg)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Equal(t, int64(0), te.fetches.Load(), "no network call may be made")
}

func TestOAuth2_AuthorizationCodeGrantUnsupported(t *testing.T) {
	te := newTokenEndpoint(t, "never", 3600)
	d := NewDispatcher()

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}

	cfg := clientCredentialsConfig(te.server.URL)
	cfg.GrantType = GrantAuthorizationCode

	_, err := d.ApplyAuth(context.Background(), req, cfg)
	require.Error(t, err)
	assert.True(t, IsUnsupportedGrant(err))
	assert.Equal(t, int64(0), te.fetches.Load())
}

func TestOAuth2_TokenEndpointErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	d := NewDispatcher()
	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}

	_, err := d.ApplyAuth(context.Background(), req, clientCredentialsConfig(server.URL))
	require.Error(t, err)
	require.True(t, IsTokenRequestError(err))

	var tokenErr *TokenRequestError
	require.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, http.StatusBadRequest, tokenErr.StatusCode)
	assert.Contains(t, tokenErr.Body, "invalid_client")
}

func TestOAuth2_ConcurrentFetchesAreCoalesced(t *testing.T) {
	var fetches atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	}))
	defer server.Close()

	d := NewDispatcher()
	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}
	cfg := clientCredentialsConfig(server.URL)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := d.ApplyAuth(context.Background(), req, cfg)
			assert.NoError(t, err)
			assert.Equal(t, "Bearer tok", out.Headers["Authorization"])
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), fetches.Load(), "concurrent callers should share one fetch")
}

func TestOAuth2_ClearCache(t *testing.T) {
	te := newTokenEndpoint(t, "tok", 3600)
	d := NewDispatcher()

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}
	cfg := clientCredentialsConfig(te.server.URL)

	_, err := d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, d.CachedTokenCount())

	d.ClearCache()
	assert.Equal(t, 0, d.CachedTokenCount())

	_, err = d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), te.fetches.Load())
}

func TestOAuth2_MissingExpiresInDefaultsToAnHour(t *testing.T) {
	te := newTokenEndpoint(t, "tok", 0)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewDispatcherWithOptions(DispatcherOptions{Now: func() time.Time { return now }})

	req := Request{URL: "https://api.example.com", Method: "GET", Headers: map[string]string{}}
	cfg := clientCredentialsConfig(te.server.URL)

	_, err := d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)

	// 3600s default minus the 60s buffer: still cached just before that.
	now = now.Add(3600*time.Second - 60*time.Second - time.Second)
	_, err = d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), te.fetches.Load())

	now = now.Add(2 * time.Second)
	_, err = d.ApplyAuth(context.Background(), req, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), te.fetches.Load())
}
