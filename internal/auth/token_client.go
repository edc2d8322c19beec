package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agentflow/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// defaultExpiresIn is assumed when the token endpoint omits expires_in.
const defaultExpiresIn = 3600

// tokenResponse is the JSON body returned by a token endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// tokenClient performs the network round trips to OAuth2 token endpoints.
type tokenClient struct {
	httpClient *http.Client
}

func newTokenClient(httpClient *http.Client) *tokenClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &tokenClient{httpClient: httpClient}
}

// fetch obtains a fresh access token for the given OAuth2 credential.
//
// The refresh_token grant fails fast with a ConfigError when no refresh
// token is configured; no network call is made. The authorization_code grant
// always fails with an UnsupportedGrantError since it requires an
// interactive user redirect.
func (c *tokenClient) fetch(ctx context.Context, cfg OAuth2) (*tokenResponse, error) {
	data := url.Values{}

	switch cfg.GrantType {
	case GrantClientCredentials:
		data.Set("grant_type", string(GrantClientCredentials))
		data.Set("client_id", cfg.ClientID)
		data.Set("client_secret", cfg.ClientSecret)
		if cfg.Scope != "" {
			data.Set("scope", cfg.Scope)
		}

	case GrantRefreshToken:
		if cfg.RefreshToken == "" {
			return nil, &ConfigError{
				Scheme:   SchemeOAuth2,
				Problems: []string{"refresh_token grant requires a refresh token"},
			}
		}
		data.Set("grant_type", string(GrantRefreshToken))
		data.Set("refresh_token", cfg.RefreshToken)
		data.Set("client_id", cfg.ClientID)
		data.Set("client_secret", cfg.ClientSecret)

	case GrantAuthorizationCode:
		return nil, &UnsupportedGrantError{Grant: GrantAuthorizationCode}

	default:
		return nil, &ConfigError{
			Scheme:   SchemeOAuth2,
			Problems: []string{fmt.Sprintf("unknown grant type %q", cfg.GrantType)},
		}
	}

	return c.doTokenRequest(ctx, cfg.TokenURL, data)
}

// doTokenRequest performs a form-encoded POST against the token endpoint.
func (c *tokenClient) doTokenRequest(ctx context.Context, tokenURL string, data url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Debug("AuthDispatcher", "Token request to %s failed: status=%d", tokenURL, resp.StatusCode)
		return nil, &TokenRequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response from %s has no access_token", tokenURL)
	}

	if token.ExpiresIn <= 0 {
		token.ExpiresIn = defaultExpiresIn
	}

	return &token, nil
}
