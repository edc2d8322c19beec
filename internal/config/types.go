package config

import (
	"fmt"
	"time"

	"agentflow/internal/auth"
)

// AgentFlowConfig is the top-level configuration structure for the
// agentflow backend services.
type AgentFlowConfig struct {
	Server      ServerConfig     `yaml:"server,omitempty"`
	Auth        AuthConfig       `yaml:"auth,omitempty"`
	Logging     LoggingConfig    `yaml:"logging,omitempty"`
	Credentials []CredentialSpec `yaml:"credentials,omitempty"`
}

// ServerConfig defines where the HTTP server (connection endpoint and
// event ingress) binds.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"` // Host to bind to (default: localhost)
	Port int    `yaml:"port,omitempty"` // Port for the WebSocket and API endpoints (default: 8081)
}

// AuthConfig tunes the auth dispatcher.
type AuthConfig struct {
	// TokenRequestTimeout bounds each OAuth2 token endpoint round trip
	// (default: 30s).
	TokenRequestTimeout time.Duration `yaml:"tokenRequestTimeout,omitempty"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error (default: info)
}

// CredentialSpec is the YAML shape of a preloaded credential. It is a flat
// decode surface; ToAuthConfig converts it into the typed auth.Config
// variant for its scheme and rejects specs whose scheme has no usable
// sub-fields.
type CredentialSpec struct {
	ID     string `yaml:"id,omitempty"`
	Name   string `yaml:"name"`
	Scheme string `yaml:"scheme"`

	// apiKey
	Key   string `yaml:"key,omitempty"`
	Value string `yaml:"value,omitempty"`
	In    string `yaml:"in,omitempty"`

	// basic
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// bearer
	Token string `yaml:"token,omitempty"`

	// oauth2
	GrantType    string `yaml:"grantType,omitempty"`
	ClientID     string `yaml:"clientId,omitempty"`
	ClientSecret string `yaml:"clientSecret,omitempty"`
	TokenURL     string `yaml:"tokenUrl,omitempty"`
	Scope        string `yaml:"scope,omitempty"`
	RefreshToken string `yaml:"refreshToken,omitempty"`
}

// ToAuthConfig converts the declaration into the typed credential configuration
// for its declared scheme.
func (s CredentialSpec) ToAuthConfig() (auth.Config, error) {
	switch auth.Scheme(s.Scheme) {
	case auth.SchemeNone:
		return auth.None{}, nil
	case auth.SchemeAPIKey:
		return auth.APIKey{Key: s.Key, Value: s.Value, In: auth.APIKeyLocation(s.In)}, nil
	case auth.SchemeBasic:
		return auth.Basic{Username: s.Username, Password: s.Password}, nil
	case auth.SchemeBearer:
		return auth.Bearer{Token: s.Token}, nil
	case auth.SchemeOAuth2:
		return auth.OAuth2{
			GrantType:    auth.GrantType(s.GrantType),
			ClientID:     s.ClientID,
			ClientSecret: s.ClientSecret,
			TokenURL:     s.TokenURL,
			Scope:        s.Scope,
			RefreshToken: s.RefreshToken,
		}, nil
	default:
		return nil, fmt.Errorf("credential %q has unknown scheme %q", s.Name, s.Scheme)
	}
}
