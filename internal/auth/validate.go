package auth

import "fmt"

// ValidateConfig performs structural checks on a credential configuration
// and returns a list of human-readable findings. An empty result means the
// configuration is usable. No network I/O is performed.
func ValidateConfig(cfg Config) []string {
	var problems []string

	switch c := cfg.(type) {
	case None:
		// nothing to check

	case APIKey:
		if c.Key == "" {
			problems = append(problems, "apiKey auth requires a key name")
		}
		if c.Value == "" {
			problems = append(problems, "apiKey auth requires a value")
		}
		switch c.In {
		case APIKeyInHeader, APIKeyInQuery, APIKeyInCookie, "":
		default:
			problems = append(problems, fmt.Sprintf("apiKey location %q is not one of header, query, cookie", c.In))
		}

	case Basic:
		if c.Username == "" {
			problems = append(problems, "basic auth requires a username")
		}
		if c.Password == "" {
			problems = append(problems, "basic auth requires a password")
		}

	case Bearer:
		if c.Token == "" {
			problems = append(problems, "bearer auth requires a token")
		}

	case OAuth2:
		switch c.GrantType {
		case GrantClientCredentials, GrantRefreshToken, GrantAuthorizationCode:
		case "":
			problems = append(problems, "oauth2 auth requires a grant type")
		default:
			problems = append(problems, fmt.Sprintf("oauth2 grant type %q is not recognized", c.GrantType))
		}
		if c.ClientID == "" {
			problems = append(problems, "oauth2 auth requires a client ID")
		}
		if c.ClientSecret == "" {
			problems = append(problems, "oauth2 auth requires a client secret")
		}
		if c.TokenURL == "" {
			problems = append(problems, "oauth2 auth requires a token URL")
		}
		if c.GrantType == GrantRefreshToken && c.RefreshToken == "" {
			problems = append(problems, "refresh_token grant requires a refresh token")
		}

	case nil:
		problems = append(problems, "auth config is nil")

	default:
		problems = append(problems, fmt.Sprintf("unknown auth config type %T", cfg))
	}

	return problems
}
