package credential

import (
	"strings"

	"agentflow/internal/auth"
)

// maskStars caps the number of stars used for the hidden middle of a
// longer secret, so the mask does not reveal the exact secret length.
const maskStars = 10

// MaskSecret hides a secret value for display. Secrets of four characters
// or fewer are replaced entirely; longer secrets keep their first and last
// two characters with up to ten stars in between.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	stars := len(s) - 4
	if stars > maskStars {
		stars = maskStars
	}
	return s[:2] + strings.Repeat("*", stars) + s[len(s)-2:]
}

// MaskConfig returns a copy of cfg with every secret field masked. The
// result is safe to display or serialize; it can never be used for signing.
func MaskConfig(cfg auth.Config) auth.Config {
	switch c := cfg.(type) {
	case auth.APIKey:
		c.Value = MaskSecret(c.Value)
		return c
	case auth.Basic:
		c.Password = MaskSecret(c.Password)
		return c
	case auth.Bearer:
		c.Token = MaskSecret(c.Token)
		return c
	case auth.OAuth2:
		c.ClientSecret = MaskSecret(c.ClientSecret)
		if c.AccessToken != "" {
			c.AccessToken = MaskSecret(c.AccessToken)
		}
		if c.RefreshToken != "" {
			c.RefreshToken = MaskSecret(c.RefreshToken)
		}
		return c
	default:
		return cfg
	}
}
