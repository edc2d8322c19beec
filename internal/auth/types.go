package auth

import (
	"time"
)

// Scheme identifies how a credential is attached to an outbound call.
type Scheme string

const (
	SchemeNone   Scheme = "none"
	SchemeAPIKey Scheme = "apiKey"
	SchemeBasic  Scheme = "basic"
	SchemeBearer Scheme = "bearer"
	SchemeOAuth2 Scheme = "oauth2"
)

// APIKeyLocation determines where an API key is placed on the request.
type APIKeyLocation string

const (
	APIKeyInHeader APIKeyLocation = "header"
	APIKeyInQuery  APIKeyLocation = "query"
	APIKeyInCookie APIKeyLocation = "cookie"
)

// GrantType is the OAuth2 grant used to obtain an access token.
type GrantType string

const (
	GrantClientCredentials GrantType = "client_credentials"
	GrantRefreshToken      GrantType = "refresh_token"
	GrantAuthorizationCode GrantType = "authorization_code"
)

// Config is the closed set of credential configurations. Each variant
// carries only the fields its scheme needs, so a declared scheme can never
// be missing its corresponding sub-object.
type Config interface {
	// Scheme returns the credential scheme this configuration describes.
	Scheme() Scheme
}

// None is the absence of authentication; ApplyAuth returns the request
// unchanged (modulo cloning).
type None struct{}

func (None) Scheme() Scheme { return SchemeNone }

// APIKey attaches a static key/value pair to the request at the configured
// location.
type APIKey struct {
	Key   string
	Value string
	In    APIKeyLocation
}

func (APIKey) Scheme() Scheme { return SchemeAPIKey }

// Basic sets an Authorization header with the base64-encoded
// username:password pair.
type Basic struct {
	Username string
	Password string
}

func (Basic) Scheme() Scheme { return SchemeBasic }

// Bearer sets an Authorization header with a static bearer token.
type Bearer struct {
	Token string
}

func (Bearer) Scheme() Scheme { return SchemeBearer }

// OAuth2 obtains an access token from a token endpoint and attaches it as a
// bearer token. AccessToken/TokenExpiry optionally carry an externally
// supplied token that is used as long as it has not expired.
type OAuth2 struct {
	GrantType    GrantType
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scope        string

	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
}

func (OAuth2) Scheme() Scheme { return SchemeOAuth2 }

// Request describes an outbound HTTP call made by a workflow node. It is an
// immutable input to the dispatcher: ApplyAuth returns a new Request and
// never mutates the one it was given.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Query   map[string]string
	Body    []byte
}

// Clone returns a deep copy of the request with its own header and query
// maps, so mutations on the copy never leak into the original.
func (r Request) Clone() Request {
	out := r
	out.Headers = make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		out.Headers[k] = v
	}
	if r.Query != nil {
		out.Query = make(map[string]string, len(r.Query))
		for k, v := range r.Query {
			out.Query[k] = v
		}
	}
	if r.Body != nil {
		out.Body = append([]byte(nil), r.Body...)
	}
	return out
}
