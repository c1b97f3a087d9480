package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// SupportedScopes is the fixed scope list requested from LinkedIn and
// advertised downstream. The upstream application must be approved for all
// of them.
var SupportedScopes = []string{"openid", "profile", "email", "w_member_social"}

// Store TTLs. Each is a constructor parameter of its store; these are the
// values the server wires in.
const (
	// TransactionTTL bounds the time between the authorize redirect and the
	// provider callback.
	TransactionTTL = 10 * time.Minute
	// AuthCodeTTL bounds the time between the callback redirect and the
	// downstream token request.
	AuthCodeTTL = 5 * time.Minute
	// SessionTTL matches AccessTokenTTL so sessions and the tokens that
	// reference them expire together.
	SessionTTL = time.Hour
	// AccessTokenTTL is the lifetime of proxy-issued access tokens.
	AccessTokenTTL = time.Hour
)

// Credentials is the bundle obtained from LinkedIn at code exchange time.
// Tool handlers use AccessToken as a bearer token on REST calls.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scopes       []string
}

// Transaction is one in-flight authorize request, created when a downstream
// client hits /oauth/authorize and consumed when the provider callback
// arrives with the matching state.
type Transaction struct {
	ClientID            string
	RedirectURI         string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
	Scopes              []string
	CreatedAt           time.Time
}

// AuthCode is a single-use downstream authorization code minted after a
// successful upstream exchange. The PKCE challenge rides along from the
// Transaction so it can be verified at redemption.
type AuthCode struct {
	ClientID            string
	RedirectURI         string
	CodeChallenge       string
	CodeChallengeMethod string
	Credentials         *Credentials
	CreatedAt           time.Time
	used                bool
}

// Session maps the subject of a proxy-issued access token to the LinkedIn
// credentials it stands for.
type Session struct {
	Credentials *Credentials
	CreatedAt   time.Time
}

// Client is a dynamically registered downstream OAuth client. Clients are
// kept for the process lifetime; there is deliberately no TTL (see doc.go).
type Client struct {
	ID           string
	Secret       string
	RedirectURIs []string
	Name         string
	CreatedAt    time.Time
}

// Metadata is the RFC 8414 authorization server metadata document.
type Metadata struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	RegistrationEndpoint              string   `json:"registration_endpoint"`
	ScopesSupported                   []string `json:"scopes_supported"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
}

// RegistrationRequest is the RFC 7591 dynamic client registration body.
type RegistrationRequest struct {
	RedirectURIs []string `json:"redirect_uris"`
	ClientName   string   `json:"client_name,omitempty"`
	GrantTypes   []string `json:"grant_types,omitempty"`
}

// RegistrationResponse echoes the accepted metadata back with the minted
// credentials.
type RegistrationResponse struct {
	ClientID       string   `json:"client_id"`
	ClientSecret   string   `json:"client_secret"`
	RedirectURIs   []string `json:"redirect_uris"`
	ClientName     string   `json:"client_name,omitempty"`
	GrantTypes     []string `json:"grant_types"`
	ClientIDIssued int64    `json:"client_id_issued_at"`
}

// TokenResponse is the standard bearer token response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// Error is the OAuth wire error body.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// newRandomID returns a fresh URL-safe identifier with 256 bits of entropy.
// Used for transaction identifiers, authorization codes, and client ids.
func newRandomID() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; treat failure as
		// unrecoverable rather than degrade to guessable identifiers.
		panic("oauth: crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
