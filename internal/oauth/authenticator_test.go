package oauth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRequest(t *testing.T, header string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "http://proxy.example/mcp", nil)
	require.NoError(t, err)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}

func TestAuthenticateResolvesSession(t *testing.T) {
	signer := NewSigner("test-secret")
	sessions := NewSessionStore(time.Hour)
	auth := NewAuthenticator(signer, sessions)

	creds := &Credentials{AccessToken: "upstream-access"}
	sessions.Put("subject-1", &Session{Credentials: creds})

	token, err := signer.Mint(map[string]interface{}{"sub": "subject-1"}, time.Hour)
	require.NoError(t, err)

	ctx := auth.Authenticate(context.Background(), newAuthRequest(t, "Bearer "+token))

	got, ok := CredentialsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "upstream-access", got.AccessToken)
}

func TestAuthenticateNoHeader(t *testing.T) {
	auth := NewAuthenticator(NewSigner("test-secret"), NewSessionStore(time.Hour))

	ctx := auth.Authenticate(context.Background(), newAuthRequest(t, ""))

	_, ok := CredentialsFromContext(ctx)
	assert.False(t, ok)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	auth := NewAuthenticator(NewSigner("test-secret"), NewSessionStore(time.Hour))

	for _, header := range []string{"Bearer", "Basic dXNlcjpwYXNz", "garbage"} {
		ctx := auth.Authenticate(context.Background(), newAuthRequest(t, header))
		_, ok := CredentialsFromContext(ctx)
		assert.False(t, ok, "header %q must not authenticate", header)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	auth := NewAuthenticator(NewSigner("test-secret"), NewSessionStore(time.Hour))

	other := NewSigner("other-secret")
	token, err := other.Mint(map[string]interface{}{"sub": "subject-1"}, time.Hour)
	require.NoError(t, err)

	ctx := auth.Authenticate(context.Background(), newAuthRequest(t, "Bearer "+token))
	_, ok := CredentialsFromContext(ctx)
	assert.False(t, ok)
}

func TestAuthenticateMissingSession(t *testing.T) {
	signer := NewSigner("test-secret")
	auth := NewAuthenticator(signer, NewSessionStore(time.Hour))

	// Valid token but nothing stored under its subject.
	token, err := signer.Mint(map[string]interface{}{"sub": "subject-1"}, time.Hour)
	require.NoError(t, err)

	ctx := auth.Authenticate(context.Background(), newAuthRequest(t, "Bearer "+token))
	_, ok := CredentialsFromContext(ctx)
	assert.False(t, ok)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	clock := newFakeClock()
	signer := NewSigner("test-secret")
	sessions := NewSessionStore(time.Hour)
	sessions.now = clock.Now
	auth := NewAuthenticator(signer, sessions)

	sessions.Put("subject-1", &Session{Credentials: &Credentials{AccessToken: "tok"}})
	clock.Advance(2 * time.Hour)

	token, err := signer.Mint(map[string]interface{}{"sub": "subject-1"}, time.Hour)
	require.NoError(t, err)

	ctx := auth.Authenticate(context.Background(), newAuthRequest(t, "Bearer "+token))
	_, ok := CredentialsFromContext(ctx)
	assert.False(t, ok)
}
