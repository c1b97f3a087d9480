package oauth

import (
	"context"
	"net/http"
	"strings"

	"linkmcp/pkg/logging"
)

type contextKey int

const credentialsKey contextKey = iota

// ContextWithCredentials returns a context carrying upstream credentials.
func ContextWithCredentials(ctx context.Context, creds *Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey, creds)
}

// CredentialsFromContext returns the upstream credentials attached to the
// context, or false when the request was unauthenticated.
func CredentialsFromContext(ctx context.Context) (*Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey).(*Credentials)
	return creds, ok
}

// Authenticator resolves bearer tokens on inbound tool calls back to
// upstream credentials. It never rejects a request itself; tool handlers
// that need identity check the context and fail with their own error.
type Authenticator struct {
	signer   *Signer
	sessions *SessionStore
}

// NewAuthenticator creates an authenticator over the given signer and
// session store.
func NewAuthenticator(signer *Signer, sessions *SessionStore) *Authenticator {
	return &Authenticator{signer: signer, sessions: sessions}
}

// Authenticate inspects the Authorization header and, when it carries a
// valid token with a live session, returns a context with the session's
// credentials attached. Any failure returns the context unchanged.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) context.Context {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ctx
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ctx
	}

	claims, err := a.signer.Verify(parts[1])
	if err != nil {
		logging.Debug("OAuth", "Rejected bearer token %s: %v", logging.TruncateToken(parts[1]), err)
		return ctx
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return ctx
	}

	session, ok := a.sessions.Get(subject)
	if !ok {
		logging.Debug("OAuth", "No session for subject=%s", subject)
		return ctx
	}

	return ContextWithCredentials(ctx, session.Credentials)
}
