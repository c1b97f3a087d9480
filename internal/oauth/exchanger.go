package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"linkmcp/pkg/logging"
)

// Exchanger redeems an upstream authorization code for upstream credentials.
type Exchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*Credentials, error)
}

// UpstreamExchangeError is returned when the upstream authorization server
// rejects a code exchange. Code and Description carry the upstream's own
// error fields when it returned a parseable OAuth error body.
type UpstreamExchangeError struct {
	Code        string
	Description string
	err         error
}

func (e *UpstreamExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream exchange failed: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("upstream exchange failed: %v", e.err)
}

func (e *UpstreamExchangeError) Unwrap() error {
	return e.err
}

// LinkedInExchanger exchanges authorization codes against LinkedIn's token
// endpoint. LinkedIn does not support PKCE, so the exchange carries only
// the client credentials and the code.
type LinkedInExchanger struct {
	config *oauth2.Config
	scopes []string
}

// NewLinkedInExchanger creates an exchanger for the given app credentials
// and endpoint URLs. scopes is the scope set requested upstream; it is the
// fallback when the token response omits granted scopes.
func NewLinkedInExchanger(clientID, clientSecret, authURL, tokenURL string, scopes []string) *LinkedInExchanger {
	return &LinkedInExchanger{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
				// LinkedIn wants client credentials in the form body,
				// not in a basic auth header.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		scopes: scopes,
	}
}

// ExchangeCode redeems an upstream authorization code. redirectURI must
// match the redirect_uri sent on the authorization request.
func (le *LinkedInExchanger) ExchangeCode(ctx context.Context, code, redirectURI string) (*Credentials, error) {
	token, err := le.config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			logging.Warn("OAuth", "Upstream rejected code exchange: %s: %s",
				retrieveErr.ErrorCode, retrieveErr.ErrorDescription)
			return nil, &UpstreamExchangeError{
				Code:        retrieveErr.ErrorCode,
				Description: retrieveErr.ErrorDescription,
				err:         err,
			}
		}
		logging.Error("OAuth", err, "Upstream code exchange failed")
		return nil, &UpstreamExchangeError{err: err}
	}

	creds := &Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
		Scopes:       grantedScopes(token, le.scopes),
	}
	if creds.ExpiresAt.IsZero() {
		creds.ExpiresAt = time.Now().Add(AccessTokenTTL)
	}

	logging.Info("OAuth", "Exchanged upstream code, token %s expires %s",
		logging.TruncateToken(creds.AccessToken), creds.ExpiresAt.Format(time.RFC3339))
	return creds, nil
}

// grantedScopes extracts the granted scope list from the token response.
// LinkedIn returns a comma-separated "scope" field; the RFC says space
// separated, so both are accepted. Falls back to the requested scopes when
// the response omits the field.
func grantedScopes(token *oauth2.Token, requested []string) []string {
	raw, _ := token.Extra("scope").(string)
	if raw == "" {
		return requested
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) == 0 {
		return requested
	}
	return fields
}
