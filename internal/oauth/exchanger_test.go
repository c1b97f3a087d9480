package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeCodeSuccess(t *testing.T) {
	var gotForm map[string]string

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":    r.Form.Get("grant_type"),
			"code":          r.Form.Get("code"),
			"redirect_uri":  r.Form.Get("redirect_uri"),
			"client_id":     r.Form.Get("client_id"),
			"client_secret": r.Form.Get("client_secret"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "upstream-access",
			"refresh_token": "upstream-refresh",
			"token_type":    "Bearer",
			"expires_in":    5184000,
			"scope":         "openid,profile,email",
		})
	}))
	defer upstream.Close()

	ex := NewLinkedInExchanger("app-id", "app-secret", upstream.URL+"/auth", upstream.URL,
		[]string{"openid", "profile", "email", "w_member_social"})

	creds, err := ex.ExchangeCode(context.Background(), "upstream-code", "http://proxy/oauth/callback")
	require.NoError(t, err)

	assert.Equal(t, "upstream-access", creds.AccessToken)
	assert.Equal(t, "upstream-refresh", creds.RefreshToken)
	assert.False(t, creds.ExpiresAt.IsZero())
	assert.Equal(t, []string{"openid", "profile", "email"}, creds.Scopes)

	assert.Equal(t, "authorization_code", gotForm["grant_type"])
	assert.Equal(t, "upstream-code", gotForm["code"])
	assert.Equal(t, "http://proxy/oauth/callback", gotForm["redirect_uri"])
	assert.Equal(t, "app-id", gotForm["client_id"])
	assert.Equal(t, "app-secret", gotForm["client_secret"])
}

func TestExchangeCodeScopeFallback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "upstream-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer upstream.Close()

	requested := []string{"openid", "profile"}
	ex := NewLinkedInExchanger("app-id", "app-secret", upstream.URL+"/auth", upstream.URL, requested)

	creds, err := ex.ExchangeCode(context.Background(), "code", "http://proxy/cb")
	require.NoError(t, err)
	assert.Equal(t, requested, creds.Scopes, "missing scope field falls back to the requested set")
}

func TestExchangeCodeUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "authorization code expired",
		})
	}))
	defer upstream.Close()

	ex := NewLinkedInExchanger("app-id", "app-secret", upstream.URL+"/auth", upstream.URL, nil)

	_, err := ex.ExchangeCode(context.Background(), "stale-code", "http://proxy/cb")
	require.Error(t, err)

	var exchErr *UpstreamExchangeError
	require.True(t, errors.As(err, &exchErr))
	assert.Equal(t, "invalid_grant", exchErr.Code)
	assert.Equal(t, "authorization code expired", exchErr.Description)
}

func TestExchangeCodeUpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	ex := NewLinkedInExchanger("app-id", "app-secret", upstream.URL+"/auth", upstream.URL, nil)

	_, err := ex.ExchangeCode(context.Background(), "code", "http://proxy/cb")
	require.Error(t, err)

	var exchErr *UpstreamExchangeError
	require.True(t, errors.As(err, &exchErr))
	assert.Empty(t, exchErr.Code)
}

func TestGrantedScopesSeparators(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma separated", "openid,profile,email", []string{"openid", "profile", "email"}},
		{"space separated", "openid profile email", []string{"openid", "profile", "email"}},
		{"mixed", "openid, profile", []string{"openid", "profile"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]interface{}{
					"access_token": "tok",
					"token_type":   "Bearer",
					"scope":        tt.raw,
				})
			}))
			defer upstream.Close()

			ex := NewLinkedInExchanger("id", "secret", upstream.URL+"/auth", upstream.URL, nil)
			creds, err := ex.ExchangeCode(context.Background(), "c", "http://proxy/cb")
			require.NoError(t, err)
			assert.Equal(t, tt.want, creds.Scopes)
		})
	}
}
