package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkmcp/internal/linkedin"
	"linkmcp/internal/oauth"
)

func newToolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func authedContext() context.Context {
	return oauth.ContextWithCredentials(context.Background(), &oauth.Credentials{
		AccessToken: "upstream-access",
		ExpiresAt:   time.Now().Add(time.Hour),
		Scopes:      []string{"openid", "profile"},
	})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return textContent.Text
}

func newFixture(t *testing.T, apiHandler http.HandlerFunc) *Handler {
	t.Helper()
	server := httptest.NewServer(apiHandler)
	t.Cleanup(server.Close)
	return NewHandler(linkedin.NewClient(server.URL))
}

func TestGetProfileTool(t *testing.T) {
	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer upstream-access", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sub":  "abc123",
			"name": "Ada Lovelace",
		})
	})

	result, err := handler.GetProfile(authedContext(), newToolRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Ada Lovelace")
}

func TestGetProfileToolUnauthenticated(t *testing.T) {
	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("API must not be called without credentials")
	})

	result, err := handler.GetProfile(context.Background(), newToolRequest(nil))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Not authenticated")
}

func TestGetCompanyTool(t *testing.T) {
	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/organizations/1337", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            1337,
			"localizedName": "Example Corp",
		})
	})

	result, err := handler.GetCompany(authedContext(), newToolRequest(map[string]interface{}{
		"organization_id": "1337",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Example Corp")
}

func TestGetCompanyToolMissingArg(t *testing.T) {
	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	result, err := handler.GetCompany(authedContext(), newToolRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestCreatePostTool(t *testing.T) {
	var postedBody map[string]interface{}

	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/userinfo":
			json.NewEncoder(w).Encode(map[string]interface{}{"sub": "abc123"})
		case "/v2/ugcPosts":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&postedBody))
			w.Header().Set("X-Restli-Id", "urn:li:share:42")
			w.WriteHeader(http.StatusCreated)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	result, err := handler.CreatePost(authedContext(), newToolRequest(map[string]interface{}{
		"text": "hello from the tool",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Contains(t, resultText(t, result), "urn:li:share:42")
	assert.Equal(t, "urn:li:person:abc123", postedBody["author"])
}

func TestCreatePostToolEmptyText(t *testing.T) {
	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	result, err := handler.CreatePost(authedContext(), newToolRequest(map[string]interface{}{
		"text": "",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetPostAnalyticsTool(t *testing.T) {
	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"elements": []map[string]interface{}{
				{"totalShareStatistics": map[string]interface{}{
					"likeCount":       42,
					"impressionCount": 1000,
				}},
			},
		})
	})

	result, err := handler.GetPostAnalytics(authedContext(), newToolRequest(map[string]interface{}{
		"organization_id": "1337",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Likes: 42")
	assert.Contains(t, text, "Impressions: 1000")
}

func TestAuthStatusTool(t *testing.T) {
	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	t.Run("authenticated", func(t *testing.T) {
		result, err := handler.AuthStatus(authedContext(), newToolRequest(nil))
		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "Authenticated")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		result, err := handler.AuthStatus(context.Background(), newToolRequest(nil))
		require.NoError(t, err)
		require.False(t, result.IsError, "auth_status works without a session")
		assert.Contains(t, resultText(t, result), "Not authenticated")
	})
}

func TestToolAPIFailure(t *testing.T) {
	handler := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  401,
			"message": "token revoked",
		})
	})

	result, err := handler.GetProfile(authedContext(), newToolRequest(nil))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "token revoked")
}
