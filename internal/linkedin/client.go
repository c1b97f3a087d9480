package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"linkmcp/pkg/logging"
)

const restliProtocolVersion = "2.0.0"

// Client calls the LinkedIn REST API with a member's access token.
// The token comes from the per-request credentials, not the client, so a
// single Client serves all authenticated sessions.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL. An empty base URL
// is rejected by the caller's config validation, not here.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the LinkedIn API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("linkedin api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("linkedin api error (status %d)", e.StatusCode)
}

// GetProfile fetches the authenticated member's OpenID profile.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, accessToken, "/v2/userinfo", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrganization fetches a company page by its numeric ID.
func (c *Client) GetOrganization(ctx context.Context, accessToken string, organizationID string) (*Organization, error) {
	var org Organization
	path := "/v2/organizations/" + url.PathEscape(organizationID)
	if err := c.get(ctx, accessToken, path, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// CreatePost publishes a text post as the given author.
func (c *Client) CreatePost(ctx context.Context, accessToken string, req *PostRequest) (*Post, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = "PUBLIC"
	}

	body := &ugcPostBody{
		Author:         req.Author,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    shareText{Text: req.Text},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": visibility,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode post body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(httpReq, accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post creation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	post := &Post{ID: resp.Header.Get("X-Restli-Id")}
	if post.ID == "" {
		// Older responses carry the ID in the body instead of a header.
		_ = json.NewDecoder(resp.Body).Decode(post)
	}

	logging.Info("LinkedIn", "Created post id=%s author=%s", post.ID, req.Author)
	return post, nil
}

// GetShareStatistics fetches aggregate engagement numbers for an
// organization's shares.
func (c *Client) GetShareStatistics(ctx context.Context, accessToken string, organizationID string) (*ShareStatistics, error) {
	q := url.Values{}
	q.Set("q", "organizationalEntity")
	q.Set("organizationalEntity", "urn:li:organization:"+organizationID)

	var envelope shareStatsEnvelope
	path := "/v2/organizationalEntityShareStatistics?" + q.Encode()
	if err := c.get(ctx, accessToken, path, &envelope); err != nil {
		return nil, err
	}

	if len(envelope.Elements) == 0 {
		return &ShareStatistics{}, nil
	}
	return &envelope.Elements[0].TotalShareStatistics, nil
}

func (c *Client) get(ctx context.Context, accessToken, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setAuthHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) setAuthHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		var parsed apiError
		if json.Unmarshal(body, &parsed) == nil {
			apiErr.Code = parsed.Code
			apiErr.Message = parsed.Message
		}
	}

	logging.Warn("LinkedIn", "API error: status=%d code=%s message=%q", apiErr.StatusCode, apiErr.Code, apiErr.Message)
	return apiErr
}
