// Package tools registers the LinkedIn tool catalog on an MCP server.
// Handlers resolve the caller's upstream credentials from the request
// context; calls without a valid session get a clear error instead of a
// transport-level rejection.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"linkmcp/internal/linkedin"
	"linkmcp/internal/oauth"
	"linkmcp/pkg/logging"
)

// Handler carries the dependencies tool handlers need.
type Handler struct {
	client *linkedin.Client
}

// NewHandler creates a handler over the given LinkedIn client.
func NewHandler(client *linkedin.Client) *Handler {
	return &Handler{client: client}
}

// Register adds all tools to the MCP server.
func Register(mcpServer *server.MCPServer, handler *Handler) {
	mcpServer.AddTool(mcp.Tool{
		Name:        "get_profile",
		Description: "Get the authenticated member's LinkedIn profile",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handler.GetProfile)

	mcpServer.AddTool(mcp.Tool{
		Name:        "get_company",
		Description: "Get a LinkedIn company page by its numeric organization ID",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"organization_id": map[string]interface{}{
					"type":        "string",
					"description": "Numeric organization ID, e.g. '1337'",
				},
			},
			Required: []string{"organization_id"},
		},
	}, handler.GetCompany)

	mcpServer.AddTool(mcp.Tool{
		Name:        "create_post",
		Description: "Publish a text post as the authenticated member",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "The post body",
				},
				"visibility": map[string]interface{}{
					"type":        "string",
					"description": "PUBLIC or CONNECTIONS (default PUBLIC)",
				},
			},
			Required: []string{"text"},
		},
	}, handler.CreatePost)

	mcpServer.AddTool(mcp.Tool{
		Name:        "get_post_analytics",
		Description: "Get aggregate share statistics for an organization",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"organization_id": map[string]interface{}{
					"type":        "string",
					"description": "Numeric organization ID, e.g. '1337'",
				},
			},
			Required: []string{"organization_id"},
		},
	}, handler.GetPostAnalytics)

	mcpServer.AddTool(mcp.Tool{
		Name:        "auth_status",
		Description: "Check whether the current session is authenticated with LinkedIn",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handler.AuthStatus)
}

// requireCredentials pulls the session credentials from the context.
func requireCredentials(ctx context.Context) (*oauth.Credentials, *mcp.CallToolResult) {
	creds, ok := oauth.CredentialsFromContext(ctx)
	if !ok {
		return nil, mcp.NewToolResultError("Not authenticated. Complete the OAuth flow and retry with the issued bearer token.")
	}
	return creds, nil
}

// GetProfile returns the authenticated member's profile.
func (h *Handler) GetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, errResult := requireCredentials(ctx)
	if errResult != nil {
		return errResult, nil
	}

	profile, err := h.client.GetProfile(ctx, creds.AccessToken)
	if err != nil {
		logging.Error("Tools", err, "get_profile failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch profile: %v", err)), nil
	}

	return mcp.NewToolResultText(linkedin.FormatProfile(profile)), nil
}

// GetCompany returns a company page.
func (h *Handler) GetCompany(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, errResult := requireCredentials(ctx)
	if errResult != nil {
		return errResult, nil
	}

	organizationID, err := request.RequireString("organization_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	org, err := h.client.GetOrganization(ctx, creds.AccessToken, organizationID)
	if err != nil {
		logging.Error("Tools", err, "get_company failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch company: %v", err)), nil
	}

	return mcp.NewToolResultText(linkedin.FormatOrganization(org)), nil
}

// CreatePost publishes a text post as the authenticated member. The author
// URN is derived from the member's own profile.
func (h *Handler) CreatePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, errResult := requireCredentials(ctx)
	if errResult != nil {
		return errResult, nil
	}

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if text == "" {
		return mcp.NewToolResultError("text cannot be empty"), nil
	}
	visibility, _ := request.GetArguments()["visibility"].(string)

	profile, err := h.client.GetProfile(ctx, creds.AccessToken)
	if err != nil {
		logging.Error("Tools", err, "create_post failed resolving author")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve author: %v", err)), nil
	}

	post, err := h.client.CreatePost(ctx, creds.AccessToken, &linkedin.PostRequest{
		Author:     "urn:li:person:" + profile.Sub,
		Text:       text,
		Visibility: visibility,
	})
	if err != nil {
		logging.Error("Tools", err, "create_post failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create post: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Post created: %s", post.ID)), nil
}

// GetPostAnalytics returns aggregate engagement numbers for an
// organization's shares.
func (h *Handler) GetPostAnalytics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, errResult := requireCredentials(ctx)
	if errResult != nil {
		return errResult, nil
	}

	organizationID, err := request.RequireString("organization_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats, err := h.client.GetShareStatistics(ctx, creds.AccessToken, organizationID)
	if err != nil {
		logging.Error("Tools", err, "get_post_analytics failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch share statistics: %v", err)), nil
	}

	return mcp.NewToolResultText(linkedin.FormatShareStatistics(stats)), nil
}

// AuthStatus reports whether the caller holds a live session. Works
// without authentication.
func (h *Handler) AuthStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	creds, ok := oauth.CredentialsFromContext(ctx)
	if !ok {
		return mcp.NewToolResultText("Not authenticated. Start the OAuth flow at /oauth/authorize."), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Authenticated. Scopes: %v. Upstream token expires %s.",
		creds.Scopes, creds.ExpiresAt.Format(time.RFC3339))), nil
}
