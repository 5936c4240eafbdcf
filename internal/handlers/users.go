package handlers

import (
	"context"
	"encoding/json"
	"net/url"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Users exposes per-user analytics and GDPR-style data removal.
type Users struct {
	deps *Deps
}

func NewUsers(deps *Deps) *Users {
	return &Users{deps: deps}
}

func (u *Users) Details(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	if userID == "" {
		return nil, usageErrorf("user_id is required")
	}

	appID, err := resolveApp(ctx, u.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("user_id", userID)

	var data json.RawMessage
	if err := client.Get(ctx, "/api/v1/apps/"+appID+"/users/details", params, &data); err != nil {
		return nil, err
	}
	return jsonResult(data)
}

// DeleteData purges everything the backend holds about one user within one
// app. Irreversible on the backend side.
func (u *Users) DeleteData(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	if userID == "" {
		return nil, usageErrorf("user_id is required")
	}

	appID, err := resolveApp(ctx, u.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := client.Delete(ctx, "/api/v1/apps/"+appID+"/users/"+url.PathEscape(userID), nil); err != nil {
		return nil, err
	}

	u.deps.Logger.Info("user data purged", "app_id", appID, "user_id", userID)
	return jsonResult(map[string]any{
		"app_id":  appID,
		"user_id": userID,
		"status":  "deleted",
	})
}
