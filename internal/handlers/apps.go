package handlers

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/statbridge/statbridge/internal/directory"
)

// Apps manages tenant app records. The list handler doubles as the
// directory cache's refresh path: a successful listing always installs a
// fresh snapshot so later name lookups see it.
type Apps struct {
	deps *Deps
}

// NewApps constructs the group. Called once at startup.
func NewApps(deps *Deps) *Apps {
	return &Apps{deps: deps}
}

func (a *Apps) List(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	apps, err := client.ListApps(ctx)
	if err != nil {
		return nil, err
	}
	a.deps.Apps.Refresh(apps)

	return jsonResult(map[string]any{
		"apps":  apps,
		"total": len(apps),
	})
}

func (a *Apps) Create(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, usageErrorf("name is required")
	}

	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"name":     name,
		"timezone": req.GetString("timezone", "UTC"),
	}
	if category := req.GetString("category", ""); category != "" {
		body["category"] = category
	}

	var created directory.App
	if err := client.Post(ctx, "/api/v1/apps", body, &created); err != nil {
		return nil, err
	}
	return jsonResult(created)
}

func (a *Apps) Update(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	appID, err := resolveApp(ctx, a.deps, req)
	if err != nil {
		return nil, err
	}

	body := map[string]any{}
	if name := req.GetString("name", ""); name != "" {
		body["name"] = name
	}
	if tz := req.GetString("timezone", ""); tz != "" {
		body["timezone"] = tz
	}
	if category := req.GetString("category", ""); category != "" {
		body["category"] = category
	}
	if len(body) == 0 {
		return nil, usageErrorf("nothing to update: provide name, timezone, or category")
	}

	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	var updated directory.App
	if err := client.Post(ctx, "/api/v1/apps/"+appID, body, &updated); err != nil {
		return nil, err
	}
	return jsonResult(updated)
}

func (a *Apps) Delete(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	appID, err := resolveApp(ctx, a.deps, req)
	if err != nil {
		return nil, err
	}

	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := client.Delete(ctx, "/api/v1/apps/"+appID, nil); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"app_id": appID, "status": "deleted"})
}
