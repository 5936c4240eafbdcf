package handlers

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Crashes exposes crash-group triage. Backed by the "crashes" plugin.
type Crashes struct {
	deps *Deps
}

func NewCrashes(deps *Deps) *Crashes {
	return &Crashes{deps: deps}
}

func (c *Crashes) ListGroups(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	appID, err := resolveApp(ctx, c.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(req.GetInt("limit", 20)))
	if filter := req.GetString("filter", ""); filter != "" {
		params.Set("filter", filter)
	}

	var data json.RawMessage
	if err := client.Get(ctx, "/api/v1/apps/"+appID+"/crashes", params, &data); err != nil {
		return nil, err
	}
	return jsonResult(data)
}

func (c *Crashes) ResolveGroup(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	groupID := req.GetString("group_id", "")
	if groupID == "" {
		return nil, usageErrorf("group_id is required")
	}

	appID, err := resolveApp(ctx, c.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"resolved": true}
	var updated json.RawMessage
	if err := client.Post(ctx, "/api/v1/apps/"+appID+"/crashes/"+groupID, body, &updated); err != nil {
		return nil, err
	}
	return jsonResult(updated)
}
