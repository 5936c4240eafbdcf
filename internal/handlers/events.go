package handlers

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Events exposes read access to event analytics.
type Events struct {
	deps *Deps
}

func NewEvents(deps *Deps) *Events {
	return &Events{deps: deps}
}

func (e *Events) List(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	appID, err := resolveApp(ctx, e.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Events []string `json:"events"`
	}
	if err := client.Get(ctx, "/api/v1/apps/"+appID+"/events", nil, &resp); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"app_id": appID,
		"events": resp.Events,
	})
}

func (e *Events) Data(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	event := req.GetString("event", "")
	if event == "" {
		return nil, usageErrorf("event is required")
	}

	appID, err := resolveApp(ctx, e.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("event", event)
	params.Set("period", req.GetString("period", "30days"))

	var data json.RawMessage
	if err := client.Get(ctx, "/api/v1/apps/"+appID+"/events/data", params, &data); err != nil {
		return nil, err
	}
	return jsonResult(data)
}

func (e *Events) Top(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	appID, err := resolveApp(ctx, e.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("period", req.GetString("period", "30days"))
	params.Set("limit", strconv.Itoa(req.GetInt("limit", 10)))

	var data json.RawMessage
	if err := client.Get(ctx, "/api/v1/apps/"+appID+"/events/top", params, &data); err != nil {
		return nil, err
	}
	return jsonResult(data)
}
