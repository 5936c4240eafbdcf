package handlers

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Alerts manages threshold alerts. Backed by the "alerts" plugin; dispatch
// only routes here while the backend reports that plugin as installed.
type Alerts struct {
	deps *Deps
}

func NewAlerts(deps *Deps) *Alerts {
	return &Alerts{deps: deps}
}

func (a *Alerts) List(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	appID, err := resolveApp(ctx, a.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	var data json.RawMessage
	if err := client.Get(ctx, "/api/v1/apps/"+appID+"/alerts", nil, &data); err != nil {
		return nil, err
	}
	return jsonResult(data)
}

func (a *Alerts) Create(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := req.GetString("name", "")
	metric := req.GetString("metric", "")
	if name == "" || metric == "" {
		return nil, usageErrorf("name and metric are required")
	}

	appID, err := resolveApp(ctx, a.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"name":      name,
		"metric":    metric,
		"threshold": req.GetFloat("threshold", 0),
		"direction": req.GetString("direction", "above"),
	}

	var created json.RawMessage
	if err := client.Post(ctx, "/api/v1/apps/"+appID+"/alerts", body, &created); err != nil {
		return nil, err
	}
	return jsonResult(created)
}

func (a *Alerts) Delete(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	alertID := req.GetString("alert_id", "")
	if alertID == "" {
		return nil, usageErrorf("alert_id is required")
	}

	appID, err := resolveApp(ctx, a.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := client.Delete(ctx, "/api/v1/apps/"+appID+"/alerts/"+alertID, nil); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"alert_id": alertID, "status": "deleted"})
}
