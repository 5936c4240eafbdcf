package handlers

import (
	"context"
	"encoding/json"
	"net/url"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Metrics exposes aggregate session analytics.
type Metrics struct {
	deps *Deps
}

func NewMetrics(deps *Deps) *Metrics {
	return &Metrics{deps: deps}
}

func (m *Metrics) Sessions(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return m.fetch(ctx, req, "/sessions")
}

func (m *Metrics) Countries(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return m.fetch(ctx, req, "/countries")
}

func (m *Metrics) fetch(ctx context.Context, req mcplib.CallToolRequest, suffix string) (*mcplib.CallToolResult, error) {
	appID, err := resolveApp(ctx, m.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("period", req.GetString("period", "30days"))

	var data json.RawMessage
	if err := client.Get(ctx, "/api/v1/apps/"+appID+"/metrics"+suffix, params, &data); err != nil {
		return nil, err
	}
	return jsonResult(data)
}
