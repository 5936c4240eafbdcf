package handlers

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Dashboards lists saved dashboards. Backed by the "dashboards" plugin.
type Dashboards struct {
	deps *Deps
}

func NewDashboards(deps *Deps) *Dashboards {
	return &Dashboards{deps: deps}
}

func (d *Dashboards) List(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	appID, err := resolveApp(ctx, d.deps, req)
	if err != nil {
		return nil, err
	}
	client, err := clientFrom(ctx)
	if err != nil {
		return nil, err
	}

	var data json.RawMessage
	if err := client.Get(ctx, "/api/v1/apps/"+appID+"/dashboards", nil, &data); err != nil {
		return nil, err
	}
	return jsonResult(data)
}
