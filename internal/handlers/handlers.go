// Package handlers implements the tool handlers behind the dispatch table.
//
// Each handler group is constructed once at startup with shared Deps and
// reused across invocations. Handlers read the request-scoped backend
// client from the context (bound to this invocation's credential by the
// pipeline), resolve the tenant app through the directory cache, issue one
// backend call, and format a JSON text result. Failures are returned as
// typed errors; the pipeline owns normalization.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/statbridge/statbridge/internal/backend"
	"github.com/statbridge/statbridge/internal/ctxutil"
	"github.com/statbridge/statbridge/internal/directory"
)

// Deps is the shared state every handler group is constructed with.
type Deps struct {
	Apps   *directory.AppCache
	Logger *slog.Logger
}

// UsageError marks a caller mistake (bad or missing arguments). The
// pipeline reports these as invalid-arguments rather than internal errors.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// clientFrom returns the request-scoped backend client. The pipeline always
// installs one before dispatching, so a nil client is a wiring bug.
func clientFrom(ctx context.Context) (*backend.Client, error) {
	c := ctxutil.ClientFromContext(ctx)
	if c == nil {
		return nil, fmt.Errorf("handlers: no backend client in context")
	}
	return c, nil
}

// resolveApp turns the app_id / app_name arguments into a stable app ID,
// refreshing the directory cache through the request-scoped client.
func resolveApp(ctx context.Context, d *Deps, req mcplib.CallToolRequest) (string, error) {
	client, err := clientFrom(ctx)
	if err != nil {
		return "", err
	}
	return d.Apps.Resolve(ctx,
		client.ListApps,
		req.GetString("app_id", ""),
		req.GetString("app_name", ""),
	)
}

// jsonResult marshals v into an indented JSON text result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("handlers: marshal result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}, nil
}
