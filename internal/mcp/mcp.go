// Package mcp exposes the statbridge tool surface over the Model Context
// Protocol.
//
// Tool registration is filtered by the immutable CRUD permission config, so
// a deployment configured read-only never advertises write tools at all.
// Plugin availability is deliberately not applied here: it is a live input
// that can change mid-session, so the dispatch table re-checks it on every
// call instead.
package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/statbridge/statbridge/internal/ctxutil"
	"github.com/statbridge/statbridge/internal/pipeline"
	"github.com/statbridge/statbridge/internal/policy"
)

// Server wraps the MCP server around the invocation pipeline.
type Server struct {
	mcpServer *mcpserver.MCPServer
	logger    *slog.Logger
}

// New creates the MCP server and registers every tool the permission config
// allows, all routed through the pipeline.
func New(pipe *pipeline.Pipeline, perms policy.PermissionConfig, logger *slog.Logger, version string) *Server {
	s := &Server{
		mcpServer: mcpserver.NewMCPServer(
			"statbridge",
			version,
			mcpserver.WithToolCapabilities(true),
		),
		logger: logger,
	}

	defs := toolDefs()
	permitted := policy.FilterTools(defs, perms)
	for _, tool := range permitted {
		s.mcpServer.AddTool(tool, pipe.Invoke)
	}

	logger.Info("mcp tools registered",
		"registered", len(permitted),
		"filtered_out", len(defs)-len(permitted),
	)
	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving the stdio transport until stdin closes.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// NewHTTPServer returns a streamable-HTTP transport for the server. The
// context func lifts the caller's credential header into the context as the
// request-metadata credential source.
func (s *Server) NewHTTPServer() *mcpserver.StreamableHTTPServer {
	return mcpserver.NewStreamableHTTPServer(
		s.mcpServer,
		mcpserver.WithHTTPContextFunc(httpContext),
	)
}

func httpContext(ctx context.Context, r *http.Request) context.Context {
	if token := headerToken(r); token != "" {
		ctx = ctxutil.WithHeaderToken(ctx, token)
	}
	return ctx
}

// headerToken extracts the credential from an inbound HTTP request:
// "Authorization: Bearer <key>" preferred, bare X-API-Key accepted.
func headerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.Header.Get("X-API-Key")
}
