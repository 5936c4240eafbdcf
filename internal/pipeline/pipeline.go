// Package pipeline orchestrates one tool invocation end to end: resolve a
// credential, bind it to a request-scoped backend client, apply policy via
// the dispatch table, run the handler, and normalize every failure.
//
// The shared base client is never mutated. Each invocation derives its own
// immutable client with the resolved credential, so concurrent invocations
// carrying different API keys cannot race each other and there is nothing
// to restore afterwards.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/statbridge/statbridge/internal/backend"
	"github.com/statbridge/statbridge/internal/credential"
	"github.com/statbridge/statbridge/internal/ctxutil"
	"github.com/statbridge/statbridge/internal/directory"
	"github.com/statbridge/statbridge/internal/dispatch"
	"github.com/statbridge/statbridge/internal/handlers"
	"github.com/statbridge/statbridge/internal/telemetry"
)

// Result codes embedded in error result text. Human-readable detail lives
// in the rest of the message; these prefixes are the stable part.
const (
	codeInvalidArguments = "invalid_arguments"
	codeNotFound         = "not_found"
	codeInternal         = "internal"
)

// Pipeline sequences the per-invocation steps. One instance serves all
// concurrent invocations.
type Pipeline struct {
	base    *backend.Client
	table   *dispatch.Table
	plugins *directory.PluginCache
	logger  *slog.Logger

	tracer      trace.Tracer
	invocations metric.Int64Counter
	duration    metric.Float64Histogram
}

// New wires a pipeline. base is the shared client carrying the
// session-level credential (possibly none).
func New(base *backend.Client, table *dispatch.Table, plugins *directory.PluginCache, logger *slog.Logger) *Pipeline {
	meter := telemetry.Meter("statbridge/pipeline")

	invocations, err := meter.Int64Counter("statbridge.invocations",
		metric.WithDescription("Tool invocations by name and outcome"))
	if err != nil {
		logger.Warn("pipeline: invocation counter init failed", "error", err)
	}
	duration, err := meter.Float64Histogram("statbridge.invocation.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Tool invocation duration"))
	if err != nil {
		logger.Warn("pipeline: duration histogram init failed", "error", err)
	}

	return &Pipeline{
		base:        base,
		table:       table,
		plugins:     plugins,
		logger:      logger,
		tracer:      otel.Tracer("statbridge/pipeline"),
		invocations: invocations,
		duration:    duration,
	}
}

// Invoke handles one tool call. Failures are reported as tool results with
// IsError set, never as transport errors, so the caller always gets the
// normalized message.
func (p *Pipeline) Invoke(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	tool := req.Params.Name
	id := uuid.NewString()
	ctx = ctxutil.WithInvocationID(ctx, id)

	ctx, span := p.tracer.Start(ctx, "invoke "+tool)
	defer span.End()

	start := time.Now()
	res := p.invoke(ctx, tool, req)
	outcome := "ok"
	if res.IsError {
		outcome = "error"
	}

	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("outcome", outcome),
	)
	if p.invocations != nil {
		p.invocations.Add(ctx, 1, attrs)
	}
	if p.duration != nil {
		p.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}

	p.logger.Info("tool invocation",
		"invocation_id", id,
		"tool", tool,
		"outcome", outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Pipeline) invoke(ctx context.Context, tool string, req mcplib.CallToolRequest) *mcplib.CallToolResult {
	// Resolve the credential. Nothing has been touched yet on failure.
	token, err := credential.Resolve(credential.Sources{
		Explicit: req.GetString("api_key", ""),
		Metadata: ctxutil.HeaderTokenFromContext(ctx),
		Session:  p.base.Token(),
	})
	if err != nil {
		return p.normalize(ctx, tool, err)
	}

	// Bind it to this invocation only. The base client stays as it was.
	client := p.base.WithToken(token)
	ctx = ctxutil.WithClient(ctx, client)

	// Live plugin-availability input for the dispatch lookup. Fetched
	// lazily: only plugin-gated categories cost a (cached) round trip.
	installed := func() ([]string, error) {
		plugins, stale, err := p.plugins.Installed(ctx, client.ListPlugins)
		if err != nil {
			return nil, err
		}
		if stale {
			p.logger.Warn("plugin list refresh failed, serving stale snapshot",
				"invocation_id", ctxutil.InvocationIDFromContext(ctx))
		}
		return plugins, nil
	}

	handler, err := p.table.Lookup(tool, installed)
	if err != nil {
		return p.normalize(ctx, tool, err)
	}

	res, err := handler(ctx, req)
	if err != nil {
		return p.normalize(ctx, tool, err)
	}
	return res
}

// normalize maps the error taxonomy onto the small fixed set of result
// codes. Nothing is swallowed: every branch produces a caller-visible
// message and a log line.
func (p *Pipeline) normalize(ctx context.Context, tool string, err error) *mcplib.CallToolResult {
	var (
		code      string
		forbidden *dispatch.ForbiddenError
		notFound  *directory.NotFoundError
		usage     *handlers.UsageError
		upstream  *backend.Error
	)

	switch {
	case credential.IsMissing(err),
		errors.As(err, &usage),
		errors.As(err, &forbidden),
		errors.Is(err, directory.ErrMissingReference):
		code = codeInvalidArguments
	case errors.Is(err, dispatch.ErrUnknownTool):
		code = codeNotFound
		err = fmt.Errorf("unknown tool %q", tool)
	case errors.As(err, &notFound):
		code = codeNotFound
	case errors.As(err, &upstream):
		code = codeInternal
	default:
		code = codeInternal
	}

	p.logger.Warn("tool invocation failed",
		"invocation_id", ctxutil.InvocationIDFromContext(ctx),
		"tool", tool,
		"code", code,
		"error", err,
	)

	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: code + ": " + err.Error()},
		},
		IsError: true,
	}
}
