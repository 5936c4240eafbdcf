// Package ctxutil provides shared context key accessors.
//
// This package exists to break the circular dependency between the
// transport layer and the handlers: the transport stashes the header
// credential and the pipeline stashes the request-scoped backend client;
// handlers read both. Everyone imports ctxutil instead of each other.
package ctxutil

import (
	"context"

	"github.com/statbridge/statbridge/internal/backend"
)

type contextKey string

const (
	keyClient       contextKey = "backend_client"
	keyHeaderToken  contextKey = "header_token"
	keyInvocationID contextKey = "invocation_id"
)

// WithClient returns a context carrying the request-scoped backend client.
func WithClient(ctx context.Context, c *backend.Client) context.Context {
	return context.WithValue(ctx, keyClient, c)
}

// ClientFromContext extracts the request-scoped backend client, or nil.
func ClientFromContext(ctx context.Context) *backend.Client {
	if v, ok := ctx.Value(keyClient).(*backend.Client); ok {
		return v
	}
	return nil
}

// WithHeaderToken returns a context carrying a credential lifted from
// transport headers. This is the "request metadata" credential source.
func WithHeaderToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyHeaderToken, token)
}

// HeaderTokenFromContext extracts the transport header credential, or "".
func HeaderTokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(keyHeaderToken).(string); ok {
		return v
	}
	return ""
}

// WithInvocationID returns a context carrying the per-call invocation id
// used to correlate log lines.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyInvocationID, id)
}

// InvocationIDFromContext extracts the invocation id, or "".
func InvocationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(keyInvocationID).(string); ok {
		return v
	}
	return ""
}
