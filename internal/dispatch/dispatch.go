// Package dispatch routes tool names to their handlers.
//
// The table is built exactly once at startup: every handler group is
// constructed a single time with shared deps, and the CRUD permission
// config it is checked against is immutable. The only per-call input is
// the installed-plugin list, so Lookup re-evaluates just that membership
// check on each invocation.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/statbridge/statbridge/internal/handlers"
	"github.com/statbridge/statbridge/internal/policy"
)

// Handler executes one tool call.
type Handler func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error)

// PluginLister supplies the live installed-plugin list. Lookup calls it
// only when the requested tool's category is plugin-gated, so invocations
// rejected by the CRUD gate (and all default-available categories) never
// trigger a backend round trip.
type PluginLister func() ([]string, error)

// ErrUnknownTool means the requested name is not in the registry at all.
// Distinct from ForbiddenError: an unknown name is a protocol-level defect
// on the caller's side, a forbidden one is a deployment configuration
// outcome.
var ErrUnknownTool = errors.New("dispatch: unknown tool")

// ForbiddenError means the tool exists but policy denies it.
type ForbiddenError struct {
	Tool     string
	Category string
	Reason   string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("tool %q is not available: %s", e.Tool, e.Reason)
}

type entry struct {
	category string
	handler  Handler
}

// Table is the static tool registry.
type Table struct {
	entries map[string]entry
	perms   policy.PermissionConfig
	logger  *slog.Logger
}

// New constructs every handler group once and wires each tool name to its
// bound method. perms is the immutable startup permission config.
func New(deps *handlers.Deps, perms policy.PermissionConfig, logger *slog.Logger) *Table {
	t := &Table{
		entries: make(map[string]entry),
		perms:   perms,
		logger:  logger,
	}

	apps := handlers.NewApps(deps)
	t.add("statbridge_list_apps", apps.List)
	t.add("statbridge_create_app", apps.Create)
	t.add("statbridge_update_app", apps.Update)
	t.add("statbridge_delete_app", apps.Delete)

	events := handlers.NewEvents(deps)
	t.add("statbridge_list_events", events.List)
	t.add("statbridge_get_event_data", events.Data)
	t.add("statbridge_get_top_events", events.Top)

	users := handlers.NewUsers(deps)
	t.add("statbridge_get_user_details", users.Details)
	t.add("statbridge_delete_user_data", users.DeleteData)

	metrics := handlers.NewMetrics(deps)
	t.add("statbridge_get_session_metrics", metrics.Sessions)
	t.add("statbridge_get_country_data", metrics.Countries)

	alerts := handlers.NewAlerts(deps)
	t.add("statbridge_list_alerts", alerts.List)
	t.add("statbridge_create_alert", alerts.Create)
	t.add("statbridge_delete_alert", alerts.Delete)

	crashes := handlers.NewCrashes(deps)
	t.add("statbridge_list_crash_groups", crashes.ListGroups)
	t.add("statbridge_resolve_crash_group", crashes.ResolveGroup)

	dashboards := handlers.NewDashboards(deps)
	t.add("statbridge_list_dashboards", dashboards.List)

	return t
}

// add registers a handler. Every added name must be classified in the
// policy registry; an unclassified name would silently ride the open-world
// default, so it panics during startup instead.
func (t *Table) add(name string, h Handler) {
	if _, ok := policy.Tools[name]; !ok {
		panic(fmt.Sprintf("dispatch: tool %q has no policy classification", name))
	}
	t.entries[name] = entry{category: policy.Tools[name].Category, handler: h}
}

// Names returns the registered tool names (unordered).
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	return names
}

// Lookup returns the handler for name after applying both policy gates.
// A name missing from the registry but permitted by the open-world CRUD
// default returns ErrUnknownTool — there is nothing to execute — after
// logging that the default-allow branch was hit.
func (t *Table) Lookup(name string, installed PluginLister) (Handler, error) {
	e, ok := t.entries[name]
	if !ok {
		if policy.Allowed(name, t.perms) {
			t.logger.Warn("unclassified tool name permitted by default-allow but not registered", "tool", name)
		}
		return nil, ErrUnknownTool
	}

	if !policy.Allowed(name, t.perms) {
		return nil, &ForbiddenError{
			Tool:     name,
			Category: e.category,
			Reason: fmt.Sprintf("the %q category does not grant the required operation (configured permissions: %s)",
				e.category, t.perms[e.category]),
		}
	}

	if !policy.Categories[e.category].AvailableByDefault {
		plugins, err := installed()
		if err != nil {
			return nil, err
		}
		if !policy.Available(e.category, plugins) {
			return nil, &ForbiddenError{
				Tool:     name,
				Category: e.category,
				Reason: fmt.Sprintf("the %q category requires the %q backend plugin, which is not installed",
					e.category, policy.Categories[e.category].RequiresPlugin),
			}
		}
	}

	return e.handler, nil
}
