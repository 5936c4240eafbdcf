package mcp

import (
	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Arguments shared by every tool that targets one app: the caller passes
// either app_id (used verbatim, no lookup) or app_name (resolved against
// the cached app directory). api_key optionally overrides the credential
// for this one call.
func appArgs() []mcplib.ToolOption {
	return []mcplib.ToolOption{
		mcplib.WithString("app_id",
			mcplib.Description("Stable app identifier. Takes precedence over app_name and skips the directory lookup."),
		),
		mcplib.WithString("app_name",
			mcplib.Description("App display name, matched exactly against the apps visible to your API key."),
		),
		mcplib.WithString("api_key",
			mcplib.Description("Optional API key override for this call only."),
		),
	}
}

func toolDefs() []mcplib.Tool {
	return []mcplib.Tool{
		// apps
		mcplib.NewTool("statbridge_list_apps",
			mcplib.WithDescription("List the apps (tenant workspaces) visible to your API key. Also refreshes the app directory used by app_name resolution."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithString("api_key", mcplib.Description("Optional API key override for this call only.")),
		),
		mcplib.NewTool("statbridge_create_app",
			mcplib.WithDescription("Create a new app on the analytics server."),
			mcplib.WithString("name", mcplib.Description("Display name for the new app"), mcplib.Required()),
			mcplib.WithString("timezone", mcplib.Description("IANA timezone, defaults to UTC")),
			mcplib.WithString("category", mcplib.Description("Optional app category label")),
			mcplib.WithString("api_key", mcplib.Description("Optional API key override for this call only.")),
		),
		mcplib.NewTool("statbridge_update_app",
			append(appArgs(),
				mcplib.WithDescription("Update an app's name, timezone, or category."),
				mcplib.WithString("name", mcplib.Description("New display name")),
				mcplib.WithString("timezone", mcplib.Description("New IANA timezone")),
				mcplib.WithString("category", mcplib.Description("New category label")),
			)...,
		),
		mcplib.NewTool("statbridge_delete_app",
			append(appArgs(),
				mcplib.WithDescription("Delete an app and all of its analytics data. Irreversible."),
				mcplib.WithDestructiveHintAnnotation(true),
			)...,
		),

		// events
		mcplib.NewTool("statbridge_list_events",
			append(appArgs(),
				mcplib.WithDescription("List the event keys recorded for an app."),
				mcplib.WithReadOnlyHintAnnotation(true),
			)...,
		),
		mcplib.NewTool("statbridge_get_event_data",
			append(appArgs(),
				mcplib.WithDescription("Get count and segmentation data for one event over a period."),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("event", mcplib.Description("Event key"), mcplib.Required()),
				mcplib.WithString("period", mcplib.Description("Reporting period, e.g. 7days, 30days, 60days")),
			)...,
		),
		mcplib.NewTool("statbridge_get_top_events",
			append(appArgs(),
				mcplib.WithDescription("Get the most frequent events for an app over a period."),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("period", mcplib.Description("Reporting period, e.g. 7days, 30days")),
				mcplib.WithNumber("limit", mcplib.Description("Maximum events to return"), mcplib.Min(1), mcplib.Max(50), mcplib.DefaultNumber(10)),
			)...,
		),

		// users
		mcplib.NewTool("statbridge_get_user_details",
			append(appArgs(),
				mcplib.WithDescription("Get the profile and session history for one user."),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("user_id", mcplib.Description("User identifier"), mcplib.Required()),
			)...,
		),
		mcplib.NewTool("statbridge_delete_user_data",
			append(appArgs(),
				mcplib.WithDescription("Purge everything stored about one user within an app (GDPR-style erasure). Irreversible."),
				mcplib.WithDestructiveHintAnnotation(true),
				mcplib.WithString("user_id", mcplib.Description("User identifier"), mcplib.Required()),
			)...,
		),

		// metrics
		mcplib.NewTool("statbridge_get_session_metrics",
			append(appArgs(),
				mcplib.WithDescription("Get session counts, durations, and new-user totals for an app over a period."),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("period", mcplib.Description("Reporting period, e.g. 7days, 30days")),
			)...,
		),
		mcplib.NewTool("statbridge_get_country_data",
			append(appArgs(),
				mcplib.WithDescription("Get the per-country session breakdown for an app over a period."),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("period", mcplib.Description("Reporting period, e.g. 7days, 30days")),
			)...,
		),

		// alerts (requires the "alerts" backend plugin)
		mcplib.NewTool("statbridge_list_alerts",
			append(appArgs(),
				mcplib.WithDescription("List threshold alerts configured for an app. Requires the alerts plugin on the backend."),
				mcplib.WithReadOnlyHintAnnotation(true),
			)...,
		),
		mcplib.NewTool("statbridge_create_alert",
			append(appArgs(),
				mcplib.WithDescription("Create a threshold alert on a metric. Requires the alerts plugin on the backend."),
				mcplib.WithString("name", mcplib.Description("Alert name"), mcplib.Required()),
				mcplib.WithString("metric", mcplib.Description("Metric to watch, e.g. sessions, crashes"), mcplib.Required()),
				mcplib.WithNumber("threshold", mcplib.Description("Trigger threshold")),
				mcplib.WithString("direction", mcplib.Description("\"above\" or \"below\", defaults to above")),
			)...,
		),
		mcplib.NewTool("statbridge_delete_alert",
			append(appArgs(),
				mcplib.WithDescription("Delete a threshold alert. Requires the alerts plugin on the backend."),
				mcplib.WithString("alert_id", mcplib.Description("Alert identifier"), mcplib.Required()),
			)...,
		),

		// crashes (requires the "crashes" backend plugin)
		mcplib.NewTool("statbridge_list_crash_groups",
			append(appArgs(),
				mcplib.WithDescription("List crash groups for an app, newest first. Requires the crashes plugin on the backend."),
				mcplib.WithReadOnlyHintAnnotation(true),
				mcplib.WithString("filter", mcplib.Description("Optional filter: unresolved, resolved, new")),
				mcplib.WithNumber("limit", mcplib.Description("Maximum groups to return"), mcplib.Min(1), mcplib.Max(100), mcplib.DefaultNumber(20)),
			)...,
		),
		mcplib.NewTool("statbridge_resolve_crash_group",
			append(appArgs(),
				mcplib.WithDescription("Mark a crash group as resolved. Requires the crashes plugin on the backend."),
				mcplib.WithString("group_id", mcplib.Description("Crash group identifier"), mcplib.Required()),
			)...,
		),

		// dashboards (requires the "dashboards" backend plugin)
		mcplib.NewTool("statbridge_list_dashboards",
			append(appArgs(),
				mcplib.WithDescription("List saved dashboards for an app. Requires the dashboards plugin on the backend."),
				mcplib.WithReadOnlyHintAnnotation(true),
			)...,
		),
	}
}
