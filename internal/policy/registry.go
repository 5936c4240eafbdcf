package policy

// Category groups related tools under one CRUD permission scope and an
// optional backend-plugin dependency.
type Category struct {
	Name               string
	RequiresPlugin     string
	AvailableByDefault bool
}

// Rule classifies one tool: the category it belongs to and the CRUD
// operation it needs from that category's permission set.
type Rule struct {
	Category string
	Op       Op
}

// Categories is the static category registry. Plugin-backed categories are
// off by default and come alive only when the backend reports the plugin as
// installed.
var Categories = map[string]Category{
	"apps":       {Name: "apps", AvailableByDefault: true},
	"events":     {Name: "events", AvailableByDefault: true},
	"users":      {Name: "users", AvailableByDefault: true},
	"metrics":    {Name: "metrics", AvailableByDefault: true},
	"alerts":     {Name: "alerts", RequiresPlugin: "alerts"},
	"crashes":    {Name: "crashes", RequiresPlugin: "crashes"},
	"dashboards": {Name: "dashboards", RequiresPlugin: "dashboards"},
}

// Tools is the static tool classification. Every tool belongs to exactly
// one category.
var Tools = map[string]Rule{
	"statbridge_list_apps":  {Category: "apps", Op: OpRead},
	"statbridge_create_app": {Category: "apps", Op: OpCreate},
	"statbridge_update_app": {Category: "apps", Op: OpUpdate},
	"statbridge_delete_app": {Category: "apps", Op: OpDelete},

	"statbridge_list_events":    {Category: "events", Op: OpRead},
	"statbridge_get_event_data": {Category: "events", Op: OpRead},
	"statbridge_get_top_events": {Category: "events", Op: OpRead},

	"statbridge_get_user_details": {Category: "users", Op: OpRead},
	"statbridge_delete_user_data": {Category: "users", Op: OpDelete},

	"statbridge_get_session_metrics": {Category: "metrics", Op: OpRead},
	"statbridge_get_country_data":    {Category: "metrics", Op: OpRead},

	"statbridge_list_alerts":  {Category: "alerts", Op: OpRead},
	"statbridge_create_alert": {Category: "alerts", Op: OpCreate},
	"statbridge_delete_alert": {Category: "alerts", Op: OpDelete},

	"statbridge_list_crash_groups":   {Category: "crashes", Op: OpRead},
	"statbridge_resolve_crash_group": {Category: "crashes", Op: OpUpdate},

	"statbridge_list_dashboards": {Category: "dashboards", Op: OpRead},
}
