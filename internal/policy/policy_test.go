package policy

import (
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOps(t *testing.T) {
	tests := []struct {
		raw  string
		want OpSet
	}{
		{"CRUD", AllOps},
		{"ALL", AllOps},
		{"*", AllOps},
		{"", 0},
		{"NONE", 0},
		{"none", 0},
		{"R", OpSet(OpRead)},
		{"cr", OpSet(OpCreate | OpRead)},
		{"CRX", OpSet(OpCreate | OpRead)}, // invalid letters ignored
		{"dU", OpSet(OpUpdate | OpDelete)},
		{"xyz", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseOps(tt.raw), "ParseOps(%q)", tt.raw)
	}
}

func TestOpSetString(t *testing.T) {
	assert.Equal(t, "CRUD", AllOps.String())
	assert.Equal(t, "NONE", OpSet(0).String())
	assert.Equal(t, "CR", OpSet(OpCreate|OpRead).String())
}

func TestNewPermissionConfig_Defaults(t *testing.T) {
	// Empty global default means full access everywhere.
	cfg := NewPermissionConfig("", nil)
	for name := range Categories {
		assert.Equal(t, AllOps, cfg[name], "category %s", name)
	}
}

func TestNewPermissionConfig_Overrides(t *testing.T) {
	cfg := NewPermissionConfig("R", map[string]string{
		"apps":   "CRUD",
		"alerts": "", // explicit empty override means no access
	})

	assert.Equal(t, AllOps, cfg["apps"])
	assert.Equal(t, OpSet(0), cfg["alerts"])
	assert.Equal(t, OpSet(OpRead), cfg["events"], "non-overridden categories get the global default")
}

func TestAllowed(t *testing.T) {
	cfg := NewPermissionConfig("R", nil)

	assert.True(t, Allowed("statbridge_list_apps", cfg), "read tool under R")
	assert.False(t, Allowed("statbridge_create_app", cfg), "create tool under R")
	assert.False(t, Allowed("statbridge_delete_user_data", cfg), "delete tool under R")

	// Open-world default: unregistered names pass the CRUD gate.
	assert.True(t, Allowed("some_unregistered_tool", cfg))
}

func TestAvailable_PluginGate(t *testing.T) {
	// Default-available categories need no plugin.
	assert.True(t, Available("apps", nil))

	// Plugin-backed categories follow the installed list, independent of
	// CRUD permission.
	assert.False(t, Available("alerts", nil))
	assert.False(t, Available("alerts", []string{"crashes"}))
	assert.True(t, Available("alerts", []string{"crashes", "alerts"}))

	// Unknown category names don't gate.
	assert.True(t, Available("nonexistent", nil))
}

func TestBothGatesMustPass(t *testing.T) {
	// Full CRUD permission but plugin absent: still unavailable.
	cfg := NewPermissionConfig("CRUD", nil)
	assert.True(t, Allowed("statbridge_list_alerts", cfg))
	assert.False(t, Available("alerts", []string{}))
}

func TestFilterTools(t *testing.T) {
	cfg := NewPermissionConfig("R", nil)
	in := []mcplib.Tool{
		{Name: "statbridge_list_apps"},
		{Name: "statbridge_create_app"},
		{Name: "statbridge_get_event_data"},
		{Name: "statbridge_delete_app"},
	}

	out := FilterTools(in, cfg)

	require.Len(t, out, 2)
	assert.Equal(t, "statbridge_list_apps", out[0].Name)
	assert.Equal(t, "statbridge_get_event_data", out[1].Name, "order must be preserved")

	// The input is untouched.
	assert.Len(t, in, 4)
	assert.Equal(t, "statbridge_create_app", in[1].Name)
}

func TestFilterToolsByPlugins(t *testing.T) {
	in := []mcplib.Tool{
		{Name: "statbridge_list_apps"},
		{Name: "statbridge_list_alerts"},
		{Name: "statbridge_list_crash_groups"},
	}

	out := FilterToolsByPlugins(in, []string{"crashes"})

	require.Len(t, out, 2)
	assert.Equal(t, "statbridge_list_apps", out[0].Name)
	assert.Equal(t, "statbridge_list_crash_groups", out[1].Name)
}

func TestRegistryConsistency(t *testing.T) {
	// Every tool's category must exist, and every plugin-backed category
	// must name its plugin.
	for name, rule := range Tools {
		cat, ok := Categories[rule.Category]
		require.True(t, ok, "tool %s references unknown category %s", name, rule.Category)
		if !cat.AvailableByDefault {
			assert.NotEmpty(t, cat.RequiresPlugin, "category %s is gated but names no plugin", cat.Name)
		}
	}
}
