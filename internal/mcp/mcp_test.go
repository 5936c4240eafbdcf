package mcp

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statbridge/statbridge/internal/policy"
)

func TestToolDefs_MatchPolicyRegistry(t *testing.T) {
	defs := toolDefs()
	require.Len(t, defs, len(policy.Tools), "every classified tool needs a definition")

	seen := map[string]bool{}
	for _, def := range defs {
		_, ok := policy.Tools[def.Name]
		assert.True(t, ok, "tool %s has no policy classification", def.Name)
		assert.False(t, seen[def.Name], "duplicate definition for %s", def.Name)
		seen[def.Name] = true
		assert.NotEmpty(t, def.Description, "tool %s needs a description", def.Name)
	}
}

func TestHeaderToken(t *testing.T) {
	r := httptest.NewRequest("POST", "/mcp", nil)
	assert.Empty(t, headerToken(r))

	r.Header.Set("X-API-Key", "plain-key")
	assert.Equal(t, "plain-key", headerToken(r))

	// Bearer wins over X-API-Key.
	r.Header.Set("Authorization", "Bearer bearer-key")
	assert.Equal(t, "bearer-key", headerToken(r))

	// Non-bearer Authorization falls back to X-API-Key.
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Equal(t, "plain-key", headerToken(r))
}

func TestReadOnlyPermissionFiltersRegistrations(t *testing.T) {
	perms := policy.NewPermissionConfig("R", nil)
	permitted := policy.FilterTools(toolDefs(), perms)

	for _, tool := range permitted {
		rule := policy.Tools[tool.Name]
		assert.Equal(t, policy.OpRead, rule.Op, "write tool %s leaked through read-only config", tool.Name)
	}
	assert.NotEmpty(t, permitted)
	assert.Less(t, len(permitted), len(toolDefs()))
}
