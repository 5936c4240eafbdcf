// Package policy decides which tools a deployment may invoke.
//
// Two independent gates apply. The CRUD gate maps every tool to one
// category and one required operation; a category's allowed operation set
// comes from an immutable PermissionConfig built once at startup. The
// plugin gate applies only to categories that are off by default: such a
// category is live only while its backing plugin is installed on the
// analytics server. A tool is invocable iff both gates pass.
package policy

import (
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// Op is one CRUD operation.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpRead
	OpUpdate
	OpDelete
)

// OpSet is a set of CRUD operations.
type OpSet uint8

// AllOps contains all four CRUD operations.
const AllOps = OpSet(OpCreate | OpRead | OpUpdate | OpDelete)

// Contains reports whether the set includes op.
func (s OpSet) Contains(op Op) bool {
	return OpSet(op)&s != 0
}

// String renders the set in canonical CRUD order, "NONE" when empty.
func (s OpSet) String() string {
	if s == 0 {
		return "NONE"
	}
	var b strings.Builder
	for _, p := range [...]struct {
		op Op
		r  byte
	}{{OpCreate, 'C'}, {OpRead, 'R'}, {OpUpdate, 'U'}, {OpDelete, 'D'}} {
		if s.Contains(p.op) {
			b.WriteByte(p.r)
		}
	}
	return b.String()
}

// ParseOps parses a permission string. "CRUD", "ALL", and "*" grant all four
// operations; "" and "NONE" grant none. Anything else is read as a
// case-insensitive combination of the letters C, R, U, and D; unrecognized
// characters are ignored.
func ParseOps(raw string) OpSet {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "NONE":
		return 0
	case "CRUD", "ALL", "*":
		return AllOps
	}

	var set OpSet
	for _, r := range strings.ToUpper(raw) {
		switch r {
		case 'C':
			set |= OpSet(OpCreate)
		case 'R':
			set |= OpSet(OpRead)
		case 'U':
			set |= OpSet(OpUpdate)
		case 'D':
			set |= OpSet(OpDelete)
		}
	}
	return set
}

// PermissionConfig maps category name to its allowed operation set. Built
// once at startup from config; never mutated afterwards.
type PermissionConfig map[string]OpSet

// NewPermissionConfig builds the per-category permission sets. Every
// category starts at the parsed global default — an empty default string
// means full access, since a deployment that configures nothing should get
// a working server. A per-category override, when present, replaces the
// default entirely; here an explicit empty string means no access.
func NewPermissionConfig(defaultRaw string, overrides map[string]string) PermissionConfig {
	def := ParseOps(defaultRaw)
	if strings.TrimSpace(defaultRaw) == "" {
		def = AllOps
	}

	cfg := make(PermissionConfig, len(Categories))
	for name := range Categories {
		if raw, ok := overrides[name]; ok {
			cfg[name] = ParseOps(raw)
		} else {
			cfg[name] = def
		}
	}
	return cfg
}

// Allowed reports whether the CRUD gate passes for the named tool. Tools
// absent from the registry pass by default: the registered tool surface is
// itself policy-filtered, so an unregistered name can only come from a
// non-conforming client, and the open-world default matches how unclassified
// operations have always behaved here. Dispatch logs when this branch is
// taken.
func Allowed(tool string, cfg PermissionConfig) bool {
	rule, ok := Tools[tool]
	if !ok {
		return true
	}
	return cfg[rule.Category].Contains(rule.Op)
}

// Available reports whether the plugin gate passes for the named category.
// Categories that are on by default need no plugin; the rest are live only
// while their required plugin appears in the installed list.
func Available(category string, installed []string) bool {
	cat, ok := Categories[category]
	if !ok || cat.AvailableByDefault {
		return true
	}
	for _, p := range installed {
		if p == cat.RequiresPlugin {
			return true
		}
	}
	return false
}

// FilterTools returns the descriptors whose CRUD gate passes, preserving
// order. The input is never mutated and no descriptor is duplicated.
func FilterTools(tools []mcplib.Tool, cfg PermissionConfig) []mcplib.Tool {
	out := make([]mcplib.Tool, 0, len(tools))
	for _, t := range tools {
		if Allowed(t.Name, cfg) {
			out = append(out, t)
		}
	}
	return out
}

// FilterToolsByPlugins returns the descriptors whose plugin gate passes,
// preserving order.
func FilterToolsByPlugins(tools []mcplib.Tool, installed []string) []mcplib.Tool {
	out := make([]mcplib.Tool, 0, len(tools))
	for _, t := range tools {
		rule, ok := Tools[t.Name]
		if !ok || Available(rule.Category, installed) {
			out = append(out, t)
		}
	}
	return out
}
