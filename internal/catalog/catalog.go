// Package catalog merges the local tool registry and the remote
// tool-provider manager into a single ordered, name-addressable sequence of
// tools for the workflow engine to consult.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jyje/pilot-agent/internal/llm"
	"github.com/jyje/pilot-agent/internal/mcp"
	"github.com/jyje/pilot-agent/internal/tools"
)

// Origin distinguishes where a catalog entry's tool lives.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

// Descriptor is one entry in the built catalog.
type Descriptor struct {
	Name        string
	Description string
	Schema      map[string]any
	Origin      Origin
	Server      string // non-empty only for OriginRemote
}

// Catalog is the merged, name-addressable view over local and remote tools.
// Local tools are listed first, in registration order; remote tools follow,
// in server order. A remote tool whose catalog name (bare, or
// "server/tool" when qualified by the manager) equals a local tool name is
// dropped in favor of the local tool (local wins).
type Catalog struct {
	registry *tools.Registry
	manager  *mcp.Manager
	entries  []Descriptor
	index    map[string]Descriptor
	warnings []string
}

// Build assembles the catalog from the current state of the registry and
// manager. Call it again after any registry/manager mutation (enable,
// disable, server reload) to refresh the merged view.
func Build(registry *tools.Registry, manager *mcp.Manager) *Catalog {
	c := &Catalog{registry: registry, manager: manager, index: make(map[string]Descriptor)}

	for _, tool := range registry.GetEnabled() {
		spec := tool.Spec()
		d := Descriptor{Name: spec.Name, Description: spec.Description, Schema: spec.Schema, Origin: OriginLocal}
		c.entries = append(c.entries, d)
		c.index[d.Name] = d
	}

	if manager != nil {
		for _, rt := range manager.Tools() {
			if _, collidesWithLocal := c.index[rt.QualifiedName]; collidesWithLocal {
				c.warnings = append(c.warnings,
					fmt.Sprintf("remote tool %s from server %s shadowed by a local tool of the same name", rt.QualifiedName, rt.Server))
				continue
			}
			d := Descriptor{
				Name:        rt.QualifiedName,
				Description: rt.Description,
				Schema:      rt.Schema,
				Origin:      OriginRemote,
				Server:      rt.Server,
			}
			c.entries = append(c.entries, d)
			c.index[d.Name] = d
		}
	}

	return c
}

// List returns the catalog in build order: locals first, then remotes.
func (c *Catalog) List() []Descriptor { return c.entries }

// Warnings returns the name-collision warnings produced during Build, for
// the front-end to surface.
func (c *Catalog) Warnings() []string { return c.warnings }

// Lookup finds a descriptor by its (possibly server-qualified) name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	d, ok := c.index[name]
	return d, ok
}

// Specs returns the catalog as llm.ToolSpec values, for handing to a
// provider's Request.Tools.
func (c *Catalog) Specs() []llm.ToolSpec {
	out := make([]llm.ToolSpec, 0, len(c.entries))
	for _, d := range c.entries {
		out = append(out, llm.ToolSpec{Name: d.Name, Description: d.Description, Schema: d.Schema})
	}
	return out
}

// Invoke dispatches a tool call by name to its local or remote origin. An
// unknown name returns the exact "tool not found: <name>" error text the
// workflow engine surfaces back to the model as a tool result.
func (c *Catalog) Invoke(ctx context.Context, name string, args json.RawMessage) (string, error) {
	d, ok := c.index[name]
	if !ok {
		return "", fmt.Errorf("tool not found: %s", name)
	}

	switch d.Origin {
	case OriginLocal:
		tool, ok := c.registry.Get(name)
		if !ok {
			return "", fmt.Errorf("tool not found: %s", name)
		}
		return tool.Execute(ctx, args)
	case OriginRemote:
		return c.manager.Invoke(ctx, name, args)
	default:
		return "", fmt.Errorf("tool not found: %s", name)
	}
}
