package entity

import (
	"fmt"
	"sort"
)

// Fallback display values returned for unknown types.
const (
	FallbackIcon  = "📄"
	FallbackColor = "#6B7280"
)

// Registry holds the entity type definitions. It is built once at startup,
// read-only thereafter, and injected into the command layer and adapter;
// there is no mutation API.
type Registry struct {
	defs  map[string]Definition
	names []string
}

// NewRegistry validates the definitions and builds the registry.
// Duplicate type names and shared storage tables are configuration bugs and
// fail construction.
func NewRegistry(defs ...Definition) (*Registry, error) {
	byName := make(map[string]Definition, len(defs))
	tables := make(map[string]string, len(defs))

	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byName[def.Name]; dup {
			return nil, fmt.Errorf("duplicate entity type %q", def.Name)
		}
		if owner, taken := tables[def.Table]; taken {
			return nil, fmt.Errorf("entity type %q: table %q already used by %q",
				def.Name, def.Table, owner)
		}
		byName[def.Name] = def
		tables[def.Table] = def.Name
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{defs: byName, names: names}, nil
}

// Definition returns the definition for a type name.
// The second return is false for unregistered types.
func (r *Registry) Definition(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Icon returns the registered icon for a type, or FallbackIcon when the type
// is unknown or has no icon configured.
func (r *Registry) Icon(name string) string {
	if def, ok := r.defs[name]; ok && def.Icon != "" {
		return def.Icon
	}
	return FallbackIcon
}

// Color returns the registered color for a type, or FallbackColor when the
// type is unknown or has no color configured.
func (r *Registry) Color(name string) string {
	if def, ok := r.defs[name]; ok && def.Color != "" {
		return def.Color
	}
	return FallbackColor
}
