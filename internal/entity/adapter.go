package entity

import (
	"fmt"

	"github.com/trovehq/trove/internal/fsm"
)

// URN is a globally unique entity reference formed from type and id.
type URN string

// NewURN builds the canonical "type:id" reference.
func NewURN(typeName, id string) URN {
	return URN(typeName + ":" + id)
}

// StatusUnknown is the status assigned when a record carries none, or when
// the type is unregistered.
const StatusUnknown = "unknown"

// DisplayConfig bundles the presentation hints derived from the type
// definition and the machine's state metadata.
type DisplayConfig struct {
	Accent      string // status accent color
	StatusLabel string
	StatusIcon  string
	Icon        string // type icon
	Collapsible bool
}

// UniversalEntity is the normalized, read-only projection of one stored
// record. It is rebuilt from the raw record on every read and never mutated
// in place; any write supersedes it with a fresh projection.
type UniversalEntity struct {
	URN       URN
	ID        string
	Type      string
	Title     string
	Subtitle  string
	Status    string
	Tags      []string
	Thumbnail string
	Raw       map[string]any
	Display   DisplayConfig
}

// Adapter builds universal entities from raw records plus registry metadata.
// It is a pure transformation: no I/O, and computed fields are the caller's
// responsibility (the adapter has no access to related collections).
type Adapter struct {
	reg      *Registry
	machines *fsm.Set
}

// NewAdapter creates an adapter over the given registry and machine set.
func NewAdapter(reg *Registry, machines *fsm.Set) *Adapter {
	return &Adapter{reg: reg, machines: machines}
}

// titleGuesses are the common field names tried, in order, when adapting a
// record of an unregistered type.
var titleGuesses = []string{"title", "name", "label", "id"}

// Universal builds the universal projection of raw for the given type.
// Unregistered types degrade to a minimal shape rather than failing: title
// guessed from common field names, status "unknown", fallback display.
func (a *Adapter) Universal(typeName string, raw map[string]any) UniversalEntity {
	id := stringField(raw, "id")

	def, ok := a.reg.Definition(typeName)
	if !ok {
		return UniversalEntity{
			URN:    NewURN(typeName, id),
			ID:     id,
			Type:   typeName,
			Title:  guessTitle(raw),
			Status: StatusUnknown,
			Raw:    raw,
			Display: DisplayConfig{
				Accent: FallbackColor,
				Icon:   FallbackIcon,
			},
		}
	}

	status := stringField(raw, def.Status())
	if status == "" {
		status = StatusUnknown
	}

	e := UniversalEntity{
		URN:      NewURN(typeName, id),
		ID:       id,
		Type:     typeName,
		Title:    stringField(raw, def.PrimaryField),
		Subtitle: stringField(raw, def.SubtitleField),
		Status:   status,
		Raw:      raw,
		Display: DisplayConfig{
			Accent:      a.reg.Color(typeName),
			Icon:        a.reg.Icon(typeName),
			Collapsible: def.Collapsible,
		},
	}

	if def.TagsField != "" {
		e.Tags = stringsField(raw, def.TagsField)
	}
	if def.ThumbnailField != "" {
		e.Thumbnail = stringField(raw, def.ThumbnailField)
	}

	// Status accent from the machine's state metadata when available.
	if def.MachineID != "" {
		if meta, ok := a.machines.StateMeta(def.MachineID, status); ok {
			e.Display.Accent = meta.Color
			e.Display.StatusLabel = meta.Label
			e.Display.StatusIcon = meta.Icon
		}
	}

	return e
}

func guessTitle(raw map[string]any) string {
	for _, field := range titleGuesses {
		if v := stringField(raw, field); v != "" {
			return v
		}
	}
	return ""
}

// stringsField reads a tag list, accepting both []string and the []any
// shape JSON decoding produces.
func stringsField(raw map[string]any, field string) []string {
	switch v := raw[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringField(raw map[string]any, field string) string {
	if field == "" {
		return ""
	}
	switch v := raw[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
