// Package entity provides the generic entity framework at the heart of
// trove: declarative type definitions, the immutable registry that holds
// them, the adapter producing uniform in-memory projections of stored
// records, and the computed-field evaluator.
package entity

import (
	"fmt"

	"github.com/trovehq/trove/internal/validate"
)

// Definition is the static, author-time metadata describing one record type.
// Adding a record type to trove means adding one Definition to the registry.
type Definition struct {
	// Name is the entity type name, e.g. "task". Unique within the registry.
	Name string

	// Table is the storage table the type persists to. Exactly one per type.
	Table string

	// PrimaryField names the field used as the entity title.
	PrimaryField string

	// SubtitleField optionally names the field shown under the title.
	SubtitleField string

	// Schema validates sanitized input before persistence. A nil schema puts
	// the type in permissive mode: mutations bypass validation entirely.
	Schema validate.Schema

	// MachineID names the state machine governing the status field, if any.
	MachineID string

	// StatusField names the status field. Defaults to "status".
	StatusField string

	// ComputedFields lists the computed-field ids evaluated for this type.
	ComputedFields []string

	// Actions lists the action ids the presentation layer may offer.
	Actions []string

	// SearchFields lists the fields indexed for search.
	SearchFields []string

	// TagsField optionally names the field sanitization coerces to []string.
	TagsField string

	// DateFields lists fields sanitization normalizes to canonical dates.
	DateFields []string

	// ThumbnailField optionally names a field holding an image reference.
	ThumbnailField string

	Icon        string
	Color       string
	Collapsible bool
}

// Validate checks the completeness invariants for a definition.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("definition has no name")
	}
	if d.Table == "" {
		return fmt.Errorf("definition %q: table is required", d.Name)
	}
	if d.PrimaryField == "" {
		return fmt.Errorf("definition %q: primary field is required", d.Name)
	}
	if len(d.SearchFields) == 0 {
		return fmt.Errorf("definition %q: at least one search field is required", d.Name)
	}
	return nil
}

// Status returns the configured status field name.
func (d Definition) Status() string {
	if d.StatusField == "" {
		return "status"
	}
	return d.StatusField
}

// SanitizeProfile derives the sanitization profile from the definition.
func (d Definition) SanitizeProfile() validate.Profile {
	profile := validate.Profile{DateFields: d.DateFields}
	if d.TagsField != "" {
		profile.TagFields = []string{d.TagsField}
	}
	return profile
}

// HasAction reports whether the definition allows the given action id.
func (d Definition) HasAction(action string) bool {
	for _, a := range d.Actions {
		if a == action {
			return true
		}
	}
	return false
}
