package validate

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical form for date-valued fields.
const DateLayout = "2006-01-02"

// dateLayouts are the accepted input forms, tried in order.
// The canonical layout comes first so sanitized data re-parses cleanly.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// Profile tells Sanitize which fields need special handling for a type.
// It is derived from the entity type definition.
type Profile struct {
	DateFields []string // normalized to DateLayout strings
	TagFields  []string // coerced to []string
}

// Sanitize returns a normalized copy of data: string fields trimmed, date
// fields reduced to canonical DateLayout values, tag fields coerced to
// []string. The input map is not mutated. Sanitize is idempotent: applying
// it to its own output yields an equal map.
func Sanitize(profile Profile, data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		if str, ok := value.(string); ok {
			value = strings.TrimSpace(str)
		}
		out[key] = value
	}

	for _, field := range profile.DateFields {
		if value, ok := out[field]; ok {
			out[field] = normalizeDate(value)
		}
	}
	for _, field := range profile.TagFields {
		if value, ok := out[field]; ok {
			out[field] = coerceTags(value)
		}
	}
	return out
}

// ValidateAndSanitize sanitizes first, then validates against schema.
// A nil schema skips validation and returns the sanitized data unchanged
// (permissive mode for types registered without a schema).
func ValidateAndSanitize(schema Schema, profile Profile, data map[string]any) Result {
	clean := Sanitize(profile, data)
	if schema == nil {
		return Result{Success: true, Data: clean}
	}
	return schema.SafeValidate(clean)
}

// PartialValidator is implemented by schemas that support partial-update
// validation, where absent fields are left alone instead of failing Required.
type PartialValidator interface {
	SafeValidatePartial(data map[string]any) Result
}

// ValidatePartial sanitizes and validates a partial field set. Schemas
// without partial support fall back to full validation.
func ValidatePartial(schema Schema, profile Profile, data map[string]any) Result {
	clean := Sanitize(profile, data)
	if schema == nil {
		return Result{Success: true, Data: clean}
	}
	if p, ok := schema.(PartialValidator); ok {
		return p.SafeValidatePartial(clean)
	}
	return schema.SafeValidate(clean)
}

// normalizeDate reduces a date-like value to a canonical DateLayout string.
// Values that cannot be interpreted as dates are returned unchanged; the
// schema reports them as validation errors with field context.
func normalizeDate(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format(DateLayout)
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.Format(DateLayout)
			}
		}
		return v
	default:
		return value
	}
}

// coerceTags turns a tag-like value into []string. Strings are split on
// commas; list values are stringified element-wise. Order is preserved and
// duplicates are kept (tags are ordered, not required unique).
func coerceTags(value any) any {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		for i, tag := range v {
			out[i] = strings.TrimSpace(tag)
		}
		return out
	case string:
		if v == "" {
			return []string{}
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, strings.TrimSpace(fmt.Sprintf("%v", item)))
		}
		return out
	default:
		return value
	}
}
