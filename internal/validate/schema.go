// Package validate provides input sanitization and schema validation for
// entity mutations. Sanitization normalizes raw field values; validation
// checks them against a type's declarative schema. Both are pure functions
// of their inputs.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// Fields returns the failing field names, sorted.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Result is the outcome of schema validation.
// On success Data holds the validated, typed field values.
type Result struct {
	Success bool
	Data    map[string]any
	Errors  FieldErrors
}

// Schema validates a field map against an entity type's rules.
// Implementations must not mutate the input map.
type Schema interface {
	SafeValidate(data map[string]any) Result
}

// Kind identifies the expected value type for a field rule.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindDate   Kind = "date" // canonical "2006-01-02" string
	KindTags   Kind = "tags" // []string
)

// Rule declares the constraints for a single field.
type Rule struct {
	Required bool
	Kind     Kind
	Enum     []string // allowed values, string fields only
	MaxLen   int      // maximum length, string fields only (0 = unlimited)
	Min      *float64 // minimum, number fields only
	Max      *float64 // maximum, number fields only
}

// FieldSchema is a declarative Schema implementation: a set of per-field
// rules. Fields present in the data but absent from the schema pass through
// untouched; the record store is schemaless and types may carry extra fields.
type FieldSchema struct {
	rules map[string]Rule
}

// NewFieldSchema creates an empty field schema.
func NewFieldSchema() *FieldSchema {
	return &FieldSchema{rules: make(map[string]Rule)}
}

// Field adds a rule for a field and returns the schema for chaining.
func (s *FieldSchema) Field(name string, rule Rule) *FieldSchema {
	s.rules[name] = rule
	return s
}

// SafeValidate checks data against the schema's rules.
// The input map is never mutated; validated values are returned in a copy.
func (s *FieldSchema) SafeValidate(data map[string]any) Result {
	errs := make(FieldErrors)
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	for name, rule := range s.rules {
		value, present := data[name]
		if !present || value == nil || value == "" {
			if rule.Required {
				errs[name] = append(errs[name], "is required")
			}
			continue
		}

		typed, msgs := checkRule(rule, value)
		if len(msgs) > 0 {
			errs[name] = append(errs[name], msgs...)
			continue
		}
		out[name] = typed
	}

	if len(errs) > 0 {
		return Result{Success: false, Errors: errs}
	}
	return Result{Success: true, Data: out}
}

// SafeValidatePartial checks only the fields present in data, skipping
// Required rules. It is the validation mode for partial updates, where an
// absent required field means "unchanged", not "missing".
func (s *FieldSchema) SafeValidatePartial(data map[string]any) Result {
	errs := make(FieldErrors)
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	for name, rule := range s.rules {
		value, present := data[name]
		if !present || value == nil || value == "" {
			continue
		}
		typed, msgs := checkRule(rule, value)
		if len(msgs) > 0 {
			errs[name] = append(errs[name], msgs...)
			continue
		}
		out[name] = typed
	}

	if len(errs) > 0 {
		return Result{Success: false, Errors: errs}
	}
	return Result{Success: true, Data: out}
}

// checkRule validates a single present value and returns the typed value.
func checkRule(rule Rule, value any) (any, []string) {
	switch rule.Kind {
	case KindString, "":
		str, ok := value.(string)
		if !ok {
			return nil, []string{fmt.Sprintf("must be a string, got %T", value)}
		}
		var msgs []string
		if rule.MaxLen > 0 && len(str) > rule.MaxLen {
			msgs = append(msgs, fmt.Sprintf("must be at most %d characters", rule.MaxLen))
		}
		if len(rule.Enum) > 0 && !contains(rule.Enum, str) {
			msgs = append(msgs, fmt.Sprintf("must be one of %v", rule.Enum))
		}
		return str, msgs

	case KindNumber:
		num, ok := toFloat(value)
		if !ok {
			return nil, []string{fmt.Sprintf("must be a number, got %T", value)}
		}
		var msgs []string
		if rule.Min != nil && num < *rule.Min {
			msgs = append(msgs, fmt.Sprintf("must be at least %v", *rule.Min))
		}
		if rule.Max != nil && num > *rule.Max {
			msgs = append(msgs, fmt.Sprintf("must be at most %v", *rule.Max))
		}
		return num, msgs

	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, []string{fmt.Sprintf("must be a boolean, got %T", value)}
		}
		return b, nil

	case KindDate:
		str, ok := value.(string)
		if !ok {
			return nil, []string{fmt.Sprintf("must be a date string, got %T", value)}
		}
		if _, err := time.Parse(DateLayout, str); err != nil {
			return nil, []string{fmt.Sprintf("must be a %s date", DateLayout)}
		}
		return str, nil

	case KindTags:
		tags, ok := value.([]string)
		if !ok {
			return nil, []string{fmt.Sprintf("must be a list of strings, got %T", value)}
		}
		return tags, nil

	default:
		return nil, []string{fmt.Sprintf("unknown field kind %q", rule.Kind)}
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Num returns a pointer suitable for Rule.Min and Rule.Max.
func Num(v float64) *float64 { return &v }
