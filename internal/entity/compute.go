package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/trovehq/trove/internal/validate"
)

// Computed field ids referenced by type definitions.
const (
	ComputeProgress      = "progress"
	ComputeTaskCount     = "task_count"
	ComputeOpenTaskCount = "open_task_count"
	ComputeStockValue    = "stock_value"
	ComputeDaysUntilDue  = "days_until_due"
)

// computeNow is the clock for date-relative computed fields; tests pin it.
var computeNow = time.Now

// Related bundles the child collections a computed field may derive from,
// keyed by collection name (e.g. "tasks" -> child task records).
type Related map[string][]map[string]any

// ComputeFunc derives a value from an entity and its related collections.
// Implementations must be pure: no I/O, no mutation of the entity or the
// related records.
type ComputeFunc func(e UniversalEntity, related Related) (any, error)

// computeFuncs is the static computed-field table. Values are never
// persisted; callers recompute from current related data at read time.
var computeFuncs = map[string]ComputeFunc{
	ComputeProgress:      computeProgress,
	ComputeTaskCount:     computeTaskCount,
	ComputeOpenTaskCount: computeOpenTaskCount,
	ComputeStockValue:    computeStockValue,
	ComputeDaysUntilDue:  computeDaysUntilDue,
}

// Compute evaluates the computed field with the given id.
// Unknown ids indicate a definition referencing a field that was never
// implemented, which is a configuration bug.
func Compute(fieldID string, e UniversalEntity, related Related) (any, error) {
	fn, ok := computeFuncs[fieldID]
	if !ok {
		return nil, fmt.Errorf("unknown computed field %q", fieldID)
	}
	return fn(e, related)
}

// ComputeAll evaluates every computed field the definition declares,
// returning id -> value.
func ComputeAll(def Definition, e UniversalEntity, related Related) (map[string]any, error) {
	out := make(map[string]any, len(def.ComputedFields))
	for _, id := range def.ComputedFields {
		value, err := Compute(id, e, related)
		if err != nil {
			return nil, err
		}
		out[id] = value
	}
	return out, nil
}

// computeProgress returns the completion percentage over the "tasks"
// collection: round(done/total*100), and 0 when there are no children.
func computeProgress(_ UniversalEntity, related Related) (any, error) {
	tasks := related["tasks"]
	if len(tasks) == 0 {
		return 0, nil
	}
	done := 0
	for _, task := range tasks {
		if status, _ := task["status"].(string); status == "done" {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(tasks)) * 100)), nil
}

func computeTaskCount(_ UniversalEntity, related Related) (any, error) {
	return len(related["tasks"]), nil
}

func computeOpenTaskCount(_ UniversalEntity, related Related) (any, error) {
	open := 0
	for _, task := range related["tasks"] {
		if status, _ := task["status"].(string); status != "done" {
			open++
		}
	}
	return open, nil
}

// computeStockValue multiplies an inventory item's quantity by its unit
// price. Missing or non-numeric fields count as zero.
func computeStockValue(e UniversalEntity, _ Related) (any, error) {
	return numberField(e.Raw, "quantity") * numberField(e.Raw, "unit_price"), nil
}

// computeDaysUntilDue returns whole days from today to the due_date field,
// negative when overdue. Entities without a parseable due_date yield nil.
func computeDaysUntilDue(e UniversalEntity, _ Related) (any, error) {
	str, _ := e.Raw["due_date"].(string)
	if str == "" {
		return nil, nil
	}
	due, err := time.Parse(validate.DateLayout, str)
	if err != nil {
		return nil, nil
	}
	today := computeNow().UTC().Truncate(24 * time.Hour)
	return int(due.Sub(today).Hours() / 24), nil
}

func numberField(raw map[string]any, field string) float64 {
	switch v := raw[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
