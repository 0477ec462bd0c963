package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func taskSchema() *FieldSchema {
	return NewFieldSchema().
		Field("title", Rule{Required: true, Kind: KindString, MaxLen: 120}).
		Field("status", Rule{Kind: KindString, Enum: []string{"todo", "in_progress", "done"}}).
		Field("priority", Rule{Kind: KindNumber, Min: Num(0), Max: Num(3)}).
		Field("due_date", Rule{Kind: KindDate}).
		Field("tags", Rule{Kind: KindTags}).
		Field("pinned", Rule{Kind: KindBool})
}

func TestFieldSchema_ValidData(t *testing.T) {
	result := taskSchema().SafeValidate(map[string]any{
		"title":    "Fix the gate latch",
		"status":   "todo",
		"priority": 2,
		"due_date": "2026-04-01",
		"tags":     []string{"garden"},
		"pinned":   true,
	})

	require.True(t, result.Success)
	require.Empty(t, result.Errors)
	require.Equal(t, "Fix the gate latch", result.Data["title"])
	// Numbers are normalized to float64.
	require.Equal(t, float64(2), result.Data["priority"])
}

func TestFieldSchema_MissingRequiredField(t *testing.T) {
	result := taskSchema().SafeValidate(map[string]any{"status": "todo"})

	require.False(t, result.Success)
	require.Contains(t, result.Errors, "title")
	require.Contains(t, result.Errors["title"][0], "required")
}

func TestFieldSchema_EnumViolation(t *testing.T) {
	result := taskSchema().SafeValidate(map[string]any{
		"title":  "x",
		"status": "someday",
	})

	require.False(t, result.Success)
	require.Equal(t, []string{"status"}, result.Errors.Fields())
}

func TestFieldSchema_NumberOutOfRange(t *testing.T) {
	result := taskSchema().SafeValidate(map[string]any{
		"title":    "x",
		"priority": 7,
	})

	require.False(t, result.Success)
	require.Contains(t, result.Errors["priority"][0], "at most")
}

func TestFieldSchema_WrongTypes(t *testing.T) {
	result := taskSchema().SafeValidate(map[string]any{
		"title":  42,
		"pinned": "yes",
		"tags":   "not-a-list",
	})

	require.False(t, result.Success)
	require.ElementsMatch(t, []string{"title", "pinned", "tags"}, result.Errors.Fields())
}

func TestFieldSchema_BadDate(t *testing.T) {
	result := taskSchema().SafeValidate(map[string]any{
		"title":    "x",
		"due_date": "April 1st",
	})

	require.False(t, result.Success)
	require.Contains(t, result.Errors, "due_date")
}

func TestFieldSchema_CollectsAllFieldErrors(t *testing.T) {
	result := taskSchema().SafeValidate(map[string]any{
		"status":   "nope",
		"priority": -1,
	})

	require.False(t, result.Success)
	require.ElementsMatch(t, []string{"title", "status", "priority"}, result.Errors.Fields())
}

func TestFieldSchema_ExtraFieldsPassThrough(t *testing.T) {
	result := taskSchema().SafeValidate(map[string]any{
		"title":     "x",
		"somewhere": "else",
	})

	require.True(t, result.Success)
	require.Equal(t, "else", result.Data["somewhere"])
}

func TestFieldSchema_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"title": "x", "priority": 2}
	_ = taskSchema().SafeValidate(in)
	require.Equal(t, 2, in["priority"], "input map must stay untouched")
}
