package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSanitize_TrimsStrings(t *testing.T) {
	out := Sanitize(Profile{}, map[string]any{
		"title": "  hello  ",
		"count": 3,
	})

	require.Equal(t, "hello", out["title"])
	require.Equal(t, 3, out["count"])
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"title": "  x  "}
	_ = Sanitize(Profile{}, in)
	require.Equal(t, "  x  ", in["title"])
}

func TestSanitize_NormalizesDates(t *testing.T) {
	profile := Profile{DateFields: []string{"due_date"}}

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"canonical", "2026-03-15", "2026-03-15"},
		{"rfc3339", "2026-03-15T10:30:00Z", "2026-03-15"},
		{"slash form", "03/15/2026", "2026-03-15"},
		{"time value", time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), "2026-03-15"},
		{"garbage passes through", "not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize(profile, map[string]any{"due_date": tt.in})
			require.Equal(t, tt.want, out["due_date"])
		})
	}
}

func TestSanitize_CoercesTags(t *testing.T) {
	profile := Profile{TagFields: []string{"tags"}}

	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"comma string", "urgent, home", []string{"urgent", "home"}},
		{"single string", "urgent", []string{"urgent"}},
		{"empty string", "", []string{}},
		{"already list", []string{"a", "b"}, []string{"a", "b"}},
		{"any list", []any{"a", 1}, []string{"a", "1"}},
		{"duplicates kept", "a,a", []string{"a", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize(profile, map[string]any{"tags": tt.in})
			require.Equal(t, tt.want, out["tags"])
		})
	}
}

// Sanitize must be idempotent: sanitizing already-sanitized data is a no-op.
func TestSanitize_Idempotent(t *testing.T) {
	profile := Profile{
		DateFields: []string{"due_date", "start_date"},
		TagFields:  []string{"tags"},
	}

	rapid.Check(t, func(r *rapid.T) {
		data := map[string]any{
			"title":    rapid.StringMatching(`\s*[a-z A-Z0-9]{0,20}\s*`).Draw(r, "title"),
			"due_date": rapid.SampledFrom([]string{"2026-01-02", "2026-01-02T15:04:05Z", "01/02/2026", "soon", ""}).Draw(r, "due"),
			"tags":     rapid.StringMatching(`[a-z, ]{0,15}`).Draw(r, "tags"),
			"count":    rapid.IntRange(-5, 100).Draw(r, "count"),
		}

		once := Sanitize(profile, data)
		twice := Sanitize(profile, once)
		require.Equal(t, once, twice)
	})
}

func TestValidateAndSanitize_NilSchemaIsPermissive(t *testing.T) {
	result := ValidateAndSanitize(nil, Profile{}, map[string]any{"anything": "  goes  "})

	require.True(t, result.Success)
	require.Equal(t, "goes", result.Data["anything"])
}

func TestValidateAndSanitize_SanitizesBeforeValidating(t *testing.T) {
	schema := NewFieldSchema().
		Field("status", Rule{Kind: KindString, Enum: []string{"todo", "done"}})

	// The raw value only matches the enum after trimming.
	result := ValidateAndSanitize(schema, Profile{}, map[string]any{"status": " todo "})

	require.True(t, result.Success)
	require.Equal(t, "todo", result.Data["status"])
}
