// Package testutil provides fixture helpers for tests that need a
// populated record store.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trovehq/trove/internal/storage"
)

// recordData pairs a table with a record to insert.
type recordData struct {
	table string
	rec   storage.Record
}

// Builder accumulates test records and inserts them in order.
type Builder struct {
	t       *testing.T
	store   storage.Store
	records []recordData
}

// NewBuilder creates a builder over the given store.
func NewBuilder(t *testing.T, store storage.Store) *Builder {
	t.Helper()
	return &Builder{t: t, store: store}
}

// WithRecord adds a raw record to the given table.
func (b *Builder) WithRecord(table, id string, opts ...RecordOption) *Builder {
	rec := storage.Record{"id": id}
	for _, opt := range opts {
		opt(rec)
	}
	b.records = append(b.records, recordData{table: table, rec: rec})
	return b
}

// WithTask adds a task record with sensible defaults.
func (b *Builder) WithTask(id string, opts ...RecordOption) *Builder {
	base := []RecordOption{Field("title", "task "+id), Field("status", "todo")}
	return b.WithRecord("tasks", id, append(base, opts...)...)
}

// WithProject adds a project record with sensible defaults.
func (b *Builder) WithProject(id string, opts ...RecordOption) *Builder {
	base := []RecordOption{Field("name", "project "+id), Field("status", "planning")}
	return b.WithRecord("projects", id, append(base, opts...)...)
}

// Build inserts all accumulated records.
func (b *Builder) Build() {
	b.t.Helper()
	ctx := context.Background()
	for _, rd := range b.records {
		require.NoError(b.t, b.store.Put(ctx, rd.table, rd.rec))
	}
}
