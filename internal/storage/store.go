// Package storage defines the keyed table store the entity framework
// persists through, plus the in-memory and SQLite implementations. The
// command layer is the only writer; everything else reads.
package storage

import (
	"context"
	"fmt"
)

// Record is one stored row: a schemaless field map. Every persisted record
// carries a string "id" field.
type Record = map[string]any

// NotFoundError reports a lookup or update against a missing id.
type NotFoundError struct {
	Table string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no record %q in table %q", e.ID, e.Table)
}

// Store is the minimal keyed table contract. No SQL or transaction API is
// assumed beyond the optional TxStore capability.
type Store interface {
	// Get returns the record with the given id, or NotFoundError.
	Get(ctx context.Context, table, id string) (Record, error)

	// Put inserts or replaces a record whole. The record must carry a
	// non-empty "id" field.
	Put(ctx context.Context, table string, rec Record) error

	// Update merges fields into the existing record with the given id and
	// returns the merged record. Returns NotFoundError if no record exists
	// at that id.
	Update(ctx context.Context, table, id string, fields Record) (Record, error)

	// Delete removes the record with the given id, or NotFoundError.
	Delete(ctx context.Context, table, id string) error

	// QueryByIndex returns all records whose field equals value.
	QueryByIndex(ctx context.Context, table, field string, value any) ([]Record, error)

	// List returns all records in a table.
	List(ctx context.Context, table string) ([]Record, error)
}

// TxStore is the optional atomic multi-write capability. Stores that
// implement it let the command layer wrap persistence and activity logging
// in one transaction; both in-scope stores do.
type TxStore interface {
	Store

	// InTx runs fn against a transactional view of the store. If fn returns
	// an error every write made through tx is rolled back.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

// RecordID extracts the required string id from a record.
func RecordID(rec Record) (string, error) {
	id, _ := rec["id"].(string)
	if id == "" {
		return "", fmt.Errorf("record has no id field")
	}
	return id, nil
}
