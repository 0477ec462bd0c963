package storage

import (
	"context"
	"reflect"
	"sort"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory Store used by tests and by the
// ephemeral (no database file) mode. It implements TxStore by snapshotting
// its tables and restoring them when a transaction function fails.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]Record
}

var _ TxStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[string]Record)}
}

func (s *MemoryStore) Get(_ context.Context, table, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tables[table][id]
	if !ok {
		return nil, &NotFoundError{Table: table, ID: id}
	}
	return copyRecord(rec), nil
}

func (s *MemoryStore) Put(_ context.Context, table string, rec Record) error {
	id, err := RecordID(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables[table] == nil {
		s.tables[table] = make(map[string]Record)
	}
	s.tables[table][id] = copyRecord(rec)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, table, id string, fields Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tables[table][id]
	if !ok {
		return nil, &NotFoundError{Table: table, ID: id}
	}
	for k, v := range fields {
		rec[k] = copyValue(v)
	}
	return copyRecord(rec), nil
}

func (s *MemoryStore) Delete(_ context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table][id]; !ok {
		return &NotFoundError{Table: table, ID: id}
	}
	delete(s.tables[table], id)
	return nil
}

func (s *MemoryStore) QueryByIndex(_ context.Context, table, field string, value any) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.tables[table] {
		if valuesEqual(rec[field], value) {
			out = append(out, copyRecord(rec))
		}
	}
	sortByID(out)
	return out, nil
}

func (s *MemoryStore) List(_ context.Context, table string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.tables[table]))
	for _, rec := range s.tables[table] {
		out = append(out, copyRecord(rec))
	}
	sortByID(out)
	return out, nil
}

// InTx runs fn against the store itself, guarded by a snapshot: if fn
// returns an error, every table is restored to its pre-transaction state.
// Concurrent writers are excluded for the duration via the write lock the
// individual operations take; the snapshot covers atomicity, not isolation.
func (s *MemoryStore) InTx(_ context.Context, fn func(tx Store) error) error {
	snapshot := s.snapshot()
	if err := fn(txMemory{s}); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

// txMemory adapts the store for use inside InTx; the context variants are
// identical because MemoryStore operations never block.
type txMemory struct{ *MemoryStore }

func (s *MemoryStore) snapshot() map[string]map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]map[string]Record, len(s.tables))
	for table, recs := range s.tables {
		snap[table] = make(map[string]Record, len(recs))
		for id, rec := range recs {
			snap[table][id] = copyRecord(rec)
		}
	}
	return snap
}

func (s *MemoryStore) restore(snap map[string]map[string]Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = snap
}

// valuesEqual compares index values without panicking on uncomparable
// types, and treats numerically equal values of different Go number types
// as equal (validation normalizes numbers to float64; callers may query
// with int).
func valuesEqual(a, b any) bool {
	if af, aok := toNumber(a); aok {
		if bf, bok := toNumber(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// copyRecord deep-copies a record so stored state never aliases records
// handed to or returned from callers. Slices and maps cover both the Go
// literal shapes tests build and the []any / map[string]any shapes JSON
// decoding produces.
func copyRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

func sortByID(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, _ := recs[i]["id"].(string)
		b, _ := recs[j]["id"].(string)
		return a < b
	})
}
