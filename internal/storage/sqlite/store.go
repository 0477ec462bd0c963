package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/trovehq/trove/internal/storage"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists records as JSON rows in the shared records table.
type Store struct {
	db *sql.DB
}

var _ storage.TxStore = (*Store)(nil)

func (s *Store) Get(ctx context.Context, table, id string) (storage.Record, error) {
	return getRecord(ctx, s.db, table, id)
}

func (s *Store) Put(ctx context.Context, table string, rec storage.Record) error {
	return putRecord(ctx, s.db, table, rec)
}

func (s *Store) Update(ctx context.Context, table, id string, fields map[string]any) (storage.Record, error) {
	return updateRecord(ctx, s.db, table, id, fields)
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	return deleteRecord(ctx, s.db, table, id)
}

func (s *Store) QueryByIndex(ctx context.Context, table, field string, value any) ([]storage.Record, error) {
	return queryByIndex(ctx, s.db, table, field, value)
}

func (s *Store) List(ctx context.Context, table string) ([]storage.Record, error) {
	return listRecords(ctx, s.db, table)
}

// InTx runs fn against a transactional view of the store. The transaction
// commits only if fn returns nil, otherwise every write is rolled back.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&txStore{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore exposes the same operations inside an open transaction.
type txStore struct {
	q *sql.Tx
}

var _ storage.Store = (*txStore)(nil)

func (t *txStore) Get(ctx context.Context, table, id string) (storage.Record, error) {
	return getRecord(ctx, t.q, table, id)
}

func (t *txStore) Put(ctx context.Context, table string, rec storage.Record) error {
	return putRecord(ctx, t.q, table, rec)
}

func (t *txStore) Update(ctx context.Context, table, id string, fields map[string]any) (storage.Record, error) {
	return updateRecord(ctx, t.q, table, id, fields)
}

func (t *txStore) Delete(ctx context.Context, table, id string) error {
	return deleteRecord(ctx, t.q, table, id)
}

func (t *txStore) QueryByIndex(ctx context.Context, table, field string, value any) ([]storage.Record, error) {
	return queryByIndex(ctx, t.q, table, field, value)
}

func (t *txStore) List(ctx context.Context, table string) ([]storage.Record, error) {
	return listRecords(ctx, t.q, table)
}

func getRecord(ctx context.Context, q querier, table, id string) (storage.Record, error) {
	var data []byte
	row := q.QueryRowContext(ctx,
		`SELECT data FROM records WHERE table_name = ? AND id = ?`, table, id)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{Table: table, ID: id}
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return decodeRecord(data, id)
}

func putRecord(ctx context.Context, q querier, table string, rec storage.Record) error {
	id, err := storage.RecordID(rec)
	if err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = q.ExecContext(ctx, `
		INSERT INTO records (table_name, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (table_name, id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		table, id, string(data), now, now)
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

func updateRecord(ctx context.Context, q querier, table, id string, fields map[string]any) (storage.Record, error) {
	rec, err := getRecord(ctx, q, table, id)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		rec[k] = v
	}
	rec["id"] = id
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = q.ExecContext(ctx,
		`UPDATE records SET data = ?, updated_at = ? WHERE table_name = ? AND id = ?`,
		string(data), now, table, id)
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return rec, nil
}

func deleteRecord(ctx context.Context, q querier, table, id string) error {
	res, err := q.ExecContext(ctx,
		`DELETE FROM records WHERE table_name = ? AND id = ?`, table, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return &storage.NotFoundError{Table: table, ID: id}
	}
	return nil
}

func queryByIndex(ctx context.Context, q querier, table, field string, value any) ([]storage.Record, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, data FROM records
		WHERE table_name = ? AND json_extract(data, ?) = ?
		ORDER BY id`,
		table, "$."+field, indexValue(value))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return scanRecords(rows)
}

func listRecords(ctx context.Context, q querier, table string) ([]storage.Record, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, data FROM records WHERE table_name = ? ORDER BY id`, table)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]storage.Record, error) {
	defer func() { _ = rows.Close() }()

	var out []storage.Record
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decodeRecord(data, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func decodeRecord(data []byte, id string) (storage.Record, error) {
	var rec storage.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	rec["id"] = id
	return rec, nil
}

// indexValue maps Go values to their json_extract representation.
// JSON booleans surface as SQLite integers 0 and 1.
func indexValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}
