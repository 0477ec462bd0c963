package storage

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// ActivityTable is the table activity entries are appended to. Entries are
// plain records so they share the store's transaction capability with the
// entity writes they describe.
const ActivityTable = "activity_log"

// ActivityEntry is one append-only audit record: who did what to which
// entity, when. Exactly one entry exists per successful command.
type ActivityEntry struct {
	ID          string
	EntityID    string
	EntityType  string
	Action      string
	Actor       string
	At          time.Time
	Description string
}

// ActivityRepository reads and writes activity entries through a Store.
type ActivityRepository struct {
	store Store
}

// NewActivityRepository creates a repository over the given store.
func NewActivityRepository(store Store) *ActivityRepository {
	return &ActivityRepository{store: store}
}

// Append persists an entry. The caller supplies the id (a uuid).
func (r *ActivityRepository) Append(ctx context.Context, entry ActivityEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("activity entry has no id")
	}
	if err := r.store.Put(ctx, ActivityTable, entryToRecord(entry)); err != nil {
		return fmt.Errorf("append activity entry: %w", err)
	}
	return nil
}

// ListForEntity returns the entries referencing an entity id, newest first.
func (r *ActivityRepository) ListForEntity(ctx context.Context, entityID string) ([]ActivityEntry, error) {
	recs, err := r.store.QueryByIndex(ctx, ActivityTable, "entity_id", entityID)
	if err != nil {
		return nil, fmt.Errorf("list activity for %s: %w", entityID, err)
	}
	entries := make([]ActivityEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, entryFromRecord(rec))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].At.After(entries[j].At)
	})
	return entries, nil
}

func entryToRecord(e ActivityEntry) Record {
	return Record{
		"id":          e.ID,
		"entity_id":   e.EntityID,
		"entity_type": e.EntityType,
		"action":      e.Action,
		"actor":       e.Actor,
		"at":          e.At.UTC().Format(time.RFC3339Nano),
		"description": e.Description,
	}
}

func entryFromRecord(rec Record) ActivityEntry {
	e := ActivityEntry{
		ID:          str(rec, "id"),
		EntityID:    str(rec, "entity_id"),
		EntityType:  str(rec, "entity_type"),
		Action:      str(rec, "action"),
		Actor:       str(rec, "actor"),
		Description: str(rec, "description"),
	}
	if t, err := time.Parse(time.RFC3339Nano, str(rec, "at")); err == nil {
		e.At = t
	}
	return e
}

func str(rec Record, field string) string {
	s, _ := rec[field].(string)
	return s
}
