package command

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trovehq/trove/internal/entity"
	"github.com/trovehq/trove/internal/fsm"
	"github.com/trovehq/trove/internal/pubsub"
	"github.com/trovehq/trove/internal/storage"
)

func newTestCommander(t *testing.T, opts ...Option) (*Commander, *storage.MemoryStore, *pubsub.Bus) {
	t.Helper()
	reg, err := entity.DefaultRegistry()
	require.NoError(t, err)
	machines, err := fsm.Default()
	require.NoError(t, err)
	store := storage.NewMemoryStore()
	bus := pubsub.NewBus()
	return NewCommander(reg, machines, store, bus, opts...), store, bus
}

func activityFor(t *testing.T, store storage.Store, id string) []storage.ActivityEntry {
	t.Helper()
	entries, err := storage.NewActivityRepository(store).ListForEntity(context.Background(), id)
	require.NoError(t, err)
	return entries
}

func TestCreate_Success(t *testing.T) {
	c, store, bus := newTestCommander(t)
	ctx := context.Background()

	var events []pubsub.EntityEvent
	bus.On(pubsub.EntityCreated, func(_ pubsub.EventName, payload any) {
		events = append(events, payload.(pubsub.EntityEvent))
	})

	res := c.Create(ctx, "task", map[string]any{
		"title": "  write release notes  ",
		"tags":  "docs, urgent",
	}, Provenance{Actor: "mika"})

	require.True(t, res.Success)
	require.NoError(t, res.Err)
	require.NotEmpty(t, res.ID)
	require.Equal(t, entity.NewURN("task", res.ID), res.URN)

	rec, err := store.Get(ctx, "tasks", res.ID)
	require.NoError(t, err)
	require.Equal(t, "write release notes", rec["title"])
	require.Equal(t, []string{"docs", "urgent"}, rec["tags"])
	// machine initial state assigned
	require.Equal(t, "todo", rec["status"])

	// exactly one activity entry
	entries := activityFor(t, store, res.ID)
	require.Len(t, entries, 1)
	require.Equal(t, entity.ActionCreate, entries[0].Action)
	require.Equal(t, "mika", entries[0].Actor)
	require.Equal(t, "task", entries[0].EntityType)

	// exactly one bus event, after persistence
	require.Len(t, events, 1)
	require.Equal(t, "task", events[0].Type)
	require.Equal(t, res.ID, events[0].ID)
	require.Equal(t, "mika", events[0].Actor)
}

func TestCreate_UnknownTypeIsHardError(t *testing.T) {
	c, store, _ := newTestCommander(t)

	res := c.Create(context.Background(), "widget", map[string]any{"title": "x"}, Provenance{})
	require.False(t, res.Success)

	var ute *UnknownTypeError
	require.ErrorAs(t, res.Err, &ute)
	require.Equal(t, "widget", ute.Type)

	recs, err := store.List(context.Background(), "widgets")
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestCreate_ValidationFailureLogsNothing(t *testing.T) {
	c, store, bus := newTestCommander(t)

	published := 0
	bus.OnAll(func(pubsub.EventName, any) { published++ })

	// task requires a title
	res := c.Create(context.Background(), "task", map[string]any{"status": "todo"}, Provenance{})
	require.False(t, res.Success)

	var ve *ValidationError
	require.ErrorAs(t, res.Err, &ve)
	require.Contains(t, ve.Fields.Fields(), "title")

	recs, err := store.List(context.Background(), "tasks")
	require.NoError(t, err)
	require.Empty(t, recs)
	entries, err := store.List(context.Background(), storage.ActivityTable)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Zero(t, published)
}

func TestCreate_PermissiveTypeSkipsValidation(t *testing.T) {
	c, _, _ := newTestCommander(t)

	res := c.Create(context.Background(), "note", map[string]any{
		"body": "whatever shape", "anything": 42,
	}, Provenance{})
	require.True(t, res.Success)
}

func TestUpdate_Success(t *testing.T) {
	c, store, bus := newTestCommander(t)
	ctx := context.Background()

	created := c.Create(ctx, "task", map[string]any{"title": "ship it"}, Provenance{Actor: "mika"})
	require.True(t, created.Success)

	var updated []pubsub.EntityEvent
	bus.On(pubsub.EntityUpdated, func(_ pubsub.EventName, payload any) {
		updated = append(updated, payload.(pubsub.EntityEvent))
	})

	res := c.Update(ctx, "task", created.ID, map[string]any{"title": "ship it today"}, Provenance{Actor: "mika"})
	require.True(t, res.Success)
	require.Equal(t, "ship it today", res.Record["title"])

	rec, err := store.Get(ctx, "tasks", created.ID)
	require.NoError(t, err)
	require.Equal(t, "ship it today", rec["title"])

	entries := activityFor(t, store, created.ID)
	require.Len(t, entries, 2)
	require.Equal(t, entity.ActionEdit, entries[0].Action)

	require.Len(t, updated, 1)
}

func TestUpdate_PartialDoesNotRequireAllFields(t *testing.T) {
	c, _, _ := newTestCommander(t)
	ctx := context.Background()

	created := c.Create(ctx, "task", map[string]any{"title": "triage"}, Provenance{})
	require.True(t, created.Success)

	// title is required on create, but a partial update without it is fine
	res := c.Update(ctx, "task", created.ID, map[string]any{"priority": 2}, Provenance{})
	require.True(t, res.Success)
	require.Equal(t, "triage", res.Record["title"])
}

func TestUpdate_MissingRecordReturnsNotFound(t *testing.T) {
	c, store, _ := newTestCommander(t)

	res := c.Update(context.Background(), "task", "ghost", map[string]any{"title": "x"}, Provenance{})
	require.False(t, res.Success)

	var nf *storage.NotFoundError
	require.ErrorAs(t, res.Err, &nf)

	// no stray activity entry
	entries, err := store.List(context.Background(), storage.ActivityTable)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDelete_Success(t *testing.T) {
	c, store, bus := newTestCommander(t)
	ctx := context.Background()

	created := c.Create(ctx, "task", map[string]any{"title": "old"}, Provenance{})
	require.True(t, created.Success)

	deleted := 0
	bus.On(pubsub.EntityDeleted, func(pubsub.EventName, any) { deleted++ })

	res := c.Delete(ctx, "task", created.ID, Provenance{Actor: "mika"})
	require.True(t, res.Success)
	require.Equal(t, 1, deleted)

	_, err := store.Get(ctx, "tasks", created.ID)
	var nf *storage.NotFoundError
	require.ErrorAs(t, err, &nf)

	entries := activityFor(t, store, created.ID)
	require.Len(t, entries, 2)
	require.Equal(t, entity.ActionDelete, entries[0].Action)
}

func TestTransition_Success(t *testing.T) {
	c, store, bus := newTestCommander(t)
	ctx := context.Background()

	created := c.Create(ctx, "task", map[string]any{"title": "ship"}, Provenance{})
	require.True(t, created.Success)

	updated := 0
	bus.On(pubsub.EntityUpdated, func(pubsub.EventName, any) { updated++ })

	res := c.Transition(ctx, "task", created.ID, "START", Provenance{Actor: "mika"})
	require.True(t, res.Success)
	require.Equal(t, "in_progress", res.Record["status"])

	rec, err := store.Get(ctx, "tasks", created.ID)
	require.NoError(t, err)
	require.Equal(t, "in_progress", rec["status"])

	entries := activityFor(t, store, created.ID)
	require.Len(t, entries, 2)
	require.Equal(t, entity.ActionTransition, entries[0].Action)
	require.Contains(t, entries[0].Description, "START")
	require.Contains(t, entries[0].Description, "in_progress")

	require.Equal(t, 1, updated)
}

func TestTransition_InvalidEventNamesStateAndEvent(t *testing.T) {
	c, store, _ := newTestCommander(t)
	ctx := context.Background()

	created := c.Create(ctx, "task", map[string]any{"title": "ship"}, Provenance{})
	require.True(t, created.Success)

	// COMPLETE is only valid from in_progress, not todo
	res := c.Transition(ctx, "task", created.ID, "COMPLETE", Provenance{})
	require.False(t, res.Success)

	var te *TransitionError
	require.ErrorAs(t, res.Err, &te)
	require.Equal(t, "todo", te.State)
	require.Equal(t, "COMPLETE", te.Event)
	require.Contains(t, te.ValidEvents, "START")
	require.Contains(t, res.Err.Error(), "todo")
	require.Contains(t, res.Err.Error(), "COMPLETE")

	// record untouched, only the create entry logged
	rec, err := store.Get(ctx, "tasks", created.ID)
	require.NoError(t, err)
	require.Equal(t, "todo", rec["status"])
	require.Len(t, activityFor(t, store, created.ID), 1)
}

func TestTransition_TypeWithoutMachine(t *testing.T) {
	c, _, _ := newTestCommander(t)
	ctx := context.Background()

	created := c.Create(ctx, "note", map[string]any{"body": "hi"}, Provenance{})
	require.True(t, created.Success)

	res := c.Transition(ctx, "note", created.ID, "START", Provenance{})
	require.False(t, res.Success)

	var te *TransitionError
	require.ErrorAs(t, res.Err, &te)
	require.Contains(t, res.Err.Error(), "no state machine")
}

func TestTransition_MissingRecord(t *testing.T) {
	c, _, _ := newTestCommander(t)

	res := c.Transition(context.Background(), "task", "ghost", "START", Provenance{})
	require.False(t, res.Success)

	var nf *storage.NotFoundError
	require.ErrorAs(t, res.Err, &nf)
}

// failingStore wraps a transactional store and fails Put calls for a given
// table. It keeps the failure in effect inside InTx, where the command
// pipeline actually writes.
type failingStore struct {
	storage.TxStore
	failTable string
}

func (f *failingStore) Put(ctx context.Context, table string, rec storage.Record) error {
	if table == f.failTable {
		return errors.New("disk full")
	}
	return f.TxStore.Put(ctx, table, rec)
}

func (f *failingStore) InTx(ctx context.Context, fn func(tx storage.Store) error) error {
	return f.TxStore.InTx(ctx, func(tx storage.Store) error {
		return fn(&failingTx{Store: tx, failTable: f.failTable})
	})
}

type failingTx struct {
	storage.Store
	failTable string
}

func (f *failingTx) Put(ctx context.Context, table string, rec storage.Record) error {
	if table == f.failTable {
		return errors.New("disk full")
	}
	return f.Store.Put(ctx, table, rec)
}

func TestCreate_ActivityFailureRollsBackRecord(t *testing.T) {
	reg, err := entity.DefaultRegistry()
	require.NoError(t, err)
	machines, err := fsm.Default()
	require.NoError(t, err)

	ctx := context.Background()
	mem := storage.NewMemoryStore()
	store := &failingStore{TxStore: mem, failTable: storage.ActivityTable}
	bus := pubsub.NewBus()
	published := 0
	bus.OnAll(func(pubsub.EventName, any) { published++ })

	c := NewCommander(reg, machines, store, bus)
	res := c.Create(ctx, "task", map[string]any{"title": "x"}, Provenance{})
	require.False(t, res.Success)

	var pe *PersistenceError
	require.ErrorAs(t, res.Err, &pe)
	require.Zero(t, published)

	// The transaction rolled back: no record and no activity entry survive.
	tasks, err := mem.List(ctx, "tasks")
	require.NoError(t, err)
	require.Empty(t, tasks)
	entries, err := mem.List(ctx, storage.ActivityTable)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCommander_GetAndList(t *testing.T) {
	c, _, _ := newTestCommander(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res := c.Create(ctx, "task", map[string]any{"title": fmt.Sprintf("task %d", i)}, Provenance{})
		require.True(t, res.Success)
	}

	recs, err := c.List(ctx, "task")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	got, err := c.Get(ctx, "task", recs[0]["id"].(string))
	require.NoError(t, err)
	require.Equal(t, recs[0]["title"], got["title"])

	_, err = c.List(ctx, "widget")
	var ute *UnknownTypeError
	require.ErrorAs(t, err, &ute)
}

func TestProvenance_Normalize(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, store, _ := newTestCommander(t, WithClock(func() time.Time { return fixed }))

	res := c.Create(context.Background(), "task", map[string]any{"title": "x"}, Provenance{})
	require.True(t, res.Success)

	entries := activityFor(t, store, res.ID)
	require.Len(t, entries, 1)
	require.Equal(t, "system", entries[0].Actor)
	require.True(t, entries[0].At.Equal(fixed))
}
