// Package command is the single write path for entities. Every mutation
// runs the same pipeline: resolve the type, sanitize, validate, persist,
// append an activity entry, then publish the lifecycle event. Persist and
// activity append share one transaction when the store supports them, so a
// failed write never leaves a stray log entry.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/trovehq/trove/internal/entity"
	"github.com/trovehq/trove/internal/fsm"
	"github.com/trovehq/trove/internal/log"
	"github.com/trovehq/trove/internal/pubsub"
	"github.com/trovehq/trove/internal/storage"
	"github.com/trovehq/trove/internal/validate"
)

// Span and attribute names for command tracing.
const (
	SpanCreate     = "command.create"
	SpanUpdate     = "command.update"
	SpanDelete     = "command.delete"
	SpanTransition = "command.transition"

	AttrEntityType = "entity.type"
	AttrEntityID   = "entity.id"
	AttrEvent      = "entity.event"
	AttrActor      = "command.actor"
)

// Provenance records who issued a command and when. A zero At is filled in
// with the current time; an empty Actor becomes "system".
type Provenance struct {
	Actor string
	At    time.Time
	Meta  map[string]string
}

func (p Provenance) normalize(now func() time.Time) Provenance {
	if p.Actor == "" {
		p.Actor = "system"
	}
	if p.At.IsZero() {
		p.At = now()
	}
	return p
}

// Result is the outcome of a command. Err is one of the package error
// types; Record holds the persisted state after a successful mutation.
type Result struct {
	Success bool
	ID      string
	URN     entity.URN
	Record  storage.Record
	Err     error
}

func failure(err error) Result {
	return Result{Err: err}
}

// Commander executes entity mutations and reads against a store.
type Commander struct {
	reg      *entity.Registry
	machines *fsm.Set
	store    storage.Store
	bus      *pubsub.Bus
	tracer   trace.Tracer

	now   func() time.Time
	newID func() string
}

// Option customizes a Commander.
type Option func(*Commander)

// WithTracer enables tracing for command execution.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Commander) { c.tracer = tracer }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Commander) { c.now = now }
}

// WithIDSource overrides record id generation, for tests.
func WithIDSource(newID func() string) Option {
	return func(c *Commander) { c.newID = newID }
}

// NewCommander wires the command pipeline over the given collaborators.
func NewCommander(reg *entity.Registry, machines *fsm.Set, store storage.Store, bus *pubsub.Bus, opts ...Option) *Commander {
	c := &Commander{
		reg:      reg,
		machines: machines,
		store:    store,
		bus:      bus,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create validates and persists a new record of the given type. The record
// id is generated unless data carries one. When the type has a state machine
// and data carries no status, the machine's initial state is assigned.
func (c *Commander) Create(ctx context.Context, typeName string, data map[string]any, prov Provenance) Result {
	ctx, span := c.startSpan(ctx, SpanCreate, typeName, "")
	defer span.End()
	prov = prov.normalize(c.now)

	def, ok := c.reg.Definition(typeName)
	if !ok {
		return c.fail(span, failure(&UnknownTypeError{Type: typeName}))
	}

	res := validate.ValidateAndSanitize(def.Schema, def.SanitizeProfile(), data)
	if !res.Success {
		return c.fail(span, failure(&ValidationError{Type: typeName, Fields: res.Errors}))
	}

	rec := storage.Record(res.Data)
	id, _ := rec["id"].(string)
	if id == "" {
		id = c.newID()
		rec["id"] = id
	}
	span.SetAttributes(attribute.String(AttrEntityID, id))

	if def.MachineID != "" {
		status, _ := rec[def.Status()].(string)
		if status == "" {
			if m, ok := c.machines.Machine(def.MachineID); ok {
				rec[def.Status()] = m.Initial
			}
		}
	}

	entry := storage.ActivityEntry{
		ID:          c.newID(),
		EntityID:    id,
		EntityType:  typeName,
		Action:      entity.ActionCreate,
		Actor:       prov.Actor,
		At:          prov.At,
		Description: fmt.Sprintf("created %s %q", typeName, displayName(def, rec)),
	}

	err := c.inTx(ctx, func(tx storage.Store) error {
		if err := tx.Put(ctx, def.Table, rec); err != nil {
			return &PersistenceError{Op: "create " + typeName, Err: err}
		}
		return appendActivity(ctx, tx, entry)
	})
	if err != nil {
		log.ErrorErr(log.CatCommand, "create failed", err, "type", typeName, "id", id)
		return c.fail(span, failure(err))
	}

	log.Info(log.CatCommand, "entity created", "type", typeName, "id", id, "actor", prov.Actor)
	c.emit(pubsub.EntityCreated, typeName, id, res.Data, prov)
	span.SetStatus(codes.Ok, "")
	return Result{Success: true, ID: id, URN: entity.NewURN(typeName, id), Record: rec}
}

// Update merges the given fields into an existing record after sanitizing
// and validating them against the type's schema.
func (c *Commander) Update(ctx context.Context, typeName, id string, fields map[string]any, prov Provenance) Result {
	return c.update(ctx, SpanUpdate, typeName, id, fields, prov, entity.ActionEdit, "")
}

// Delete removes a record and logs the deletion.
func (c *Commander) Delete(ctx context.Context, typeName, id string, prov Provenance) Result {
	ctx, span := c.startSpan(ctx, SpanDelete, typeName, id)
	defer span.End()
	prov = prov.normalize(c.now)

	def, ok := c.reg.Definition(typeName)
	if !ok {
		return c.fail(span, failure(&UnknownTypeError{Type: typeName}))
	}

	entry := storage.ActivityEntry{
		ID:          c.newID(),
		EntityID:    id,
		EntityType:  typeName,
		Action:      entity.ActionDelete,
		Actor:       prov.Actor,
		At:          prov.At,
		Description: fmt.Sprintf("deleted %s %s", typeName, id),
	}

	err := c.inTx(ctx, func(tx storage.Store) error {
		if err := tx.Delete(ctx, def.Table, id); err != nil {
			return wrapStorageErr("delete "+typeName, err)
		}
		return appendActivity(ctx, tx, entry)
	})
	if err != nil {
		return c.fail(span, failure(err))
	}

	log.Info(log.CatCommand, "entity deleted", "type", typeName, "id", id, "actor", prov.Actor)
	c.emit(pubsub.EntityDeleted, typeName, id, nil, prov)
	span.SetStatus(codes.Ok, "")
	return Result{Success: true, ID: id, URN: entity.NewURN(typeName, id)}
}

// Transition fires a state machine event against a record's status field.
// The transition itself is an update: the new status flows through the same
// persist, log, and publish pipeline as any other field change.
func (c *Commander) Transition(ctx context.Context, typeName, id, event string, prov Provenance) Result {
	ctx, span := c.startSpan(ctx, SpanTransition, typeName, id)
	span.SetAttributes(attribute.String(AttrEvent, event))
	defer span.End()
	prov = prov.normalize(c.now)

	def, ok := c.reg.Definition(typeName)
	if !ok {
		return c.fail(span, failure(&UnknownTypeError{Type: typeName}))
	}
	if def.MachineID == "" {
		return c.fail(span, failure(&TransitionError{Type: typeName, ID: id}))
	}

	rec, err := c.store.Get(ctx, def.Table, id)
	if err != nil {
		return c.fail(span, failure(wrapStorageErr("transition "+typeName, err)))
	}

	current, _ := rec[def.Status()].(string)
	next, ok := c.machines.NextState(def.MachineID, current, event)
	if !ok {
		return c.fail(span, failure(&TransitionError{
			Type:        typeName,
			ID:          id,
			MachineID:   def.MachineID,
			State:       current,
			Event:       event,
			ValidEvents: c.machines.ValidEvents(def.MachineID, current),
		}))
	}

	desc := fmt.Sprintf("%s: %s -> %s", event, current, next)
	return c.update(ctx, "", typeName, id, map[string]any{def.Status(): next}, prov, entity.ActionTransition, desc)
}

// Get returns a stored record by type and id.
func (c *Commander) Get(ctx context.Context, typeName, id string) (storage.Record, error) {
	def, ok := c.reg.Definition(typeName)
	if !ok {
		return nil, &UnknownTypeError{Type: typeName}
	}
	return c.store.Get(ctx, def.Table, id)
}

// List returns every stored record of the given type.
func (c *Commander) List(ctx context.Context, typeName string) ([]storage.Record, error) {
	def, ok := c.reg.Definition(typeName)
	if !ok {
		return nil, &UnknownTypeError{Type: typeName}
	}
	return c.store.List(ctx, def.Table)
}

// Activity returns the audit trail for a record, newest first.
func (c *Commander) Activity(ctx context.Context, id string) ([]storage.ActivityEntry, error) {
	return storage.NewActivityRepository(c.store).ListForEntity(ctx, id)
}

// update is the shared tail of Update and Transition.
func (c *Commander) update(ctx context.Context, spanName, typeName, id string, fields map[string]any, prov Provenance, action, desc string) Result {
	span := trace.SpanFromContext(ctx)
	if spanName != "" {
		ctx, span = c.startSpan(ctx, spanName, typeName, id)
		defer span.End()
	}
	prov = prov.normalize(c.now)

	def, ok := c.reg.Definition(typeName)
	if !ok {
		return c.fail(span, failure(&UnknownTypeError{Type: typeName}))
	}

	res := validate.ValidatePartial(def.Schema, def.SanitizeProfile(), fields)
	if !res.Success {
		return c.fail(span, failure(&ValidationError{Type: typeName, Fields: res.Errors}))
	}

	if desc == "" {
		desc = fmt.Sprintf("updated %s (%s)", typeName, fieldNames(res.Data))
	}
	entry := storage.ActivityEntry{
		ID:          c.newID(),
		EntityID:    id,
		EntityType:  typeName,
		Action:      action,
		Actor:       prov.Actor,
		At:          prov.At,
		Description: desc,
	}

	var rec storage.Record
	err := c.inTx(ctx, func(tx storage.Store) error {
		var err error
		rec, err = tx.Update(ctx, def.Table, id, res.Data)
		if err != nil {
			return wrapStorageErr("update "+typeName, err)
		}
		return appendActivity(ctx, tx, entry)
	})
	if err != nil {
		log.ErrorErr(log.CatCommand, "update failed", err, "type", typeName, "id", id)
		return c.fail(span, failure(err))
	}

	log.Info(log.CatCommand, "entity updated", "type", typeName, "id", id, "action", action, "actor", prov.Actor)
	c.emit(pubsub.EntityUpdated, typeName, id, res.Data, prov)
	span.SetStatus(codes.Ok, "")
	return Result{Success: true, ID: id, URN: entity.NewURN(typeName, id), Record: rec}
}

func (c *Commander) inTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if ts, ok := c.store.(storage.TxStore); ok {
		return ts.InTx(ctx, fn)
	}
	return fn(c.store)
}

func (c *Commander) emit(name pubsub.EventName, typeName, id string, fields map[string]any, prov Provenance) {
	if c.bus == nil {
		return
	}
	c.bus.Emit(name, pubsub.EntityEvent{
		Type:   typeName,
		ID:     id,
		URN:    string(entity.NewURN(typeName, id)),
		Fields: fields,
		Actor:  prov.Actor,
	})
}

func (c *Commander) startSpan(ctx context.Context, name, typeName, id string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	ctx, span := c.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(attribute.String(AttrEntityType, typeName))
	if id != "" {
		span.SetAttributes(attribute.String(AttrEntityID, id))
	}
	return ctx, span
}

func (c *Commander) fail(span trace.Span, res Result) Result {
	span.RecordError(res.Err)
	span.SetStatus(codes.Error, res.Err.Error())
	return res
}

func appendActivity(ctx context.Context, tx storage.Store, entry storage.ActivityEntry) error {
	if err := storage.NewActivityRepository(tx).Append(ctx, entry); err != nil {
		return &PersistenceError{Op: "append activity", Err: err}
	}
	return nil
}

// wrapStorageErr keeps NotFoundError visible to callers and wraps anything
// else as a persistence failure.
func wrapStorageErr(op string, err error) error {
	var nf *storage.NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func fieldNames(fields map[string]any) string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func displayName(def entity.Definition, rec storage.Record) string {
	if v, ok := rec[def.PrimaryField].(string); ok && v != "" {
		return v
	}
	id, _ := rec["id"].(string)
	return id
}
