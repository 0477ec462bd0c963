// Package app composes the trove runtime: storage, registry, machines,
// command pipeline, cache, and tracing, wired the same way for the CLI and
// for tests.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/trovehq/trove/internal/cache"
	"github.com/trovehq/trove/internal/command"
	"github.com/trovehq/trove/internal/config"
	"github.com/trovehq/trove/internal/entity"
	"github.com/trovehq/trove/internal/fsm"
	"github.com/trovehq/trove/internal/log"
	"github.com/trovehq/trove/internal/pubsub"
	"github.com/trovehq/trove/internal/storage"
	"github.com/trovehq/trove/internal/storage/sqlite"
	"github.com/trovehq/trove/internal/tracing"
)

// App bundles the wired runtime collaborators.
type App struct {
	Registry  *entity.Registry
	Machines  *fsm.Set
	Store     storage.Store
	Bus       *pubsub.Bus
	Commander *command.Commander
	Adapter   *entity.Adapter
	Cache     *cache.EntityCache

	db      *sqlite.DB
	tracing *tracing.Provider
	actor   string
}

// New opens the configured database and wires the full runtime.
func New(cfg config.Config) (*App, error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	a, err := build(db.Store(), cfg.Actor, command.WithTracer(provider.Tracer()))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	a.tracing = provider

	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	a.Cache = cache.NewEntityCache(a.Bus, a.loadUniversal, ttl)

	log.Info(log.CatCLI, "runtime ready", "db", cfg.DBPath, "actor", cfg.Actor)
	return a, nil
}

// NewWithStore wires the runtime over an existing store, for tests and
// ephemeral in-memory use.
func NewWithStore(store storage.Store, actor string) (*App, error) {
	a, err := build(store, actor)
	if err != nil {
		return nil, err
	}
	a.Cache = cache.NewEntityCache(a.Bus, a.loadUniversal, cache.DefaultExpiration)
	return a, nil
}

func build(store storage.Store, actor string, opts ...command.Option) (*App, error) {
	reg, err := entity.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	machines, err := fsm.Default()
	if err != nil {
		return nil, fmt.Errorf("build machines: %w", err)
	}

	bus := pubsub.NewBus()
	return &App{
		Registry:  reg,
		Machines:  machines,
		Store:     store,
		Bus:       bus,
		Commander: command.NewCommander(reg, machines, store, bus, opts...),
		Adapter:   entity.NewAdapter(reg, machines),
		actor:     actor,
	}, nil
}

// Provenance returns the provenance for mutations issued by this runtime.
func (a *App) Provenance() command.Provenance {
	return command.Provenance{Actor: a.actor}
}

// Close releases the database and flushes tracing.
func (a *App) Close(ctx context.Context) error {
	if a.Cache != nil {
		a.Cache.Close()
	}
	if a.tracing != nil {
		if err := a.tracing.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatCLI, "tracing shutdown", err)
		}
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) loadUniversal(ctx context.Context, urn entity.URN) (entity.UniversalEntity, error) {
	typeName, id, err := splitURN(urn)
	if err != nil {
		return entity.UniversalEntity{}, err
	}
	rec, err := a.Commander.Get(ctx, typeName, id)
	if err != nil {
		return entity.UniversalEntity{}, err
	}
	return a.Adapter.Universal(typeName, rec), nil
}
