package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trovehq/trove/internal/entity"
	"github.com/trovehq/trove/internal/pubsub"
)

func TestEntityCache_ReadThrough(t *testing.T) {
	loads := 0
	cache := NewEntityCache(nil, func(ctx context.Context, urn entity.URN) (entity.UniversalEntity, error) {
		loads++
		return entity.UniversalEntity{URN: urn, Title: "cached"}, nil
	}, time.Minute)

	ctx := context.Background()
	urn := entity.NewURN("task", "t-1")

	first, err := cache.Get(ctx, urn)
	require.NoError(t, err)
	require.Equal(t, "cached", first.Title)

	_, err = cache.Get(ctx, urn)
	require.NoError(t, err)
	require.Equal(t, 1, loads)
}

func TestEntityCache_LoaderErrorNotCached(t *testing.T) {
	boom := errors.New("boom")
	fail := true
	cache := NewEntityCache(nil, func(ctx context.Context, urn entity.URN) (entity.UniversalEntity, error) {
		if fail {
			return entity.UniversalEntity{}, boom
		}
		return entity.UniversalEntity{URN: urn}, nil
	}, time.Minute)

	ctx := context.Background()
	urn := entity.NewURN("task", "t-1")

	_, err := cache.Get(ctx, urn)
	require.ErrorIs(t, err, boom)

	fail = false
	got, err := cache.Get(ctx, urn)
	require.NoError(t, err)
	require.Equal(t, urn, got.URN)
}

func TestEntityCache_InvalidatedByLifecycleEvents(t *testing.T) {
	bus := pubsub.NewBus()
	version := "v1"
	loads := 0
	cache := NewEntityCache(bus, func(ctx context.Context, urn entity.URN) (entity.UniversalEntity, error) {
		loads++
		return entity.UniversalEntity{URN: urn, Title: version}, nil
	}, time.Minute)

	ctx := context.Background()
	urn := entity.NewURN("task", "t-1")

	got, err := cache.Get(ctx, urn)
	require.NoError(t, err)
	require.Equal(t, "v1", got.Title)

	version = "v2"
	bus.Emit(pubsub.EntityUpdated, pubsub.EntityEvent{
		Type: "task", ID: "t-1", URN: string(urn),
	})

	got, err = cache.Get(ctx, urn)
	require.NoError(t, err)
	require.Equal(t, "v2", got.Title)
	require.Equal(t, 2, loads)

	// other URNs stay cached
	other := entity.NewURN("task", "t-2")
	_, err = cache.Get(ctx, other)
	require.NoError(t, err)
	_, err = cache.Get(ctx, other)
	require.NoError(t, err)
	require.Equal(t, 3, loads)
}

func TestEntityCache_CloseStopsInvalidation(t *testing.T) {
	bus := pubsub.NewBus()
	loads := 0
	cache := NewEntityCache(bus, func(ctx context.Context, urn entity.URN) (entity.UniversalEntity, error) {
		loads++
		return entity.UniversalEntity{URN: urn}, nil
	}, time.Minute)

	ctx := context.Background()
	urn := entity.NewURN("task", "t-1")
	_, err := cache.Get(ctx, urn)
	require.NoError(t, err)

	cache.Close()
	bus.Emit(pubsub.EntityDeleted, pubsub.EntityEvent{URN: string(urn)})

	_, err = cache.Get(ctx, urn)
	require.NoError(t, err)
	require.Equal(t, 1, loads)
}

func TestInMemoryManager_TTLAndFlush(t *testing.T) {
	mgr := NewInMemoryManager[string, int]("test", time.Minute, time.Minute)
	ctx := context.Background()

	mgr.Set(ctx, "a", 1, time.Minute)
	got, ok := mgr.Get(ctx, "a")
	require.True(t, ok)
	require.Equal(t, 1, got)

	require.NoError(t, mgr.Delete(ctx, "a"))
	_, ok = mgr.Get(ctx, "a")
	require.False(t, ok)

	mgr.Set(ctx, "b", 2, time.Minute)
	require.NoError(t, mgr.Flush(ctx))
	_, ok = mgr.Get(ctx, "b")
	require.False(t, ok)
}
