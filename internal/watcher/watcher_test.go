package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trovehq/trove/internal/pubsub"
)

func TestWatcher_SignalsOnDatabaseWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "trove.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0600))

	cfg := DefaultConfig(dbPath)
	cfg.DebounceDur = 50 * time.Millisecond
	w, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dbPath, []byte("xy"), 0600))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal received")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "trove.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0600))

	cfg := DefaultConfig(dbPath)
	cfg.DebounceDur = 50 * time.Millisecond
	w, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0600))

	select {
	case <-changes:
		t.Fatal("unexpected signal for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "trove.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0600))

	cfg := DefaultConfig(dbPath)
	cfg.DebounceDur = 200 * time.Millisecond
	w, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte{byte(i)}, 0600))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal received")
	}

	select {
	case <-changes:
		t.Fatal("burst produced more than one signal")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_PublishesOnBroker(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "trove.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0600))

	broker := pubsub.NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := broker.Subscribe(ctx)

	cfg := DefaultConfig(dbPath)
	cfg.DebounceDur = 50 * time.Millisecond
	cfg.Broker = broker
	w, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dbPath, []byte("xy"), 0600))

	select {
	case ev := <-events:
		require.Equal(t, pubsub.DBChanged, ev.Name)
		require.Equal(t, dbPath, ev.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("no broker event received")
	}
}
