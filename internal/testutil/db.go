package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trovehq/trove/internal/storage/sqlite"
)

// OpenTestDB opens a migrated sqlite database in a temp directory and
// closes it when the test finishes.
func OpenTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "trove.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
