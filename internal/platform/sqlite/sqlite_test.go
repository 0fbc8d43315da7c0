package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := OpenAndMigrate(ctx, filepath.Join(t.TempDir(), "charterline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "kv_entries", name)

	// re-running is a no-op
	require.NoError(t, Migrate(ctx, db))
}
