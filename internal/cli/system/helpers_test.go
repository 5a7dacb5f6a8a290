package system

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/config"
	"github.com/julianstephens/sagestudy/internal/notifier"
	"github.com/julianstephens/sagestudy/internal/storage"
)

func newTestContext(t *testing.T, dbPath string) (*cli.Context, *storage.SQLiteStore) {
	t.Helper()

	cfg := &config.Config{
		Storage:  config.StorageConfig{Backend: "sqlite", Path: dbPath},
		Timezone: "UTC",
		Notifications: config.NotificationsConfig{
			Enabled:          true,
			DefaultOffsetMin: 30,
		},
	}
	store := storage.NewSQLiteStore(dbPath)
	ctx, err := cli.NewContext(cfg, store, time.UTC, notifier.NewLogDeliverer(io.Discard))
	if err != nil {
		t.Fatalf("failed to build context: %v", err)
	}
	return ctx, store
}

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx, store := newTestContext(t, dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, cleanup
}
