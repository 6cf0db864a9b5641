package maintenance

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/woozymasta/dstone/internal/config"
	"github.com/woozymasta/dstone/internal/models"
	"github.com/woozymasta/dstone/internal/storage"
)

type syncFunc func(ctx context.Context) (int, error)

func (f syncFunc) Sync(ctx context.Context) (int, error) { return f(ctx) }

func newRepository(t *testing.T) *storage.Repository {
	t.Helper()

	repo, err := storage.New(filepath.Join(t.TempDir(), "maintenance.db"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	err = repo.UpsertSimpleInfo(context.Background(), []models.SimpleInfo{
		{RowID: "KU_1", Name: "one"},
		{RowID: "KU_2", Name: models.NotAvailable},
		{RowID: "KU_3", Name: models.NotAvailable},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	return repo
}

func TestRunNoFlags(t *testing.T) {
	called := false
	syncer := syncFunc(func(context.Context) (int, error) { called = true; return 0, nil })

	if Run(context.Background(), config.Storage{}, newRepository(t), syncer) {
		t.Error("Run reported a task without any flag set")
	}
	if called {
		t.Error("Sync called without --db-refresh")
	}
}

func TestRunRefresh(t *testing.T) {
	calls := 0
	syncer := syncFunc(func(context.Context) (int, error) { calls++; return 0, errors.New("offline") })

	if !Run(context.Background(), config.Storage{Refresh: true}, newRepository(t), syncer) {
		t.Fatal("refresh not reported as executed")
	}
	if calls != 1 {
		t.Errorf("Sync called %d times, want 1", calls)
	}
}

func TestRunRemoveAndPrune(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	if !Run(ctx, config.Storage{Remove: "KU_1"}, repo, nil) {
		t.Fatal("remove not reported as executed")
	}
	if got, _ := repo.GetSimpleInfo(ctx, "KU_1"); got != nil {
		t.Errorf("KU_1 still stored: %+v", got)
	}

	if !Run(ctx, config.Storage{PruneNA: true}, repo, nil) {
		t.Fatal("prune not reported as executed")
	}
	if n, _ := repo.CountSimpleInfo(ctx); n != 0 {
		t.Errorf("%d rows left after prune, want 0", n)
	}
}
