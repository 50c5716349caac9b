package app

import (
	"context"
	"testing"

	"github.com/nomadicTree/frayerstore/internal/data/repos/memstore"
	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
	"github.com/nomadicTree/frayerstore/internal/realtime/bus"
)

func TestInProcessBusLeavesListingsUncached(t *testing.T) {
	store := memstore.New()
	svcs := wireServices(logger.Nop(), store.Repos(), nil, bus.NewMemoryBus())
	ctx := context.Background()

	if _, err := svcs.Catalog.ListLevels(ctx); err != nil {
		t.Fatalf("list levels: %v", err)
	}
	// Written behind the service's back, as another process would.
	if _, err := store.Repos().Levels.Create(dbctx.Background(), types.LevelCreate{Name: "GCSE", Slug: "gcse"}); err != nil {
		t.Fatalf("create level: %v", err)
	}
	levels, err := svcs.Catalog.ListLevels(ctx)
	if err != nil {
		t.Fatalf("list levels: %v", err)
	}
	if len(levels) != 1 {
		t.Fatalf("levels: got %d, want 1", len(levels))
	}
	if n := store.CallsTo("Levels.ListAll"); n != 2 {
		t.Fatalf("ListAll calls: got %d, want 2", n)
	}
}
