package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/nomadicTree/frayerstore/internal/data/db"
	"github.com/nomadicTree/frayerstore/internal/data/repos"
	"github.com/nomadicTree/frayerstore/internal/importer"
	"github.com/nomadicTree/frayerstore/internal/observability"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
	"github.com/nomadicTree/frayerstore/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Set
	Services Services
	Metrics  *observability.Metrics
	Bus      bus.Bus

	store        *db.Store
	otelShutdown func(context.Context) error
}

// New opens the store and wires every layer. Migrations only run when
// migrate is set; the migrate and import commands pass true.
func New(ctx context.Context, migrate bool) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.OTel)
	metrics := observability.Init(log, cfg.MetricsEnabled)

	store, err := db.NewStore(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init store: %w", err)
	}
	if migrate {
		if err := store.AutoMigrateAll(); err != nil {
			_ = store.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	events, err := bus.NewBus(log, cfg.RedisAddr, cfg.RedisChannel)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("init import bus: %w", err)
	}

	reposet := wireRepos(store.DB(), log)
	return &App{
		Log:          log,
		DB:           store.DB(),
		Cfg:          cfg,
		Repos:        reposet,
		Services:     wireServices(log, reposet, metrics, events),
		Metrics:      metrics,
		Bus:          events,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Importer exposes the wired import engine to the CLI.
func (a *App) Importer() *importer.Importer {
	return a.Services.Importer
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}
	if a.Bus != nil {
		_ = a.Bus.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("Store close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
