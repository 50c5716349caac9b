package app

import (
	"context"

	"github.com/nomadicTree/frayerstore/internal/http"
	httpH "github.com/nomadicTree/frayerstore/internal/http/handlers"
	"github.com/nomadicTree/frayerstore/internal/realtime/bus"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Catalog *httpH.CatalogHandler
}

func (a *App) wireHandlers() Handlers {
	a.Log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Catalog: httpH.NewCatalogHandler(a.Log, a.Services.Catalog),
	}
}

// WatchImports drops cached listings whenever an import commits, here or in
// another process sharing the bus.
func (a *App) WatchImports(ctx context.Context) error {
	return a.Bus.StartForwarder(ctx, func(ev bus.ImportEvent) {
		a.Services.Catalog.Invalidate()
		a.Log.Info("Catalog changed", "run_id", ev.RunID, "kind", ev.Kind, "source", ev.Source)
	})
}

// Server builds the browse API server.
func (a *App) Server() *http.Server {
	handlers := a.wireHandlers()
	cfg := http.RouterConfig{
		Log:            a.Log,
		Metrics:        a.Metrics,
		CORSOrigins:    a.Cfg.CORSOrigins,
		CatalogHandler: handlers.Catalog,
		HealthHandler:  handlers.Health,
	}
	if a.Cfg.OTel.Enabled {
		cfg.ServiceName = a.Cfg.OTel.ServiceName
	}
	return http.NewServer(cfg)
}
