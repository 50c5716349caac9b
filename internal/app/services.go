package app

import (
	"github.com/nomadicTree/frayerstore/internal/data/repos"
	"github.com/nomadicTree/frayerstore/internal/importer"
	"github.com/nomadicTree/frayerstore/internal/observability"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
	"github.com/nomadicTree/frayerstore/internal/realtime/bus"
	"github.com/nomadicTree/frayerstore/internal/services"
)

type Services struct {
	Catalog  services.CatalogService
	Importer *importer.Importer
}

func wireServices(log *logger.Logger, reposet repos.Set, metrics *observability.Metrics, events bus.Bus) Services {
	log.Info("Wiring services...")
	return Services{
		Catalog:  services.NewCatalogService(log, reposet, events.CrossProcess()),
		Importer: importer.New(reposet, log, metrics).WithEvents(events),
	}
}
