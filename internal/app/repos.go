package app

import (
	"gorm.io/gorm"

	"github.com/nomadicTree/frayerstore/internal/data/repos"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

func wireRepos(db *gorm.DB, log *logger.Logger) repos.Set {
	log.Info("Wiring repos...")
	return repos.NewSet(db, log)
}
