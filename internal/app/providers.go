package app

import (
	"github.com/eslsoft/glostrainer/internal/adapter/repository"
	"github.com/eslsoft/glostrainer/internal/infrastructure/config"
	"github.com/eslsoft/glostrainer/internal/infrastructure/database"
	"github.com/eslsoft/glostrainer/internal/usecase/backup"
)

// ConfigFile is the --config flag value; empty means .env lookup.
type ConfigFile string

func provideFileStore() *repository.GTLFileStore {
	return repository.NewGTLFileStore()
}

func provideBackupService() *backup.Service {
	return backup.NewService()
}

func provideLibrary(h *database.Handle) (*repository.SQLWordlistStore, error) {
	return repository.NewSQLWordlistStore(h.DB, h.Driver)
}

func provideConfig(file ConfigFile) (*config.Config, error) {
	return config.Load(string(file))
}
