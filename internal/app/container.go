package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/glostrainer/internal/adapter/repository"
	"github.com/eslsoft/glostrainer/internal/infrastructure/config"
	"github.com/eslsoft/glostrainer/internal/usecase"
	"github.com/eslsoft/glostrainer/internal/usecase/backup"
)

// Container aggregates the dependencies of the file based commands.
type Container struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Files     *repository.GTLFileStore
	Wordlists usecase.WordlistUsecase
	Backup    *backup.Service
}

// LibraryContainer adds the SQL word list library to Container.
type LibraryContainer struct {
	*Container
	Library *repository.SQLWordlistStore
}
