//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/glostrainer/internal/infrastructure/database"
	"github.com/eslsoft/glostrainer/internal/infrastructure/logging"
	"github.com/eslsoft/glostrainer/internal/repository"
	"github.com/eslsoft/glostrainer/internal/usecase"

	adapterrepo "github.com/eslsoft/glostrainer/internal/adapter/repository"
)

var configSet = wire.NewSet(
	provideConfig,
	logging.NewLogger,
)

var storeSet = wire.NewSet(
	provideFileStore,
	wire.Bind(new(repository.WordlistStore), new(*adapterrepo.GTLFileStore)),
)

var usecaseSet = wire.NewSet(
	usecase.NewWordlistUsecase,
	provideBackupService,
)

var librarySet = wire.NewSet(
	database.Open,
	provideLibrary,
)

// Initialize builds the application container using Wire.
func Initialize(file ConfigFile) (*Container, func(), error) {
	wire.Build(
		configSet,
		storeSet,
		usecaseSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}

// InitializeLibrary builds a container that also holds the SQL library.
func InitializeLibrary(file ConfigFile) (*LibraryContainer, func(), error) {
	wire.Build(
		configSet,
		storeSet,
		usecaseSet,
		librarySet,
		wire.Struct(new(Container), "*"),
		wire.Struct(new(LibraryContainer), "*"),
	)
	return nil, nil, nil
}
