// Package di provides dependency injection configuration for the catalog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/libreria/internal/catalog"
	"github.com/listenupapp/libreria/internal/config"
	"github.com/listenupapp/libreria/internal/di/providers"
	"github.com/listenupapp/libreria/internal/logger"
	"github.com/listenupapp/libreria/internal/media/covers"
	"github.com/listenupapp/libreria/internal/service"
)

// NewContainer creates the DI container, loading configuration from flags,
// environment and .env file.
func NewContainer() *do.RootScope {
	injector := do.New()
	do.Provide(injector, providers.ProvideConfig)
	registerProviders(injector)
	return injector
}

// NewContainerWithConfig creates the DI container around an existing configuration.
func NewContainerWithConfig(cfg *config.Config) *do.RootScope {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	registerProviders(injector)
	return injector
}

func registerProviders(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideLogger)

	// Catalog layer
	do.Provide(injector, providers.ProvideCoverResolver)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideNotifier)
	do.Provide(injector, providers.ProvideCatalogService)

	// Workers
	do.Provide(injector, providers.ProvideFileWatcher)
	do.Provide(injector, providers.ProvideMutationLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*covers.Resolver](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[catalog.Notifier](injector)

	// The initial load can fail on malformed data; report it instead of panicking.
	if _, err := do.Invoke[*service.CatalogService](injector); err != nil {
		return err
	}

	// Workers
	if _, err := do.Invoke[*providers.FileWatcherHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.MutationLimiterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
