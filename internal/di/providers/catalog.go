package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/libreria/internal/catalog"
	"github.com/listenupapp/libreria/internal/config"
	"github.com/listenupapp/libreria/internal/logger"
	"github.com/listenupapp/libreria/internal/media/covers"
	"github.com/listenupapp/libreria/internal/notify"
	"github.com/listenupapp/libreria/internal/records"
	"github.com/listenupapp/libreria/internal/service"
)

// ProvideCoverResolver provides the resolver for cover paths under the data directory.
func ProvideCoverResolver(i do.Injector) (*covers.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	resolver, err := covers.NewResolver(cfg.Catalog.DataPath)
	if err != nil {
		return nil, err
	}
	log.Debug("Cover root", "path", resolver.Root())
	return resolver, nil
}

// ProvideNotifier provides the sink for load reports and deletion failures.
// Server deployments have no console, so messages go to the log.
func ProvideNotifier(i do.Injector) (catalog.Notifier, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return notify.NewLog(log.Logger), nil
}

// ProvideCatalogService provides the catalog service. Construction performs
// the initial load, so a malformed data file stops startup.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	resolver := do.MustInvoke[*covers.Resolver](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	notifier := do.MustInvoke[catalog.Notifier](i)

	svc, err := service.NewCatalogService(context.Background(), service.Options{
		CategoriesPath:      cfg.Catalog.CategoriesPath,
		BooksPath:           cfg.Catalog.BooksPath,
		Records:             records.Options{Encoding: cfg.Catalog.Encoding},
		StrictCategoryNames: cfg.Catalog.StrictCategoryNames,
		Notifier:            notifier,
		Covers:              resolver,
		Index:               indexHandle.Index,
		Logger:              log.Logger,
	})
	if err != nil {
		return nil, err
	}

	stats := svc.Stats()
	log.Info("Catalog ready",
		"revision", stats.Revision,
		"categories", stats.Categories,
		"books", stats.Books,
	)

	return svc, nil
}
