package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/libreria/internal/config"
	"github.com/listenupapp/libreria/internal/logger"
	"github.com/listenupapp/libreria/internal/ratelimit"
	"github.com/listenupapp/libreria/internal/service"
	"github.com/listenupapp/libreria/internal/watcher"
)

// FileWatcherHandle wraps the data file watcher with shutdown capability.
// Watcher is nil when watching is disabled.
type FileWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideFileWatcher provides the watcher that reloads the catalog when a
// data file changes.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)

	if !cfg.Catalog.Watch {
		log.Info("Data file watching disabled by configuration")
		return &FileWatcherHandle{}, nil
	}

	w, err := watcher.New(log.Logger, watcher.Options{SettleDelay: cfg.Catalog.SettleDelay})
	if err != nil {
		return nil, err
	}

	for _, path := range []string{cfg.Catalog.CategoriesPath, cfg.Catalog.BooksPath} {
		if err := w.Watch(path); err != nil {
			_ = w.Stop()
			return nil, err
		}
		log.Info("Watching data file", "path", path)
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("File watcher error", "error", err)
		}
	}()

	go catalogService.ReloadOnChange(ctx, w.Events())

	go func() {
		for {
			select {
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.Warn("file watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	return &FileWatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}

// MutationLimiterHandle wraps the per-client mutation limiter with shutdown capability.
type MutationLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *MutationLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideMutationLimiter provides the rate limiter for renames, deletions and reloads.
func ProvideMutationLimiter(i do.Injector) (*MutationLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &MutationLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Server.MutationRPS, cfg.Server.MutationBurst),
	}, nil
}
