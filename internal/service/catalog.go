// Package service exposes the catalog to concurrent callers: the HTTP API,
// the file watcher and the command line tools.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/listenupapp/libreria/internal/catalog"
	domainerrors "github.com/listenupapp/libreria/internal/errors"
	"github.com/listenupapp/libreria/internal/id"
	"github.com/listenupapp/libreria/internal/media/covers"
	"github.com/listenupapp/libreria/internal/records"
	"github.com/listenupapp/libreria/internal/search"
	"github.com/listenupapp/libreria/internal/watcher"
)

// Options configures a CatalogService.
type Options struct {
	CategoriesPath      string
	BooksPath           string
	Records             records.Options
	StrictCategoryNames bool

	// Notifier receives load reports and deletion failures. Nil discards them.
	Notifier catalog.Notifier
	// Covers resolves cover files. Nil means no book has a cover.
	Covers *covers.Resolver
	// Index is kept in sync with the catalog. Nil disables search.
	Index *search.Index
	// Logger, nil discards.
	Logger *slog.Logger
}

// CatalogService guards a single catalog with a RWMutex. Reads share the
// lock; mutations and reloads take it exclusively. A reload builds the new
// catalog outside the lock and swaps it in, so a failed reload keeps the
// current catalog.
type CatalogService struct {
	opts   Options
	logger *slog.Logger

	mu       sync.RWMutex
	catalog  *catalog.Catalog
	revision string
	loadedAt time.Time
}

// NewCatalogService creates the service and performs the initial load.
func NewCatalogService(ctx context.Context, opts Options) (*CatalogService, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &CatalogService{
		opts:   opts,
		logger: logger.With("component", "catalog_service"),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads both data files again and replaces the catalog.
func (s *CatalogService) Reload(ctx context.Context) error {
	start := time.Now()

	next, err := s.load()
	if err != nil {
		s.logger.Error("catalog reload failed", "error", err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = next
	s.loadedAt = time.Now()
	s.bumpRevision()
	s.reindex()

	s.logger.Info("catalog loaded",
		"revision", s.revision,
		"categories", len(next.Categories()),
		"books", len(next.Books()),
		"duration", time.Since(start),
	)
	return nil
}

func (s *CatalogService) load() (*catalog.Catalog, error) {
	categories, err := os.Open(s.opts.CategoriesPath)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "open categories file")
	}
	defer categories.Close()

	books, err := os.Open(s.opts.BooksPath)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "open books file")
	}
	defer books.Close()

	catOpts := catalog.Options{
		Notifier:            s.opts.Notifier,
		Logger:              s.logger,
		Records:             s.opts.Records,
		StrictCategoryNames: s.opts.StrictCategoryNames,
	}
	if s.opts.Covers != nil {
		catOpts.Resources = s.opts.Covers
	}

	return catalog.Load(categories, books, catOpts)
}

// bumpRevision marks a new catalog state. Caller holds the write lock.
func (s *CatalogService) bumpRevision() {
	s.revision = id.MustGenerate(id.PrefixGeneration)
}

// reindex rebuilds the search index. Caller holds the write lock. Failures
// are logged: search goes stale but the catalog stays usable.
func (s *CatalogService) reindex() {
	if s.opts.Index == nil {
		return
	}
	if err := s.opts.Index.Replace(s.catalog.Books()); err != nil {
		s.logger.Error("failed to reindex catalog", "error", err)
	}
}

// ReloadOnChange reloads the catalog for every event until ctx is done or
// events is closed. Reload failures are logged and the old catalog stays.
func (s *CatalogService) ReloadOnChange(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.logger.Info("data file changed", "path", event.Path, "type", event.Type.String())
			if event.Type == watcher.EventRemoved {
				continue
			}
			_ = s.Reload(ctx)
		}
	}
}

// Revision identifies the current catalog state. It changes on every reload
// and every successful mutation.
func (s *CatalogService) Revision() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Categories lists every category in catalog order.
func (s *CatalogService) Categories() []CategoryView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newCategoryViews(s.catalog.Categories())
}

// Category returns the first category named name.
func (s *CatalogService) Category(name string) (CategoryView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.catalog.FindCategoryByName(name)
	if c == nil {
		return CategoryView{}, domainerrors.NotFoundf("category %q not found", name)
	}
	return newCategoryView(c), nil
}

// BooksInCategory lists the books of the first category named name. An
// unknown category yields an empty list.
func (s *CatalogService) BooksInCategory(name string) []BookView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newBookViews(s.catalog.BooksInCategory(name))
}

// Books lists every book in catalog order.
func (s *CatalogService) Books() []BookView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newBookViews(s.catalog.Books())
}

// FindBookByTitle returns the first book with exactly this title.
func (s *CatalogService) FindBookByTitle(title string) (BookView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.catalog.FindBookByTitle(title)
	if b == nil {
		return BookView{}, domainerrors.NotFoundf("book %q not found", title)
	}
	return newBookView(b), nil
}

// FindBooksByAuthor returns the books whose author contains query, ignoring case.
func (s *CatalogService) FindBooksByAuthor(query string) []BookView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newBookViews(s.catalog.FindBooksByAuthor(query))
}

// CategoriesWithAuthor lists the categories holding a book by exactly author.
func (s *CatalogService) CategoriesWithAuthor(author string) []CategoryView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newCategoryViews(s.catalog.CategoriesWithAuthor(author))
}

// MissingAuthors returns, sorted, the listed authors with no book.
func (s *CatalogService) MissingAuthors(authorsCSV string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.catalog.MissingAuthors(authorsCSV))
}

// RenameCategory renames the first category named name.
func (s *CatalogService) RenameCategory(_ context.Context, name, newName string) (CategoryView, error) {
	if strings.TrimSpace(newName) == "" {
		return CategoryView{}, domainerrors.Validation("new category name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.catalog.PositionOfCategory(name)
	if pos < 0 {
		return CategoryView{}, domainerrors.NotFoundf("category %q not found", name)
	}
	if !s.catalog.RenameCategory(pos, newName) {
		return CategoryView{}, domainerrors.Conflictf("category %q already exists", newName)
	}

	s.bumpRevision()
	s.reindex()
	return newCategoryView(s.catalog.Categories()[pos]), nil
}

// DeleteBooksByAuthors removes every book by one of the listed authors and
// returns how many were removed.
func (s *CatalogService) DeleteBooksByAuthors(_ context.Context, authorsCSV string) (int, error) {
	if authorsCSV == "" {
		return 0, domainerrors.Validation("authors cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.catalog.DeleteBooksByAuthors(authorsCSV)
	if removed > 0 {
		s.bumpRevision()
		s.reindex()
	}
	return removed, nil
}

// Stats computes the catalog statistics.
func (s *CatalogService) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := computeStats(s.catalog)
	stats.Revision = s.revision
	stats.LoadedAt = s.loadedAt
	return stats
}

// AddedCategoryReport returns the categories created implicitly by the last load.
func (s *CatalogService) AddedCategoryReport() []catalog.AddedCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.AddedCategoryReport()
}

// Search runs a full-text search over the books.
func (s *CatalogService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if s.opts.Index == nil {
		return nil, domainerrors.Internalf("search is disabled")
	}
	res, err := s.opts.Index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return res, nil
}

// IndexedDocuments returns how many books the search index holds.
func (s *CatalogService) IndexedDocuments() (uint64, error) {
	if s.opts.Index == nil {
		return 0, domainerrors.Internalf("search is disabled")
	}
	return s.opts.Index.DocumentCount()
}
