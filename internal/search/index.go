// Package search keeps an in-memory full-text index of the catalog's books.
package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/listenupapp/libreria/internal/domain"
)

const batchSize = 500

// Index wraps a memory-only Bleve index of books.
//
// All methods are safe for concurrent use. Book IDs change whenever the
// catalog rebuilds its books, so callers replace the whole index after a
// mutation rather than patching it.
type Index struct {
	mu      sync.RWMutex
	index   bleve.Index
	mapping mapping.IndexMapping
	logger  *slog.Logger
}

// Options configures the index.
type Options struct {
	Logger *slog.Logger // nil discards
}

// NewIndex creates an empty index.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m, err := buildIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("build mapping: %w", err)
	}
	index, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Index{index: index, mapping: m, logger: logger}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Replace swaps the indexed books for books. The new index is built aside
// and swapped in, so searches never observe a half-built index.
func (s *Index) Replace(books []*domain.Book) error {
	fresh, err := bleve.NewMemOnly(s.mapping)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	for i := 0; i < len(books); i += batchSize {
		end := min(i+batchSize, len(books))

		batch := fresh.NewBatch()
		for _, b := range books[i:end] {
			doc := NewDocument(b)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				_ = fresh.Close()
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := fresh.Batch(batch); err != nil {
			_ = fresh.Close()
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close replaced search index", "error", err)
	}
	s.logger.Debug("search index replaced", "documents", len(books))
	return nil
}

// DocumentCount returns the number of indexed books.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
