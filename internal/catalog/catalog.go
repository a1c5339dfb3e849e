// Package catalog holds the in-memory book catalog: the categories, the full
// list of books, and the operations over both.
//
// A Catalog is not safe for concurrent use. It keeps two mirrors of the same
// books, the catalog-level list and each category's own list, and every
// operation keeps them consistent: every book in Books() is listed exactly
// once by its category, and vice versa.
package catalog

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/listenupapp/libreria/internal/domain"
	domainerrors "github.com/listenupapp/libreria/internal/errors"
	"github.com/listenupapp/libreria/internal/records"
)

// Notifier receives human-readable messages meant for whoever operates the
// catalog: the post-load report and per-book deletion failures.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// ResourceChecker decides whether a cover resource exists.
type ResourceChecker interface {
	Exists(path string) bool
}

// ResourceCheckerFunc adapts a function to ResourceChecker.
type ResourceCheckerFunc func(path string) bool

// Exists implements ResourceChecker.
func (f ResourceCheckerFunc) Exists(path string) bool { return f(path) }

// Options configures catalog construction.
type Options struct {
	// Notifier receives the load report and deletion failures. Nil discards them.
	Notifier Notifier
	// Resources decides cover attachment. Nil means no cover ever exists.
	Resources ResourceChecker
	// Logger for operational logs. Nil discards them.
	Logger *slog.Logger
	// Records configures file decoding for Load.
	Records records.Options
	// StrictCategoryNames rejects duplicate names in the categories file.
	// Off by default: the categories file is trusted as-is.
	StrictCategoryNames bool
}

// AddedCategory is one line of the post-load report.
type AddedCategory struct {
	Name  string `json:"name"`
	Books int    `json:"books"`
}

// Catalog is the aggregate of all categories and all books.
type Catalog struct {
	categories []*domain.Category
	books      []*domain.Book
	added      []*domain.Category
	report     []AddedCategory
	notifier   Notifier
	logger     *slog.Logger
}

// Load parses both files and builds a catalog from them.
func Load(categories, books io.Reader, opts Options) (*Catalog, error) {
	categoryRecs, err := records.ReadCategories(categories, opts.Records)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	bookRecs, err := records.ReadBooks(books, opts.Records)
	if err != nil {
		return nil, fmt.Errorf("read books: %w", err)
	}
	return New(categoryRecs, bookRecs, opts)
}

// New builds a catalog from already parsed records.
//
// Categories are created in record order. Each book resolves its category by
// exact name; an unknown name creates an implicit fiction category that is
// appended to the catalog and logged for the post-load report. The report is
// sent to the notifier once all books are in.
func New(categoryRecs []records.CategoryRecord, bookRecs []records.BookRecord, opts Options) (*Catalog, error) {
	c := &Catalog{
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(string) {})
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	if err := c.loadCategories(categoryRecs, opts.StrictCategoryNames); err != nil {
		return nil, err
	}
	c.loadBooks(bookRecs, opts.Resources)

	c.report = c.buildAddedReport()
	c.notifier.Notify(formatAddedReport(c.report))

	c.logger.Info("catalog loaded",
		"categories", len(c.categories),
		"books", len(c.books),
		"added_categories", len(c.added),
	)

	return c, nil
}

func (c *Catalog) loadCategories(recs []records.CategoryRecord, strict bool) error {
	c.categories = make([]*domain.Category, 0, len(recs))
	for _, rec := range recs {
		if strict && c.FindCategoryByName(rec.Name) != nil {
			return domainerrors.AlreadyExistsf("category %q is listed more than once", rec.Name)
		}
		c.categories = append(c.categories, domain.NewCategory(rec.Name, rec.Fiction))
	}
	return nil
}

func (c *Catalog) loadBooks(recs []records.BookRecord, resources ResourceChecker) {
	c.books = make([]*domain.Book, 0, len(recs))
	for _, rec := range recs {
		category := c.resolveCategory(rec.Category)

		book := domain.NewBook(rec.Title, rec.Author, rec.Rating, category)
		c.books = append(c.books, book)
		category.AddBook(book)

		if resources != nil && resources.Exists(rec.CoverPath) {
			book.SetCover(domain.NewCover(rec.CoverPath, rec.CoverWidth, rec.CoverHeight))
		}
	}
}

// resolveCategory returns the category named name, creating an implicit one
// when none exists. Implicit categories are always fiction.
func (c *Catalog) resolveCategory(name string) *domain.Category {
	if category := c.FindCategoryByName(name); category != nil {
		return category
	}

	category := domain.NewCategory(name, true)
	c.categories = append(c.categories, category)
	c.added = append(c.added, category)

	c.logger.Debug("created implicit category", "category", name)
	return category
}

func (c *Catalog) buildAddedReport() []AddedCategory {
	report := make([]AddedCategory, 0, len(c.added))
	for _, category := range c.added {
		report = append(report, AddedCategory{Name: category.Name(), Books: category.CountBooks()})
	}
	return report
}

func formatAddedReport(report []AddedCategory) string {
	var sb strings.Builder
	sb.WriteString("Categories added while loading books:\n")
	for _, entry := range report {
		fmt.Fprintf(&sb, "%s with %d books.\n", entry.Name, entry.Books)
	}
	return sb.String()
}

// Categories returns the categories: file order, then implicit ones.
func (c *Catalog) Categories() []*domain.Category {
	return slices.Clone(c.categories)
}

// Books returns the full catalog in load order.
func (c *Catalog) Books() []*domain.Book {
	return slices.Clone(c.books)
}

// AddedCategories returns the categories created implicitly during load.
func (c *Catalog) AddedCategories() []*domain.Category {
	return slices.Clone(c.added)
}

// AddedCategoryReport returns the post-load report as data: each implicit
// category with the number of books it held when loading finished.
func (c *Catalog) AddedCategoryReport() []AddedCategory {
	return slices.Clone(c.report)
}
