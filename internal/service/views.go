package service

import (
	"math"
	"slices"
	"time"

	"github.com/listenupapp/libreria/internal/catalog"
	"github.com/listenupapp/libreria/internal/domain"
)

// BookView is a read-only snapshot of a book, safe to hand out after the
// catalog lock is released.
type BookView struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Author   string        `json:"author"`
	Rating   float64       `json:"rating"`
	Category string        `json:"category"`
	Fiction  bool          `json:"fiction"`
	Cover    *domain.Cover `json:"cover,omitempty"`
}

// CategoryView is a read-only snapshot of a category. AverageRating is nil
// for an empty category.
type CategoryView struct {
	Name          string   `json:"name"`
	Fiction       bool     `json:"fiction"`
	Books         int      `json:"books"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}

// Stats summarises the catalog.
type Stats struct {
	Revision                   string        `json:"revision"`
	LoadedAt                   time.Time     `json:"loaded_at"`
	Categories                 int           `json:"categories"`
	Books                      int           `json:"books"`
	AverageRating              *float64      `json:"average_rating,omitempty"`
	CategoryWithMostBooks      *CategoryView `json:"category_with_most_books,omitempty"`
	CategoryWithBestAverage    *CategoryView `json:"category_with_best_average,omitempty"`
	BooksWithoutCover          int           `json:"books_without_cover"`
	AuthorInMultipleCategories bool          `json:"author_in_multiple_categories"`
}

func newBookView(b *domain.Book) BookView {
	v := BookView{
		ID:     b.ID(),
		Title:  b.Title(),
		Author: b.Author(),
		Rating: b.Rating(),
	}
	if category := b.Category(); category != nil {
		v.Category = category.Name()
		v.Fiction = category.IsFiction()
	}
	if cover := b.Cover(); cover != nil {
		c := *cover
		v.Cover = &c
	}
	return v
}

func newBookViews(books []*domain.Book) []BookView {
	views := make([]BookView, 0, len(books))
	for _, b := range books {
		views = append(views, newBookView(b))
	}
	return views
}

func newCategoryView(c *domain.Category) CategoryView {
	return CategoryView{
		Name:          c.Name(),
		Fiction:       c.IsFiction(),
		Books:         c.CountBooks(),
		AverageRating: finite(c.AverageRating()),
	}
}

func newCategoryViews(categories []*domain.Category) []CategoryView {
	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, newCategoryView(c))
	}
	return views
}

func optionalCategoryView(c *domain.Category) *CategoryView {
	if c == nil {
		return nil
	}
	v := newCategoryView(c)
	return &v
}

// finite maps NaN (an average over nothing) to nil.
func finite(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

func computeStats(c *catalog.Catalog) Stats {
	return Stats{
		Categories:                 len(c.Categories()),
		Books:                      len(c.Books()),
		AverageRating:              finite(c.AverageRating()),
		CategoryWithMostBooks:      optionalCategoryView(c.CategoryWithMostBooks()),
		CategoryWithBestAverage:    optionalCategoryView(c.CategoryWithBestAverageRating()),
		BooksWithoutCover:          c.CountBooksWithoutCover(),
		AuthorInMultipleCategories: c.HasAuthorInMultipleCategories(),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
