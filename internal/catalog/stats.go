package catalog

import (
	"github.com/listenupapp/libreria/internal/domain"
)

// AverageRating returns the mean rating over the whole catalog.
// An empty catalog yields NaN.
func (c *Catalog) AverageRating() float64 {
	total := 0.0
	for _, b := range c.books {
		total += b.Rating()
	}
	return total / float64(len(c.books))
}

// CategoryWithMostBooks returns the category holding the most books. Ties go
// to the earliest category. Nil only when there are no categories.
func (c *Catalog) CategoryWithMostBooks() *domain.Category {
	most := -1
	var winner *domain.Category
	for _, category := range c.categories {
		if count := category.CountBooks(); count > most {
			most = count
			winner = category
		}
	}
	return winner
}

// CategoryWithBestAverageRating returns the category with the highest average
// rating, ties going to the earliest. An empty category averages NaN, which
// never compares greater, so it never wins; if every category is empty the
// result is nil.
func (c *Catalog) CategoryWithBestAverageRating() *domain.Category {
	best := -1.0
	var winner *domain.Category
	for _, category := range c.categories {
		if avg := category.AverageRating(); avg > best {
			best = avg
			winner = category
		}
	}
	return winner
}

// CountBooksWithoutCover returns how many books have no cover.
func (c *Catalog) CountBooksWithoutCover() int {
	count := 0
	for _, b := range c.books {
		if !b.HasCover() {
			count++
		}
	}
	return count
}

// HasAuthorInMultipleCategories reports whether some author has books filed
// under at least two distinct category names. It stops at the first such author.
func (c *Catalog) HasAuthorInMultipleCategories() bool {
	seen := make(map[string]map[string]struct{})
	for _, b := range c.books {
		categoryName := b.Category().Name()
		names, ok := seen[b.Author()]
		if !ok {
			seen[b.Author()] = map[string]struct{}{categoryName: {}}
			continue
		}
		if _, ok := names[categoryName]; !ok {
			return true
		}
	}
	return false
}
