package domain

import (
	"slices"

	"github.com/listenupapp/libreria/internal/normalize"
)

// Category groups books under a name. The fiction flag is fixed at creation;
// renaming a category means replacing it with a new Category.
type Category struct {
	name    string
	fiction bool
	books   []*Book // insertion order
}

// NewCategory creates an empty category.
func NewCategory(name string, fiction bool) *Category {
	return &Category{name: name, fiction: fiction}
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// IsFiction reports the fiction flag.
func (c *Category) IsFiction() bool { return c.fiction }

// Books returns a copy of the category's books in insertion order.
func (c *Category) Books() []*Book {
	return slices.Clone(c.books)
}

// CountBooks returns the number of books in the category.
func (c *Category) CountBooks() int {
	return len(c.books)
}

// AddBook appends a book to the category.
func (c *Category) AddBook(b *Book) {
	c.books = append(c.books, b)
}

// RemoveBook removes the first book structurally equal to b.
// Returns false if no such book is present.
func (c *Category) RemoveBook(b *Book) bool {
	for i, candidate := range c.books {
		if candidate.Equal(b) {
			c.books = slices.Delete(c.books, i, i+1)
			return true
		}
	}
	return false
}

// ResetBooks empties the category's list. Used when the catalog rebuilds
// every book and refiles them.
func (c *Category) ResetBooks() {
	c.books = nil
}

// AverageRating returns the mean rating of the category's books.
// An empty category yields NaN (0/0).
func (c *Category) AverageRating() float64 {
	total := 0.0
	for _, b := range c.books {
		total += b.rating
	}
	return total / float64(len(c.books))
}

// BooksByAuthor returns the books whose author contains query, ignoring case.
func (c *Category) BooksByAuthor(query string) []*Book {
	var matches []*Book
	for _, b := range c.books {
		if normalize.ContainsFold(b.author, query) {
			matches = append(matches, b)
		}
	}
	return matches
}

// HasBookByAuthor reports whether any book's author equals author exactly.
func (c *Category) HasBookByAuthor(author string) bool {
	return slices.ContainsFunc(c.books, func(b *Book) bool {
		return b.author == author
	})
}
