// Package domain contains the core entities of the Libreria catalog: categories, books and covers.
package domain

import (
	"github.com/listenupapp/libreria/internal/id"
)

// Book is a single catalog entry. It belongs to exactly one Category.
//
// Books are values that get rebuilt rather than edited: the catalog replaces
// every Book on a category rename, so a *Book held across a rename is stale.
// ID identifies the instance, not the title.
type Book struct {
	id       string
	title    string
	author   string
	rating   float64
	category *Category
	cover    *Cover
}

// NewBook creates a book filed under category with a fresh instance ID.
// It does not add the book to the category's list; the catalog does that so
// both mirrors are updated together.
func NewBook(title, author string, rating float64, category *Category) *Book {
	return &Book{
		id:       id.MustGenerate(id.PrefixBook),
		title:    title,
		author:   author,
		rating:   rating,
		category: category,
	}
}

// ID returns the instance identifier ("book-<nanoid>").
func (b *Book) ID() string { return b.id }

// Title returns the book title.
func (b *Book) Title() string { return b.title }

// Author returns the author exactly as loaded.
func (b *Book) Author() string { return b.author }

// Rating returns the book rating.
func (b *Book) Rating() float64 { return b.rating }

// Category returns the owning category.
func (b *Book) Category() *Category { return b.category }

// Cover returns the cover descriptor, or nil when the book has none.
func (b *Book) Cover() *Cover { return b.cover }

// HasCover reports whether a cover is attached.
func (b *Book) HasCover() bool { return b.cover != nil }

// SetCover attaches a cover descriptor. A nil cover clears it.
func (b *Book) SetCover(c *Cover) { b.cover = c }

// Rebuild returns a new Book with the same attributes filed under category.
// The copy gets a new ID and shares the cover descriptor.
func (b *Book) Rebuild(category *Category) *Book {
	nb := NewBook(b.title, b.author, b.rating, category)
	nb.cover = b.cover
	return nb
}

// Equal reports structural equality: same title, author, rating, category
// (by reference) and an equal cover. Instance IDs are ignored.
func (b *Book) Equal(other *Book) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil {
		return false
	}
	return b.title == other.title &&
		b.author == other.author &&
		b.rating == other.rating &&
		b.category == other.category &&
		b.cover.Equal(other.cover)
}
