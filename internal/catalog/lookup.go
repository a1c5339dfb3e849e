package catalog

import (
	"github.com/listenupapp/libreria/internal/domain"
)

// FindCategoryByName returns the first category named name, or nil.
func (c *Catalog) FindCategoryByName(name string) *domain.Category {
	if pos := c.PositionOfCategory(name); pos >= 0 {
		return c.categories[pos]
	}
	return nil
}

// PositionOfCategory returns the index of the first category named name, or -1.
// The index addresses RenameCategory.
func (c *Catalog) PositionOfCategory(name string) int {
	for i, category := range c.categories {
		if category.Name() == name {
			return i
		}
	}
	return -1
}

// BooksInCategory returns the books of the first category named name.
// The result is empty when there is no such category.
func (c *Catalog) BooksInCategory(name string) []*domain.Book {
	category := c.FindCategoryByName(name)
	if category == nil {
		return []*domain.Book{}
	}
	return category.Books()
}

// FindBookByTitle returns the first book in catalog order titled title, or nil.
func (c *Catalog) FindBookByTitle(title string) *domain.Book {
	for _, b := range c.books {
		if b.Title() == title {
			return b
		}
	}
	return nil
}

// FindBooksByAuthor returns the books whose author contains query, ignoring
// case. Results follow category order, then each category's own order:
// "ulio v" finds the books of "Julio Verne".
func (c *Catalog) FindBooksByAuthor(query string) []*domain.Book {
	matches := []*domain.Book{}
	for _, category := range c.categories {
		matches = append(matches, category.BooksByAuthor(query)...)
	}
	return matches
}

// CategoriesWithAuthor returns, in category order, the categories holding at
// least one book whose author is exactly author.
func (c *Catalog) CategoriesWithAuthor(author string) []*domain.Category {
	result := []*domain.Category{}
	for _, category := range c.categories {
		if category.HasBookByAuthor(author) {
			result = append(result, category)
		}
	}
	return result
}
