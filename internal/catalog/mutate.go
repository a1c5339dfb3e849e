package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/listenupapp/libreria/internal/domain"
	domainerrors "github.com/listenupapp/libreria/internal/errors"
	"github.com/listenupapp/libreria/internal/records"
)

// RenameCategory renames the category at position.
//
// It returns false, changing nothing, when any category already uses newName;
// that includes the category being renamed. position must index an existing
// category; anything else panics.
//
// On success the category is replaced by a new Category with the same fiction
// flag, and every book of the catalog is rebuilt: books of the renamed
// category point at the new Category, the rest keep theirs. Titles, authors,
// ratings and covers carry over, but every *domain.Book (and its ID) is new.
func (c *Catalog) RenameCategory(position int, newName string) bool {
	if c.FindCategoryByName(newName) != nil {
		return false
	}

	old := c.categories[position]
	renamed := domain.NewCategory(newName, old.IsFiction())
	c.categories[position] = renamed

	for _, category := range c.categories {
		category.ResetBooks()
	}

	rebuilt := make([]*domain.Book, 0, len(c.books))
	for _, b := range c.books {
		target := b.Category()
		if target == old {
			target = renamed
		}
		nb := b.Rebuild(target)
		target.AddBook(nb)
		rebuilt = append(rebuilt, nb)
	}
	c.books = rebuilt

	c.logger.Info("category renamed",
		"from", old.Name(),
		"to", newName,
		"books", renamed.CountBooks(),
	)
	return true
}

// DeleteBooksByAuthors removes every book whose author exactly matches one of
// the comma separated names, and returns how many were removed.
//
// Each book is removed from its category and from the catalog. A book that
// cannot be removed is reported through the notifier and skipped; the scan
// goes on with the remaining books and nothing already removed is restored.
func (c *Catalog) DeleteBooksByAuthors(authorsCSV string) int {
	authors := make(map[string]struct{})
	for _, author := range records.SplitList(authorsCSV) {
		authors[author] = struct{}{}
	}

	removed := 0
	for i := 0; i < len(c.books); i++ {
		b := c.books[i]
		if _, ok := authors[b.Author()]; !ok {
			continue
		}

		if err := c.removeBookAt(i); err != nil {
			c.reportDeleteFailure(b, err)
			continue
		}
		removed++
		// The next book slid into slot i.
		i--
	}

	c.logger.Info("books deleted by author", "authors", len(authors), "removed", removed)
	return removed
}

func (c *Catalog) removeBookAt(i int) error {
	b := c.books[i]
	category := b.Category()
	if category == nil {
		return domainerrors.Internalf("book %q has no category", b.Title())
	}
	if !category.RemoveBook(b) {
		return domainerrors.Internalf("book %q is not listed in category %q", b.Title(), category.Name())
	}
	c.books = slices.Delete(c.books, i, i+1)
	return nil
}

func (c *Catalog) reportDeleteFailure(b *domain.Book, err error) {
	categoryName := ""
	if b.Category() != nil {
		categoryName = b.Category().Name()
	}

	var sb strings.Builder
	sb.WriteString("Could not delete the following book:\n")
	fmt.Fprintf(&sb, "Title: %s\n", b.Title())
	fmt.Fprintf(&sb, "Author: %s\n", b.Author())
	fmt.Fprintf(&sb, "Category: %s\n", categoryName)
	fmt.Fprintf(&sb, "Rating: %s", strconv.FormatFloat(b.Rating(), 'f', -1, 64))
	c.notifier.Notify(sb.String())

	c.logger.Warn("failed to delete book",
		"title", b.Title(),
		"author", b.Author(),
		"category", categoryName,
		"error", err,
	)
}

// MissingAuthors returns the comma separated authors that have no book in the
// catalog (exact match).
func (c *Catalog) MissingAuthors(authorsCSV string) map[string]struct{} {
	missing := make(map[string]struct{})
	for _, author := range records.SplitList(authorsCSV) {
		missing[author] = struct{}{}
	}
	for _, b := range c.books {
		delete(missing, b.Author())
	}
	return missing
}
