package search

import (
	"github.com/listenupapp/libreria/internal/domain"
)

// Document is the indexed form of a book.
type Document struct {
	ID       string
	Title    string
	Author   string
	Category string
	Fiction  bool
	Rating   float64
	HasCover bool
}

// NewDocument builds the search document for b.
func NewDocument(b *domain.Book) *Document {
	doc := &Document{
		ID:       b.ID(),
		Title:    b.Title(),
		Author:   b.Author(),
		Rating:   b.Rating(),
		HasCover: b.HasCover(),
	}
	if category := b.Category(); category != nil {
		doc.Category = category.Name()
		doc.Fiction = category.IsFiction()
	}
	return doc
}

// ToMap converts the document to the field names used by the mapping.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"id":        d.ID,
		"title":     d.Title,
		"author":    d.Author,
		"category":  d.Category,
		"fiction":   d.Fiction,
		"rating":    d.Rating,
		"has_cover": d.HasCover,
	}
}
