package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFiledBook(c *Category, title, author string, rating float64) *Book {
	b := NewBook(title, author, rating, c)
	c.AddBook(b)
	return b
}

func TestCategory_AddBook_KeepsInsertionOrder(t *testing.T) {
	novela := NewCategory("Novela", true)

	first := newFiledBook(novela, "Cien años de soledad", "Gabriel García Márquez", 4.8)
	second := newFiledBook(novela, "La casa de los espíritus", "Isabel Allende", 4.5)

	assert.Equal(t, []*Book{first, second}, novela.Books())
	assert.Equal(t, 2, novela.CountBooks())
}

func TestCategory_Books_ReturnsCopy(t *testing.T) {
	novela := NewCategory("Novela", true)
	newFiledBook(novela, "Rayuela", "Julio Cortázar", 4.2)

	books := novela.Books()
	books[0] = nil

	require.Len(t, novela.Books(), 1)
	assert.NotNil(t, novela.Books()[0])
}

func TestCategory_RemoveBook_FirstStructuralMatch(t *testing.T) {
	novela := NewCategory("Novela", true)
	a := newFiledBook(novela, "Rayuela", "Julio Cortázar", 4.2)
	b := newFiledBook(novela, "Rayuela", "Julio Cortázar", 4.2)
	c := newFiledBook(novela, "Bestiario", "Julio Cortázar", 3.9)

	// b is structurally equal to a, so the first copy goes.
	removed := novela.RemoveBook(b)

	assert.True(t, removed)
	books := novela.Books()
	require.Len(t, books, 2)
	assert.Same(t, b, books[0])
	assert.Same(t, c, books[1])
	for _, remaining := range books {
		assert.NotSame(t, a, remaining)
	}
}

func TestCategory_RemoveBook_NotPresent(t *testing.T) {
	novela := NewCategory("Novela", true)
	ensayo := NewCategory("Ensayo", false)
	newFiledBook(novela, "Rayuela", "Julio Cortázar", 4.2)

	// Same attributes but a different category reference.
	stranger := NewBook("Rayuela", "Julio Cortázar", 4.2, ensayo)

	assert.False(t, novela.RemoveBook(stranger))
	assert.Equal(t, 1, novela.CountBooks())
}

func TestCategory_AverageRating(t *testing.T) {
	poesia := NewCategory("Poesía", false)
	newFiledBook(poesia, "Veinte poemas de amor", "Pablo Neruda", 3.0)
	newFiledBook(poesia, "Canto general", "Pablo Neruda", 4.0)
	newFiledBook(poesia, "Residencia en la tierra", "Pablo Neruda", 5.0)

	assert.InDelta(t, 4.0, poesia.AverageRating(), 1e-9)
}

func TestCategory_AverageRating_EmptyIsNaN(t *testing.T) {
	empty := NewCategory("Vacía", true)

	assert.True(t, math.IsNaN(empty.AverageRating()))
}

func TestCategory_BooksByAuthor_CaseInsensitiveSubstring(t *testing.T) {
	aventura := NewCategory("Aventura", true)
	verne := newFiledBook(aventura, "Viaje al centro de la Tierra", "Julio Verne", 4.1)
	newFiledBook(aventura, "La isla del tesoro", "Robert Louis Stevenson", 4.0)

	matches := aventura.BooksByAuthor("ulio v")

	assert.Equal(t, []*Book{verne}, matches)
	assert.Empty(t, aventura.BooksByAuthor("tolkien"))
}

func TestCategory_HasBookByAuthor_ExactOnly(t *testing.T) {
	aventura := NewCategory("Aventura", true)
	newFiledBook(aventura, "Viaje al centro de la Tierra", "Julio Verne", 4.1)

	assert.True(t, aventura.HasBookByAuthor("Julio Verne"))
	assert.False(t, aventura.HasBookByAuthor("julio verne"))
	assert.False(t, aventura.HasBookByAuthor("Verne"))
}

func TestCategory_ResetBooks(t *testing.T) {
	aventura := NewCategory("Aventura", true)
	newFiledBook(aventura, "Viaje al centro de la Tierra", "Julio Verne", 4.1)

	aventura.ResetBooks()

	assert.Zero(t, aventura.CountBooks())
	assert.True(t, aventura.IsFiction())
	assert.Equal(t, "Aventura", aventura.Name())
}
