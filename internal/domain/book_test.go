package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBook_AssignsInstanceID(t *testing.T) {
	c := NewCategory("Novela", true)

	a := NewBook("Rayuela", "Julio Cortázar", 4.2, c)
	b := NewBook("Rayuela", "Julio Cortázar", 4.2, c)

	assert.True(t, strings.HasPrefix(a.ID(), "book-"))
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Same(t, c, a.Category())
	assert.False(t, a.HasCover())
	assert.Nil(t, a.Cover())
}

func TestBook_SetCover(t *testing.T) {
	b := NewBook("Rayuela", "Julio Cortázar", 4.2, NewCategory("Novela", true))

	b.SetCover(NewCover("rayuela.jpg", 300, 450))

	assert.True(t, b.HasCover())
	assert.Equal(t, &Cover{Path: "rayuela.jpg", Width: 300, Height: 450}, b.Cover())
}

func TestBook_Rebuild_PreservesAttributes(t *testing.T) {
	oldCat := NewCategory("Novela", true)
	newCat := NewCategory("Narrativa", true)
	original := NewBook("Rayuela", "Julio Cortázar", 4.2, oldCat)
	original.SetCover(NewCover("rayuela.jpg", 300, 450))

	rebuilt := original.Rebuild(newCat)

	assert.NotSame(t, original, rebuilt)
	assert.NotEqual(t, original.ID(), rebuilt.ID())
	assert.Equal(t, original.Title(), rebuilt.Title())
	assert.Equal(t, original.Author(), rebuilt.Author())
	assert.Equal(t, original.Rating(), rebuilt.Rating())
	assert.Equal(t, original.Cover(), rebuilt.Cover())
	assert.Same(t, newCat, rebuilt.Category())
}

func TestBook_Equal(t *testing.T) {
	novela := NewCategory("Novela", true)
	ensayo := NewCategory("Ensayo", false)
	base := NewBook("Rayuela", "Julio Cortázar", 4.2, novela)

	withCover := NewBook("Rayuela", "Julio Cortázar", 4.2, novela)
	withCover.SetCover(NewCover("rayuela.jpg", 1, 1))

	tests := []struct {
		name  string
		other *Book
		want  bool
	}{
		{"same instance", base, true},
		{"same attributes", NewBook("Rayuela", "Julio Cortázar", 4.2, novela), true},
		{"different title", NewBook("Bestiario", "Julio Cortázar", 4.2, novela), false},
		{"different author", NewBook("Rayuela", "J. Cortázar", 4.2, novela), false},
		{"different rating", NewBook("Rayuela", "Julio Cortázar", 4.3, novela), false},
		{"different category", NewBook("Rayuela", "Julio Cortázar", 4.2, ensayo), false},
		{"different cover", withCover, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Equal(tt.other))
		})
	}
}

func TestCover_Equal(t *testing.T) {
	var none *Cover

	assert.True(t, none.Equal(nil))
	assert.False(t, none.Equal(NewCover("a.jpg", 1, 1)))
	assert.True(t, NewCover("a.jpg", 1, 1).Equal(NewCover("a.jpg", 1, 1)))
	assert.False(t, NewCover("a.jpg", 1, 1).Equal(NewCover("a.jpg", 1, 2)))
}
