package api

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/libreria/internal/media/covers"
	"github.com/listenupapp/libreria/internal/notify"
	"github.com/listenupapp/libreria/internal/ratelimit"
	"github.com/listenupapp/libreria/internal/search"
	"github.com/listenupapp/libreria/internal/service"
)

const testCategories = `Nombre,Ficcion
Novela,true
Historia,false
`

const testBooks = `Titulo,Autor,Calificacion,Categoria,Portada,Ancho,Alto
Rayuela,Julio Cortázar,4.5,Novela,rayuela.png,8,12
Sapiens,Yuval Noah Harari,3.0,Historia,,0,0
Viaje,Julio Verne,4.0,Aventura,,0,0
Vuelta,Julio Verne,5.0,Aventura,,0,0
`

type testServer struct {
	*Server
	api       humatest.TestAPI
	booksPath string
}

func setupTestServer(t *testing.T, limiter *ratelimit.KeyedRateLimiter) *testServer {
	t.Helper()

	dir := t.TempDir()
	categoriesPath := filepath.Join(dir, "categorias.csv")
	booksPath := filepath.Join(dir, "libros.csv")
	require.NoError(t, os.WriteFile(categoriesPath, []byte(testCategories), 0o644))
	require.NoError(t, os.WriteFile(booksPath, []byte(testBooks), 0o644))

	f, err := os.Create(filepath.Join(dir, "rayuela.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 12))))
	require.NoError(t, f.Close())

	resolver, err := covers.NewResolver(dir)
	require.NoError(t, err)
	index, err := search.NewIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.NewCatalogService(context.Background(), service.Options{
		CategoriesPath: categoriesPath,
		BooksPath:      booksPath,
		Notifier:       &notify.Recorder{},
		Covers:         resolver,
		Index:          index,
		Logger:         logger,
	})
	require.NoError(t, err)

	s := NewServer(svc, Options{MutationLimiter: limiter}, logger)
	return &testServer{
		Server:    s,
		api:       humatest.Wrap(t, s.API()),
		booksPath: booksPath,
	}
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", body.Status)
	assert.NotEmpty(t, body.Revision)
	assert.Equal(t, "4 books", body.Components["catalog"].Message)
	assert.Equal(t, "healthy", body.Components["search"].Status)
}

func TestListCategories(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/categories")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[ListCategoriesResponse](t, resp.Body.Bytes())
	require.Len(t, body.Categories, 3)
	assert.Equal(t, "Aventura", body.Categories[2].Name)
	assert.True(t, body.Categories[2].Fiction)
	assert.Equal(t, 2, body.Categories[2].Books)
}

func TestGetCategory(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/categories/Historia")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[service.CategoryView](t, resp.Body.Bytes())
	assert.False(t, body.Fiction)
	require.NotNil(t, body.AverageRating)
	assert.Equal(t, 3.0, *body.AverageRating)

	resp = ts.api.Get("/api/v1/categories/Poesia")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[APIError](t, resp.Body.Bytes()).Code)
}

func TestGetCategoryBooks(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/categories/Aventura/books")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[ListBooksResponse](t, resp.Body.Bytes()).Books, 2)

	resp = ts.api.Get("/api/v1/categories/Poesia/books")
	require.Equal(t, http.StatusOK, resp.Code)
	books := decode[ListBooksResponse](t, resp.Body.Bytes()).Books
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestRenameCategory(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Patch("/api/v1/categories/Novela", map[string]any{"name": "Narrativa"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[service.CategoryView](t, resp.Body.Bytes())
	assert.Equal(t, "Narrativa", body.Name)
	assert.Equal(t, 1, body.Books)

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/categories/Novela").Code)
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/categories/Narrativa").Code)
}

func TestRenameCategory_Errors(t *testing.T) {
	ts := setupTestServer(t, nil)

	tests := []struct {
		name       string
		path       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{"collision", "/api/v1/categories/Novela", map[string]any{"name": "Historia"}, http.StatusConflict, "CONFLICT"},
		{"same name", "/api/v1/categories/Novela", map[string]any{"name": "Novela"}, http.StatusConflict, "CONFLICT"},
		{"unknown", "/api/v1/categories/Poesia", map[string]any{"name": "Lirica"}, http.StatusNotFound, "NOT_FOUND"},
		{"empty name", "/api/v1/categories/Novela", map[string]any{"name": ""}, http.StatusUnprocessableEntity, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Patch(tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, tt.wantCode, decode[APIError](t, resp.Body.Bytes()).Code)
		})
	}
}

func TestListBooks(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/books")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[ListBooksResponse](t, resp.Body.Bytes()).Books, 4)

	resp = ts.api.Get("/api/v1/books?author=ulio%20v")
	require.Equal(t, http.StatusOK, resp.Code)
	books := decode[ListBooksResponse](t, resp.Body.Bytes()).Books
	require.Len(t, books, 2)
	for _, b := range books {
		assert.Equal(t, "Julio Verne", b.Author)
	}
}

func TestGetBook(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/books/Rayuela")
	require.Equal(t, http.StatusOK, resp.Code)
	book := decode[service.BookView](t, resp.Body.Bytes())
	assert.Equal(t, "Julio Cortázar", book.Author)
	assert.Equal(t, "Novela", book.Category)
	require.NotNil(t, book.Cover)
	assert.Equal(t, "rayuela.png", book.Cover.Path)

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/books/Ulises").Code)
}

func TestDeleteBooks(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Delete("/api/v1/books?authors=Julio%20Verne,Nadie")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[DeleteBooksResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, body.Removed)
	assert.NotEmpty(t, body.Revision)

	resp = ts.api.Get("/api/v1/books")
	assert.Len(t, decode[ListBooksResponse](t, resp.Body.Bytes()).Books, 2)
}

func TestDeleteBooks_RequiresAuthors(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Delete("/api/v1/books")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestDeleteBooks_RateLimited(t *testing.T) {
	limiter := ratelimit.New(0.001, 1)
	t.Cleanup(limiter.Stop)
	ts := setupTestServer(t, limiter)

	first := ts.api.Delete("/api/v1/books?authors=Nadie", "X-Forwarded-For: 203.0.113.7")
	assert.Equal(t, http.StatusOK, first.Code)

	second := ts.api.Delete("/api/v1/books?authors=Nadie", "X-Forwarded-For: 203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	limited := decode[APIError](t, second.Body.Bytes())
	assert.Equal(t, "RATE_LIMITED", limited.Code)
	assert.Equal(t, "too many requests, try again later", limited.Message)

	other := ts.api.Delete("/api/v1/books?authors=Nadie", "X-Forwarded-For: 198.51.100.2")
	assert.Equal(t, http.StatusOK, other.Code)

	// Reads are never throttled.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/books", "X-Forwarded-For: 203.0.113.7").Code)
}

func TestMissingAuthors(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/authors/missing?authors=Julio%20Verne,Zoe,Ana")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"Ana", "Zoe"}, decode[MissingAuthorsResponse](t, resp.Body.Bytes()).Authors)
}

func TestAuthorCategories(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/authors/Julio%20Verne/categories")
	require.Equal(t, http.StatusOK, resp.Code)
	categories := decode[ListCategoriesResponse](t, resp.Body.Bytes()).Categories
	require.Len(t, categories, 1)
	assert.Equal(t, "Aventura", categories[0].Name)
}

func TestStats(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/stats")
	require.Equal(t, http.StatusOK, resp.Code)

	stats := decode[service.Stats](t, resp.Body.Bytes())
	assert.Equal(t, 4, stats.Books)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 4.125, *stats.AverageRating, 1e-9)
	require.NotNil(t, stats.CategoryWithMostBooks)
	assert.Equal(t, "Aventura", stats.CategoryWithMostBooks.Name)
	require.NotNil(t, stats.CategoryWithBestAverage)
	assert.Equal(t, "Novela", stats.CategoryWithBestAverage.Name)
	assert.Equal(t, 3, stats.BooksWithoutCover)
	assert.False(t, stats.AuthorInMultipleCategories)
}

func TestAddedCategories(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/report/added")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[AddedCategoriesResponse](t, resp.Body.Bytes())
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "Aventura", body.Categories[0].Name)
	assert.Equal(t, 2, body.Categories[0].Books)
}

func TestSearch(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/search?q=cortazar")
	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[search.Result](t, resp.Body.Bytes())
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Rayuela", result.Hits[0].Title)

	resp = ts.api.Get("/api/v1/search?fiction=false")
	require.Equal(t, http.StatusOK, resp.Code)
	result = decode[search.Result](t, resp.Body.Bytes())
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Sapiens", result.Hits[0].Title)

	assert.Equal(t, http.StatusUnprocessableEntity, ts.api.Get("/api/v1/search?fiction=maybe").Code)
}

func TestAuditCovers(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/covers/audit")
	require.Equal(t, http.StatusOK, resp.Code)

	report := decode[service.CoverAuditReport](t, resp.Body.Bytes())
	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, 3, report.Missing)
	assert.Zero(t, report.Mismatched)
}

func TestReload(t *testing.T) {
	ts := setupTestServer(t, nil)
	before := ts.catalog.Revision()

	require.NoError(t, os.WriteFile(ts.booksPath, []byte("h\nRayuela,Julio Cortázar,4.5,Novela,,0,0\n"), 0o644))

	resp := ts.api.Post("/api/v1/reload")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[ReloadResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, body.Books)
	assert.NotEqual(t, before, body.Revision)
}

func TestReload_MalformedFile(t *testing.T) {
	ts := setupTestServer(t, nil)

	require.NoError(t, os.WriteFile(ts.booksPath, []byte("h\nRayuela,Julio Cortázar,buena,Novela,,0,0\n"), 0o644))

	resp := ts.api.Post("/api/v1/reload")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	body := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "MALFORMED_RECORD", body.Code)
	assert.NotNil(t, body.Details)

	// The previous catalog is still served.
	assert.Len(t, decode[ListBooksResponse](t, ts.api.Get("/api/v1/books").Body.Bytes()).Books, 4)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[APIError](t, resp.Body.Bytes()).Code)
}
