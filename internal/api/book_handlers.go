package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/libreria/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns every book, or the books whose author contains the author query (case-insensitive)",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookByTitle",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{title}",
		Summary:     "Get book by title",
		Description: "Returns the first book with this exact title",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBooksByAuthors",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books",
		Summary:     "Delete books by authors",
		Description: "Removes every book whose author exactly matches one of the comma separated names",
		Tags:        []string{"Books"},
		Middlewares: huma.Middlewares{s.rateLimitMutations},
	}, s.handleDeleteBooks)
}

// === DTOs ===

// ListBooksInput filters the book list.
type ListBooksInput struct {
	Author string `query:"author" doc:"Case-insensitive substring of the author"`
}

// GetBookInput addresses a book by title.
type GetBookInput struct {
	Title string `path:"title" doc:"Exact book title"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body service.BookView
}

// DeleteBooksInput lists the authors whose books are removed.
type DeleteBooksInput struct {
	Authors string `query:"authors" required:"true" minLength:"1" doc:"Comma separated author names, matched exactly"`
}

// DeleteBooksResponse reports how many books were removed.
type DeleteBooksResponse struct {
	Removed  int    `json:"removed" doc:"Number of books removed"`
	Revision string `json:"revision" doc:"Catalog revision after the deletion"`
}

// DeleteBooksOutput wraps the deletion response for Huma.
type DeleteBooksOutput struct {
	Body DeleteBooksResponse
}

// === Handlers ===

func (s *Server) handleListBooks(_ context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	var books []service.BookView
	if input.Author == "" {
		books = s.catalog.Books()
	} else {
		books = s.catalog.FindBooksByAuthor(input.Author)
	}
	return &ListBooksOutput{Body: ListBooksResponse{Books: books}}, nil
}

func (s *Server) handleGetBook(_ context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.catalog.FindBookByTitle(input.Title)
	if err != nil {
		return nil, apiError(err)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBooks(ctx context.Context, input *DeleteBooksInput) (*DeleteBooksOutput, error) {
	removed, err := s.catalog.DeleteBooksByAuthors(ctx, input.Authors)
	if err != nil {
		return nil, apiError(err)
	}
	return &DeleteBooksOutput{
		Body: DeleteBooksResponse{Removed: removed, Revision: s.catalog.Revision()},
	}, nil
}
