package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMissingAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/missing",
		Summary:     "Missing authors",
		Description: "Returns the listed authors that have no book in the catalog",
		Tags:        []string{"Authors"},
	}, s.handleMissingAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthorCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/{author}/categories",
		Summary:     "Author categories",
		Description: "Returns the categories holding at least one book by exactly this author",
		Tags:        []string{"Authors"},
	}, s.handleAuthorCategories)
}

// MissingAuthorsInput lists the authors to check.
type MissingAuthorsInput struct {
	Authors string `query:"authors" required:"true" doc:"Comma separated author names, matched exactly"`
}

// MissingAuthorsResponse contains the authors with no book.
type MissingAuthorsResponse struct {
	Authors []string `json:"authors" doc:"Authors without any book, sorted"`
}

// MissingAuthorsOutput wraps the missing authors response for Huma.
type MissingAuthorsOutput struct {
	Body MissingAuthorsResponse
}

// AuthorInput addresses an author by exact name.
type AuthorInput struct {
	Author string `path:"author" doc:"Exact author name"`
}

func (s *Server) handleMissingAuthors(_ context.Context, input *MissingAuthorsInput) (*MissingAuthorsOutput, error) {
	return &MissingAuthorsOutput{
		Body: MissingAuthorsResponse{Authors: s.catalog.MissingAuthors(input.Authors)},
	}, nil
}

func (s *Server) handleAuthorCategories(_ context.Context, input *AuthorInput) (*ListCategoriesOutput, error) {
	return &ListCategoriesOutput{
		Body: ListCategoriesResponse{Categories: s.catalog.CategoriesWithAuthor(input.Author)},
	}, nil
}
