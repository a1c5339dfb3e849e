package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/libreria/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns every category in catalog order, implicit ones last",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{name}",
		Summary:     "Get category",
		Description: "Returns the first category with this exact name",
		Tags:        []string{"Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{name}/books",
		Summary:     "List category books",
		Description: "Returns the books of a category; empty for an unknown category",
		Tags:        []string{"Categories"},
	}, s.handleGetCategoryBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/categories/{name}",
		Summary:     "Rename category",
		Description: "Renames a category. Every book is rebuilt, so book IDs change.",
		Tags:        []string{"Categories"},
		Middlewares: huma.Middlewares{s.rateLimitMutations},
	}, s.handleRenameCategory)
}

// === DTOs ===

// CategoryNameInput addresses a category by name.
type CategoryNameInput struct {
	Name string `path:"name" doc:"Exact category name"`
}

// ListCategoriesResponse contains a list of categories.
type ListCategoriesResponse struct {
	Categories []service.CategoryView `json:"categories" doc:"Categories"`
}

// ListCategoriesOutput wraps the list categories response for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// CategoryOutput wraps a single category for Huma.
type CategoryOutput struct {
	Body service.CategoryView
}

// ListBooksResponse contains a list of books.
type ListBooksResponse struct {
	Books []service.BookView `json:"books" doc:"Books"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// RenameCategoryRequest is the request body for renaming a category.
type RenameCategoryRequest struct {
	Name string `json:"name" minLength:"1" maxLength:"200" doc:"New category name"`
}

// RenameCategoryInput wraps the rename request for Huma.
type RenameCategoryInput struct {
	Name string `path:"name" doc:"Current category name"`
	Body RenameCategoryRequest
}

// === Handlers ===

func (s *Server) handleListCategories(_ context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	return &ListCategoriesOutput{
		Body: ListCategoriesResponse{Categories: s.catalog.Categories()},
	}, nil
}

func (s *Server) handleGetCategory(_ context.Context, input *CategoryNameInput) (*CategoryOutput, error) {
	category, err := s.catalog.Category(input.Name)
	if err != nil {
		return nil, apiError(err)
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleGetCategoryBooks(_ context.Context, input *CategoryNameInput) (*ListBooksOutput, error) {
	return &ListBooksOutput{
		Body: ListBooksResponse{Books: s.catalog.BooksInCategory(input.Name)},
	}, nil
}

func (s *Server) handleRenameCategory(ctx context.Context, input *RenameCategoryInput) (*CategoryOutput, error) {
	category, err := s.catalog.RenameCategory(ctx, input.Name, input.Body.Name)
	if err != nil {
		return nil, apiError(err)
	}
	s.logger.Info("category renamed via API", "from", input.Name, "to", category.Name)
	return &CategoryOutput{Body: category}, nil
}
