package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/libreria/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search books",
		Description: "Full-text search over titles, authors and categories, accent-insensitive",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains the search parameters.
type SearchInput struct {
	Query     string  `query:"q" doc:"Free text query"`
	Category  string  `query:"category" doc:"Exact category filter"`
	Fiction   string  `query:"fiction" enum:"true,false" doc:"Restrict to fiction or non-fiction"`
	MinRating float64 `query:"min_rating" minimum:"0" doc:"Minimum rating, inclusive"`
	Limit     int     `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Page size"`
	Offset    int     `query:"offset" minimum:"0" doc:"Results to skip"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body search.Result
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.Params{
		Query:     input.Query,
		Category:  input.Category,
		MinRating: input.MinRating,
		Limit:     input.Limit,
		Offset:    input.Offset,
	}
	if input.Fiction != "" {
		fiction := input.Fiction == "true"
		params.Fiction = &fiction
	}

	result, err := s.catalog.Search(ctx, params)
	if err != nil {
		return nil, apiError(err)
	}
	return &SearchOutput{Body: *result}, nil
}
