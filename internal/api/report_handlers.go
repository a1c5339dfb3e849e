package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/libreria/internal/catalog"
	"github.com/listenupapp/libreria/internal/service"
)

func (s *Server) registerReportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Catalog statistics",
		Description: "Returns averages, leading categories and cover counts",
		Tags:        []string{"Reports"},
	}, s.handleGetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAddedCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/report/added",
		Summary:     "Added categories",
		Description: "Returns the categories created implicitly by the last load",
		Tags:        []string{"Reports"},
	}, s.handleGetAddedCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "auditCovers",
		Method:      http.MethodGet,
		Path:        "/api/v1/covers/audit",
		Summary:     "Audit covers",
		Description: "Probes every attached cover and compares it with the declared dimensions",
		Tags:        []string{"Reports"},
	}, s.handleAuditCovers)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadCatalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/reload",
		Summary:     "Reload catalog",
		Description: "Reads both data files again. A failed reload keeps the current catalog.",
		Tags:        []string{"Reports"},
		Middlewares: huma.Middlewares{s.rateLimitMutations},
	}, s.handleReload)
}

// StatsOutput wraps the statistics for Huma.
type StatsOutput struct {
	Body service.Stats
}

// AddedCategoriesResponse lists the implicit categories.
type AddedCategoriesResponse struct {
	Categories []catalog.AddedCategory `json:"categories" doc:"Implicit categories with their book counts at load time"`
}

// AddedCategoriesOutput wraps the added categories for Huma.
type AddedCategoriesOutput struct {
	Body AddedCategoriesResponse
}

// CoverAuditOutput wraps the audit report for Huma.
type CoverAuditOutput struct {
	Body service.CoverAuditReport
}

// ReloadResponse describes the catalog after a reload.
type ReloadResponse struct {
	Revision   string `json:"revision" doc:"New catalog revision"`
	Categories int    `json:"categories" doc:"Number of categories"`
	Books      int    `json:"books" doc:"Number of books"`
}

// ReloadOutput wraps the reload response for Huma.
type ReloadOutput struct {
	Body ReloadResponse
}

func (s *Server) handleGetStats(_ context.Context, _ *struct{}) (*StatsOutput, error) {
	return &StatsOutput{Body: s.catalog.Stats()}, nil
}

func (s *Server) handleGetAddedCategories(_ context.Context, _ *struct{}) (*AddedCategoriesOutput, error) {
	return &AddedCategoriesOutput{
		Body: AddedCategoriesResponse{Categories: s.catalog.AddedCategoryReport()},
	}, nil
}

func (s *Server) handleAuditCovers(ctx context.Context, _ *struct{}) (*CoverAuditOutput, error) {
	report, err := s.catalog.AuditCovers(ctx)
	if err != nil {
		return nil, apiError(err)
	}
	return &CoverAuditOutput{Body: *report}, nil
}

func (s *Server) handleReload(ctx context.Context, _ *struct{}) (*ReloadOutput, error) {
	if err := s.catalog.Reload(ctx); err != nil {
		return nil, apiError(err)
	}
	stats := s.catalog.Stats()
	return &ReloadOutput{
		Body: ReloadResponse{
			Revision:   stats.Revision,
			Categories: stats.Categories,
			Books:      stats.Books,
		},
	}, nil
}
