package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health with catalog and search status",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Revision   string                     `json:"revision" doc:"Current catalog revision"`
	Uptime     string                     `json:"uptime" doc:"Time since the server started"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	stats := s.catalog.Stats()
	components := map[string]ComponentHealth{
		"catalog": {Status: "healthy", Message: formatCount(stats.Books, "book")},
	}
	overall := "healthy"

	search := s.checkSearchIndex(stats.Books)
	components["search"] = search
	if search.Status != "healthy" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Revision:   stats.Revision,
			Uptime:     time.Since(s.startedAt).Round(time.Second).String(),
			Components: components,
		},
	}, nil
}

// checkSearchIndex compares the index size with the catalog size.
func (s *Server) checkSearchIndex(books int) ComponentHealth {
	indexed, err := s.catalog.IndexedDocuments()
	if err != nil {
		return ComponentHealth{Status: "degraded", Message: err.Error()}
	}
	if indexed != uint64(books) {
		return ComponentHealth{Status: "degraded", Message: "search index out of date"}
	}
	return ComponentHealth{Status: "healthy", Message: formatCount(books, "document")}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
