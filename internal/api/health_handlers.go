package api

import (
	"context"
	"net/http"
	"os"
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
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	catalogHealth := s.checkCatalog()
	components["catalog"] = catalogHealth
	if catalogHealth.Status == "unhealthy" {
		overall = "unhealthy"
	} else if catalogHealth.Status == "degraded" {
		overall = "degraded"
	}

	searchHealth := s.checkSearchIndex(ctx)
	components["search"] = searchHealth
	if searchHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	compositorHealth := s.checkCompositor()
	components["compositor"] = compositorHealth
	if compositorHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	components["llm"] = s.checkSemantic()
	components["artifacts"] = s.checkArtifacts()

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCatalog verifies the sign catalog is loaded and non-trivial.
func (s *Server) checkCatalog() ComponentHealth {
	if s.services == nil || s.services.Signs == nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Message: "catalog not configured",
		}
	}

	total := len(s.services.Signs.Entries())
	if total == 0 {
		return ComponentHealth{
			Status:  "degraded",
			Message: "catalog is empty",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Message: strconv.Itoa(total) + " signs loaded",
	}
}

// checkSearchIndex verifies the autocomplete index answers queries.
func (s *Server) checkSearchIndex(ctx context.Context) ComponentHealth {
	if s.services == nil || s.services.Signs == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "search not configured",
		}
	}

	start := time.Now()
	_, err := s.services.Signs.Search(ctx, "healthcheck", 1)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "degraded",
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkCompositor verifies the scratch directory is still a writable
// target for composed artifacts.
func (s *Server) checkCompositor() ComponentHealth {
	if s.scratchPath == "" {
		return ComponentHealth{
			Status:  "degraded",
			Message: "scratch path not configured",
		}
	}

	info, err := os.Stat(s.scratchPath)
	if err != nil || !info.IsDir() {
		return ComponentHealth{
			Status:  "degraded",
			Message: "scratch directory unavailable",
		}
	}

	return ComponentHealth{Status: "healthy"}
}

// checkSemantic reports whether the LLM fallback is in play. Disabled is
// a valid configuration, not a failure.
func (s *Server) checkSemantic() ComponentHealth {
	if !s.semanticEnabled {
		return ComponentHealth{
			Status:  "healthy",
			Message: "fallback disabled",
		}
	}
	return ComponentHealth{
		Status:  "healthy",
		Message: "fallback configured",
	}
}

// checkArtifacts reports cache occupancy. The cache cannot really fail;
// the count is operational visibility.
func (s *Server) checkArtifacts() ComponentHealth {
	if s.services == nil || s.services.Artifacts == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "artifact cache not configured",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Message: strconv.Itoa(s.services.Artifacts.Len()) + " live artifacts",
	}
}
