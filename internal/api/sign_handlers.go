package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSignRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSigns",
		Method:      http.MethodGet,
		Path:        "/api/v1/signs",
		Summary:     "List available signs",
		Description: "Returns the full sign inventory with gloss labels and categories",
		Tags:        []string{"Signs"},
	}, s.handleListSigns)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchSigns",
		Method:      http.MethodGet,
		Path:        "/api/v1/signs/search",
		Summary:     "Search signs",
		Description: "Full-text search over gloss labels and categories for autocomplete",
		Tags:        []string{"Signs"},
	}, s.handleSearchSigns)
}

// === DTOs ===

// SignEntry is one sign in the inventory listing.
type SignEntry struct {
	Gloss    string  `json:"gloss" doc:"Canonical gloss label"`
	Filename string  `json:"filename" doc:"Source video filename"`
	Category string  `json:"category,omitempty" doc:"Catalog category"`
	Duration float64 `json:"duration,omitempty" doc:"Clip duration in seconds"`
}

// ListSignsResponse contains the sign inventory.
type ListSignsResponse struct {
	Glosses []string    `json:"glosses" doc:"Distinct gloss labels, sorted"`
	Signs   []SignEntry `json:"signs" doc:"Full inventory"`
	Total   int         `json:"total" doc:"Number of catalog entries"`
}

// ListSignsOutput wraps the response for Huma.
type ListSignsOutput struct {
	Body ListSignsResponse
}

// SearchSignsInput contains autocomplete query parameters.
type SearchSignsInput struct {
	Query string `query:"q" maxLength:"200" doc:"Search query"`
	Limit int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
}

// SignHit is one search result.
type SignHit struct {
	Gloss    string  `json:"gloss" doc:"Gloss label"`
	Filename string  `json:"filename" doc:"Source video filename"`
	Category string  `json:"category,omitempty" doc:"Catalog category"`
	Score    float64 `json:"score" doc:"Relevance score"`
}

// SearchSignsResponse contains search results.
type SearchSignsResponse struct {
	Query string    `json:"query" doc:"Original query"`
	Hits  []SignHit `json:"hits" doc:"Matching signs by relevance"`
}

// SearchSignsOutput wraps the response for Huma.
type SearchSignsOutput struct {
	Body SearchSignsResponse
}

// === Handlers ===

func (s *Server) handleListSigns(_ context.Context, _ *struct{}) (*ListSignsOutput, error) {
	entries := s.services.Signs.Entries()

	signs := make([]SignEntry, 0, len(entries))
	for _, entry := range entries {
		signs = append(signs, SignEntry{
			Gloss:    entry.Gloss,
			Filename: entry.SourceFilename,
			Category: entry.Category,
			Duration: entry.Duration,
		})
	}

	return &ListSignsOutput{Body: ListSignsResponse{
		Glosses: s.services.Signs.Glosses(),
		Signs:   signs,
		Total:   len(signs),
	}}, nil
}

func (s *Server) handleSearchSigns(ctx context.Context, input *SearchSignsInput) (*SearchSignsOutput, error) {
	hits, err := s.services.Signs.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("search failed", err)
	}

	results := make([]SignHit, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SignHit{
			Gloss:    hit.Gloss,
			Filename: hit.Filename,
			Category: hit.Category,
			Score:    hit.Score,
		})
	}

	return &SearchSignsOutput{Body: SearchSignsResponse{
		Query: input.Query,
		Hits:  results,
	}}, nil
}
