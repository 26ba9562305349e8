package service

import (
	"context"
	"log/slog"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/domain"
	"github.com/signbridgeapp/signbridge-server/internal/search"
)

// SignService exposes the catalog inventory: the gloss list for clients
// that build their own pickers, and full-text search for autocomplete.
type SignService struct {
	catalog *catalog.Catalog
	index   *search.Index
	logger  *slog.Logger
}

// NewSignService creates a sign service. index may be nil, in which case
// Search returns empty results.
func NewSignService(cat *catalog.Catalog, index *search.Index, logger *slog.Logger) *SignService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SignService{catalog: cat, index: index, logger: logger}
}

// Glosses returns every distinct gloss label, sorted.
func (s *SignService) Glosses() []string {
	return s.catalog.Glosses()
}

// Entries returns the full catalog inventory.
func (s *SignService) Entries() []*domain.GlossEntry {
	return s.catalog.Entries()
}

// Search runs an autocomplete query over glosses and categories.
func (s *SignService) Search(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	if s.index == nil {
		return []search.Hit{}, nil
	}
	return s.index.Search(ctx, query, limit)
}
