// Package search provides full-text lookup over the gloss catalog for
// the autocomplete endpoint.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/fr"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/signbridgeapp/signbridge-server/internal/domain"
)

// Index wraps an in-memory Bleve index over the catalog. The catalog is
// immutable for the process lifetime, so the index is built once at
// startup and never mutated; no locking is needed.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
}

// Hit is one autocomplete result.
type Hit struct {
	Gloss    string  `json:"gloss"`
	Filename string  `json:"filename"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}

// glossDoc is the indexed document shape.
type glossDoc struct {
	Gloss    string `json:"gloss"`
	Category string `json:"category"`
}

// NewIndex builds an in-memory index over the given entries.
func NewIndex(entries []*domain.GlossEntry, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for _, entry := range entries {
		doc := glossDoc{Gloss: entry.Gloss, Category: entry.Category}
		if err := batch.Index(entry.SourceFilename, doc); err != nil {
			return nil, fmt.Errorf("index %s: %w", entry.SourceFilename, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("index batch: %w", err)
	}

	logger.Debug("search index built", slog.Int("documents", len(entries)))

	return &Index{index: index, logger: logger}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = fr.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	glossFieldMapping := bleve.NewTextFieldMapping()
	glossFieldMapping.Analyzer = fr.AnalyzerName
	glossFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("gloss", glossFieldMapping)

	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = fr.AnalyzerName
	categoryFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Close releases index resources.
func (i *Index) Close() error {
	return i.index.Close()
}

// Search runs an autocomplete-style query: exact terms score highest,
// with fuzzy and prefix variants for typo tolerance and partial words.
func (i *Index) Search(ctx context.Context, text string, limit int) ([]Hit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	queries := []query.Query{}

	glossMatch := bleve.NewMatchQuery(text)
	glossMatch.SetField("gloss")
	glossMatch.SetBoost(3.0)
	queries = append(queries, glossMatch)

	categoryMatch := bleve.NewMatchQuery(text)
	categoryMatch.SetField("category")
	queries = append(queries, categoryMatch)

	fuzzyQuery := bleve.NewFuzzyQuery(text)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("gloss")
	fuzzyQuery.SetBoost(0.8)
	queries = append(queries, fuzzyQuery)

	if len(text) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(text))
		prefixQuery.SetField("gloss")
		prefixQuery.SetBoost(0.5)
		queries = append(queries, prefixQuery)
	}

	searchRequest := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), limit, 0, false)
	searchRequest.Fields = []string{"gloss", "category"}

	searchResult, err := i.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		h := Hit{Filename: hit.ID, Score: hit.Score}
		if g, ok := hit.Fields["gloss"].(string); ok {
			h.Gloss = g
		}
		if c, ok := hit.Fields["category"].(string); ok {
			h.Category = c
		}
		hits = append(hits, h)
	}

	return hits, nil
}
