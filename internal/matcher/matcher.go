// Package matcher resolves normalized text against the sign catalog.
package matcher

import (
	"log/slog"
	"strings"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/domain"
	"github.com/signbridgeapp/signbridge-server/internal/normalize"
)

const (
	// maxWindow caps how many consecutive words a phrase lookup may span.
	maxWindow = 4
	// fuzzyCutoff is the minimum similarity for an approximate single-word
	// match.
	fuzzyCutoff = 0.8
)

// MediaChecker reports whether an entry's media file is usable. Entries
// whose media fails the check are skipped as if absent from the catalog.
type MediaChecker func(path string) bool

// Local resolves text deterministically against catalog keys: exact
// full phrase first, then a greedy left-to-right windowed scan, then a
// per-word fuzzy pass. No network, no model calls.
type Local struct {
	catalog     *catalog.Catalog
	mediaExists MediaChecker
	keys        []string // normalized keys, sorted, cached at construction
	logger      *slog.Logger
}

// NewLocal creates a local matcher. mediaExists may be nil to skip the
// media filter (useful in tests).
func NewLocal(cat *catalog.Catalog, mediaExists MediaChecker, logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Local{
		catalog:     cat,
		mediaExists: mediaExists,
		keys:        cat.NormalizedKeys(),
		logger:      logger,
	}
}

// Match resolves the input text into an ordered sequence of match
// results, one per consumed span. Unresolved words come back with a nil
// entry so the caller can decide on fallback. The scan is greedy and
// never backtracks: once a window is consumed, later words cannot
// reclaim it.
func (m *Local) Match(text string) []domain.MatchResult {
	normalized := normalize.Text(text)
	if normalized == "" {
		return nil
	}

	// Whole input as a single catalog key.
	if entry, ok := m.lookup(normalized); ok {
		return []domain.MatchResult{{
			SourceSpan: normalized,
			Entry:      entry,
			Kind:       domain.MatchFullPhrase,
		}}
	}

	words := strings.Fields(normalized)
	results := make([]domain.MatchResult, 0, len(words))

	for i := 0; i < len(words); {
		consumed := false

		// Longest window first so multi-word idioms beat their parts.
		for size := min(maxWindow, len(words)-i); size >= 1; size-- {
			span := strings.Join(words[i:i+size], " ")
			entry, ok := m.lookup(span)
			if !ok {
				continue
			}

			results = append(results, domain.MatchResult{
				SourceSpan: span,
				Entry:      entry,
				Kind:       domain.MatchWindowedPhrase,
			})
			i += size
			consumed = true
			break
		}
		if consumed {
			continue
		}

		word := words[i]
		if entry, ok := m.fuzzyLookup(word, fuzzyCutoff); ok {
			results = append(results, domain.MatchResult{
				SourceSpan: word,
				Entry:      entry,
				Kind:       domain.MatchFuzzy,
			})
		} else {
			results = append(results, domain.MatchResult{SourceSpan: word})
		}
		i++
	}

	return results
}

// lookup resolves a normalized key to a usable catalog entry.
func (m *Local) lookup(key string) (*domain.GlossEntry, bool) {
	entry, ok := m.catalog.ByNormalizedKey(key)
	if !ok || !m.usable(entry) {
		return nil, false
	}
	return entry, true
}

// fuzzyLookup scans every catalog key for the best similarity at or above
// cutoff. Keys are visited in sorted order, so ties resolve to the
// lexicographically smallest key on every run.
func (m *Local) fuzzyLookup(word string, cutoff float64) (*domain.GlossEntry, bool) {
	var best *domain.GlossEntry
	bestScore := cutoff

	for _, key := range m.keys {
		score := Similarity(word, key)
		if score > bestScore || (score == bestScore && best == nil) {
			entry, ok := m.catalog.ByNormalizedKey(key)
			if !ok || !m.usable(entry) {
				continue
			}
			best = entry
			bestScore = score
		}
	}

	if best == nil {
		return nil, false
	}

	m.logger.Debug("fuzzy match",
		slog.String("word", word),
		slog.String("gloss", best.Gloss),
		slog.Float64("score", bestScore),
	)
	return best, true
}

func (m *Local) usable(entry *domain.GlossEntry) bool {
	if m.mediaExists == nil {
		return true
	}
	return m.mediaExists(entry.MediaPath)
}
