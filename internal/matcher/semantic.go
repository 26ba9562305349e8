package matcher

import (
	"context"
	"log/slog"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/domain"
	"github.com/signbridgeapp/signbridge-server/internal/llm"
	"github.com/signbridgeapp/signbridge-server/internal/normalize"
)

// semanticFuzzyCutoff is looser than the local matcher's cutoff: model
// candidates already carry intent, re-validation only guards against
// hallucinated keys.
const semanticFuzzyCutoff = 0.7

// Semantic resolves text the local matcher gave up on by asking a model
// for gloss candidates and re-validating every candidate against the
// catalog. The model is never trusted to produce paths; only validated
// catalog entries leave this type.
type Semantic struct {
	suggester   llm.Suggester
	catalog     *catalog.Catalog
	mediaExists MediaChecker
	keys        []string
	logger      *slog.Logger
}

// NewSemantic creates a semantic fallback matcher. suggester may be nil,
// in which case Match always returns no results.
func NewSemantic(suggester llm.Suggester, cat *catalog.Catalog, mediaExists MediaChecker, logger *slog.Logger) *Semantic {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Semantic{
		suggester:   suggester,
		catalog:     cat,
		mediaExists: mediaExists,
		keys:        cat.NormalizedKeys(),
		logger:      logger,
	}
}

// Match asks the suggester for candidates and keeps only those that
// survive re-validation. Suggester failures are logged and degrade to an
// empty result; the fallback never fails a translation on its own.
func (s *Semantic) Match(ctx context.Context, text string) []domain.MatchResult {
	if s.suggester == nil {
		return nil
	}

	suggestion, err := s.suggester.Suggest(ctx, text, s.catalog.Glosses())
	if err != nil {
		s.logger.Warn("semantic fallback unavailable", slog.Any("error", err))
		return nil
	}

	results := make([]domain.MatchResult, 0, len(suggestion.Matches))
	for _, cand := range suggestion.Matches {
		entry, kind, ok := s.validate(cand)
		if !ok {
			s.logger.Debug("rejected model candidate",
				slog.String("word", cand.Word),
				slog.String("gloss", cand.GlossMatch),
				slog.String("filename", cand.Filename),
			)
			continue
		}
		results = append(results, domain.MatchResult{
			SourceSpan: cand.Word,
			Entry:      entry,
			Kind:       kind,
		})
	}

	return results
}

// validate re-resolves a model candidate through progressively looser
// catalog lookups: exact filename, exact gloss, normalized gloss, then
// fuzzy over normalized keys.
func (s *Semantic) validate(cand llm.Candidate) (*domain.GlossEntry, domain.MatchKind, bool) {
	if cand.Filename != "" {
		if entry, ok := s.catalog.ByFilename(cand.Filename); ok && s.usable(entry) {
			return entry, domain.MatchLLMFilename, true
		}
	}

	if cand.GlossMatch == "" {
		return nil, "", false
	}

	if entry, ok := s.catalog.ByGloss(cand.GlossMatch); ok && s.usable(entry) {
		return entry, domain.MatchLLMGloss, true
	}

	normGloss := normalize.Text(cand.GlossMatch)
	if entry, ok := s.catalog.ByNormalizedKey(normGloss); ok && s.usable(entry) {
		return entry, domain.MatchLLMNormalized, true
	}

	if entry, ok := s.fuzzyValidate(normGloss); ok {
		return entry, domain.MatchLLMFuzzy, true
	}

	return nil, "", false
}

func (s *Semantic) fuzzyValidate(key string) (*domain.GlossEntry, bool) {
	if key == "" {
		return nil, false
	}

	var best *domain.GlossEntry
	bestScore := semanticFuzzyCutoff

	for _, k := range s.keys {
		score := Similarity(key, k)
		if score > bestScore || (score == bestScore && best == nil) {
			entry, ok := s.catalog.ByNormalizedKey(k)
			if !ok || !s.usable(entry) {
				continue
			}
			best = entry
			bestScore = score
		}
	}

	return best, best != nil
}

func (s *Semantic) usable(entry *domain.GlossEntry) bool {
	if s.mediaExists == nil {
		return true
	}
	return s.mediaExists(entry.MediaPath)
}
