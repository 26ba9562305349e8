package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/signbridgeapp/signbridge-server/internal/compositor"
	"github.com/signbridgeapp/signbridge-server/internal/domain"
	"github.com/signbridgeapp/signbridge-server/internal/errors"
	"github.com/signbridgeapp/signbridge-server/internal/matcher"
	"github.com/signbridgeapp/signbridge-server/internal/normalize"
)

// TranslationService runs the text-to-sign pipeline: normalize the
// input, resolve it against the catalog, optionally consult the semantic
// fallback, and compose the resolved clips into one artifact.
//
// The pipeline is a strict linear pass. The only hard failures are an
// unusable catalog (checked at boot) and empty input; everything else
// degrades to a glosses-only result the caller can render as text.
type TranslationService struct {
	local      *matcher.Local
	semantic   *matcher.Semantic
	compositor compositor.Compositor
	artifacts  *ArtifactCache
	logger     *slog.Logger
}

// NewTranslationService wires the pipeline. semantic may be nil when the
// fallback is disabled.
func NewTranslationService(
	local *matcher.Local,
	semantic *matcher.Semantic,
	comp compositor.Compositor,
	artifacts *ArtifactCache,
	logger *slog.Logger,
) *TranslationService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TranslationService{
		local:      local,
		semantic:   semantic,
		compositor: comp,
		artifacts:  artifacts,
		logger:     logger,
	}
}

// Translate runs the full pipeline for one input text.
//
// Returns InvalidInput when the text normalizes to nothing. Otherwise it
// always returns a result: FallbackMode is set when no playable artifact
// could be produced, with Glosses still carrying whatever resolved.
func (s *TranslationService) Translate(ctx context.Context, text string) (*domain.TranslationResult, error) {
	start := time.Now()

	normalized := normalize.Text(text)
	if normalized == "" {
		return nil, errors.InvalidInput("text is empty after normalization")
	}

	stage := domain.StageLocalMatching
	matches := s.local.Match(text)
	entries := domain.ResolvedEntries(matches)

	// The fallback is all-or-nothing: it fires only when local matching
	// resolved nothing at all, and then the whole original text goes to
	// the model. Partially resolved inputs stay with the local result;
	// per-word fallback would let the model override spans the catalog
	// already answered.
	if len(entries) == 0 {
		if s.semantic != nil {
			stage = domain.StageSemanticFallback
			if semanticMatches := s.semantic.Match(ctx, text); len(semanticMatches) > 0 {
				matches = semanticMatches
				entries = domain.ResolvedEntries(matches)
			}
		}
	} else {
		stage = domain.StageResolved
	}

	result := &domain.TranslationResult{
		Glosses: glossLabels(entries),
		Matches: matches,
	}

	if len(entries) == 0 {
		stage = domain.StageFallbackTextOnly
		result.FallbackMode = true
		result.Error = "no matches"
		s.logResult(text, stage, result, start)
		return result, nil
	}

	stage = domain.StageComposing
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.MediaPath)
	}

	mediaPath, err := s.compositor.Compose(ctx, paths)
	if err != nil {
		// Composition failure downgrades to text-only; the glosses are
		// still useful to the caller.
		stage = domain.StageFallbackTextOnly
		result.FallbackMode = true
		result.Error = err.Error()
		s.logger.Error("composition failed",
			slog.Int("clips", len(paths)),
			slog.Any("error", err),
		)
		s.logResult(text, stage, result, start)
		return result, nil
	}

	result.MediaPath = mediaPath
	// Multi-clip outputs live in the scratch directory and belong to the
	// cache; a single clip passes through untouched and must never be
	// deleted from the catalog.
	result.ArtifactID = s.artifacts.Put(mediaPath, len(paths) > 1)

	stage = domain.StageDone
	s.logResult(text, stage, result, start)
	return result, nil
}

func (s *TranslationService) logResult(text string, stage domain.TranslationStage, result *domain.TranslationResult, start time.Time) {
	s.logger.Info("translation finished",
		slog.String("stage", string(stage)),
		slog.Int("input_words", len(strings.Fields(text))),
		slog.Int("glosses", len(result.Glosses)),
		slog.Bool("fallback_mode", result.FallbackMode),
		slog.Duration("took", time.Since(start)),
	)
}

func glossLabels(entries []*domain.GlossEntry) []string {
	labels := make([]string, 0, len(entries))
	for _, entry := range entries {
		labels = append(labels, entry.Gloss)
	}
	return labels
}
