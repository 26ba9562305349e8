package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/signbridgeapp/signbridge-server/internal/domain"
	"github.com/signbridgeapp/signbridge-server/internal/errors"
)

func (s *Server) registerTranslateRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "translateText",
		Method:      http.MethodPost,
		Path:        "/api/v1/translate",
		Summary:     "Translate text to sign video",
		Description: "Resolves French text against the sign catalog and composes the matching clips into one video. When no playable video can be produced, fallback_mode is set and the glosses should be rendered as text.",
		Tags:        []string{"Translation"},
	}, s.handleTranslate)
}

// === DTOs ===

// TranslateRequest is the translation input.
type TranslateRequest struct {
	Text string `json:"text" maxLength:"500" doc:"Text to translate"`
}

// TranslateInput wraps the request body for Huma.
type TranslateInput struct {
	Body TranslateRequest
}

// SpanMatch describes how one span of input was resolved.
type SpanMatch struct {
	SourceSpan string `json:"source_span" doc:"Input word or phrase consumed"`
	Gloss      string `json:"gloss,omitempty" doc:"Resolved gloss label; empty when unresolved"`
	Kind       string `json:"kind,omitempty" doc:"Match strategy that resolved the span"`
}

// TranslateResponse is the translation outcome.
type TranslateResponse struct {
	ArtifactID   string      `json:"artifact_id,omitempty" doc:"Opaque ID of the composed video"`
	VideoURL     string      `json:"video_url,omitempty" doc:"Relative URL the composed video can be fetched from"`
	Glosses      []string    `json:"glosses" doc:"Resolved gloss labels in input order"`
	Matches      []SpanMatch `json:"matches,omitempty" doc:"Per-span resolution detail"`
	FallbackMode bool        `json:"fallback_mode" doc:"True when no video was produced and glosses should be shown as text"`
	Error        string      `json:"error,omitempty" doc:"Why no video was produced"`
}

// TranslateOutput wraps the response for Huma.
type TranslateOutput struct {
	Body TranslateResponse
}

// === Handlers ===

func (s *Server) handleTranslate(ctx context.Context, input *TranslateInput) (*TranslateOutput, error) {
	if strings.TrimSpace(input.Body.Text) == "" {
		return nil, huma.Error400BadRequest("text is required", errors.InvalidInput("text is required"))
	}

	result, err := s.services.Translation.Translate(ctx, input.Body.Text)
	if err != nil {
		return nil, huma.Error400BadRequest("translation failed", err)
	}

	resp := TranslateResponse{
		ArtifactID:   result.ArtifactID,
		Glosses:      result.Glosses,
		Matches:      toSpanMatches(result.Matches),
		FallbackMode: result.FallbackMode,
		Error:        result.Error,
	}
	if result.ArtifactID != "" {
		resp.VideoURL = "/api/v1/videos/" + result.ArtifactID
	}

	return &TranslateOutput{Body: resp}, nil
}

func toSpanMatches(matches []domain.MatchResult) []SpanMatch {
	spans := make([]SpanMatch, 0, len(matches))
	for _, m := range matches {
		span := SpanMatch{
			SourceSpan: m.SourceSpan,
			Kind:       string(m.Kind),
		}
		if m.Resolved() {
			span.Gloss = m.Entry.Gloss
		}
		spans = append(spans, span)
	}
	return spans
}
