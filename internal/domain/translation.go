package domain

// TranslationStage tracks where a request is in the pipeline. The flow is
// a strict linear state machine with no retries or loops:
//
//	NORMALIZING -> LOCAL_MATCHING -> {RESOLVED | SEMANTIC_FALLBACK}
//	            -> {COMPOSING | FALLBACK_TEXT_ONLY} -> DONE
type TranslationStage string

const (
	StageNormalizing      TranslationStage = "normalizing"
	StageLocalMatching    TranslationStage = "local_matching"
	StageSemanticFallback TranslationStage = "semantic_fallback"
	StageResolved         TranslationStage = "resolved"
	StageComposing        TranslationStage = "composing"
	StageFallbackTextOnly TranslationStage = "fallback_text_only"
	StageDone             TranslationStage = "done"
)

// TranslationResult is what a translation request produces. Given the same
// input and the same catalog snapshot, every terminal outcome is idempotent.
type TranslationResult struct {
	// MediaPath is the composed artifact location; empty unless at least
	// one entry resolved and composition succeeded.
	MediaPath string `json:"media_path,omitempty"`
	// ArtifactID is the opaque retrieval identifier registered for
	// MediaPath; empty whenever MediaPath is empty.
	ArtifactID string `json:"artifact_id,omitempty"`
	// Glosses are the resolved gloss labels in input order; may be empty.
	Glosses []string `json:"glosses"`
	// Matches carries the full per-span resolution detail.
	Matches []MatchResult `json:"matches,omitempty"`
	// FallbackMode is true when no playable artifact was produced and the
	// caller should render the glosses as text.
	FallbackMode bool `json:"fallback_mode"`
	// Error describes a composition failure or total non-match.
	Error string `json:"error,omitempty"`
}
