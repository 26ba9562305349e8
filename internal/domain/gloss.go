// Package domain defines the core types shared across the translation pipeline.
package domain

// GlossEntry is one sign in the catalog: a canonical text label tied to a
// pre-recorded video clip. Entries are immutable after catalog load.
type GlossEntry struct {
	// Gloss is the canonical display label for the sign, derived from its
	// source filename (e.g. "salut ça va").
	Gloss string `json:"gloss"`
	// SourceFilename is the original registry key used for filename-based
	// lookup (e.g. "salut_ca_va.mp4").
	SourceFilename string `json:"source_filename"`
	// MediaPath is the resolved location of the video asset.
	MediaPath string `json:"media_path"`
	// Duration of the clip in seconds, when known. Informational only.
	Duration float64 `json:"duration,omitempty"`
	// Category groups entries by their source subdirectory, when known.
	Category string `json:"category,omitempty"`
}

// MatchKind identifies which strategy resolved a span of input.
type MatchKind string

const (
	// MatchFullPhrase means the whole normalized input hit a catalog key.
	MatchFullPhrase MatchKind = "full-phrase"
	// MatchWindowedPhrase means a multi-word window hit a catalog key.
	MatchWindowedPhrase MatchKind = "windowed-phrase"
	// MatchFuzzy means a single word matched a key approximately.
	MatchFuzzy MatchKind = "fuzzy"

	// Semantic fallback kinds record which re-validation step accepted an
	// LLM candidate.
	MatchLLMFilename   MatchKind = "llm-filename"
	MatchLLMGloss      MatchKind = "llm-gloss"
	MatchLLMNormalized MatchKind = "llm-normalized"
	MatchLLMFuzzy      MatchKind = "llm-fuzzy"
)

// MatchResult is one resolved (or unresolved) unit of input.
type MatchResult struct {
	// SourceSpan is the original word or phrase consumed from the input.
	SourceSpan string `json:"source_span"`
	// Entry is the catalog entry chosen; nil means the span is unmapped.
	Entry *GlossEntry `json:"entry,omitempty"`
	// Kind records which strategy produced the match.
	Kind MatchKind `json:"kind,omitempty"`
}

// Resolved reports whether the span mapped to a catalog entry.
func (m MatchResult) Resolved() bool {
	return m.Entry != nil
}

// ResolvedEntries filters a match sequence down to the resolved entries,
// preserving input order.
func ResolvedEntries(matches []MatchResult) []*GlossEntry {
	entries := make([]*GlossEntry, 0, len(matches))
	for _, m := range matches {
		if m.Resolved() {
			entries = append(entries, m.Entry)
		}
	}
	return entries
}
