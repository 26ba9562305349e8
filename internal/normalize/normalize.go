// Package normalize provides text canonicalization for gloss matching.
//
// Every lookup key in the catalog and every piece of matcher input passes
// through Text, so exact-map hits, windowed scans, and fuzzy comparisons
// all operate on the same canonical form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// mediaExtensions are trailing file extensions stripped before normalization.
// Catalog keys are often raw video filenames (e.g. "salut_ca_va.mp4").
//
//nolint:gochecknoglobals // Static lookup table
var mediaExtensions = []string{".mp4", ".mov", ".webm", ".avi", ".mkv"}

// stripMarks decomposes characters (NFD) and removes combining marks,
// turning accented letters into their base form (é -> e) without
// special-casing each letter.
//
//nolint:gochecknoglobals // Transformer chain is stateless and reusable
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Text canonicalizes arbitrary text into the comparable form used by all
// matching components. Steps, in fixed order:
//
//  1. Strip a trailing media-file extension if present.
//  2. Lowercase.
//  3. Unicode canonical decomposition, then removal of combining marks.
//  4. Replace underscore and hyphen separators with spaces.
//  5. Remove every character that is not a lowercase ASCII letter, digit, or space.
//  6. Collapse consecutive whitespace and trim.
//
// The function is pure and total: it never fails, and it is idempotent,
// Text(Text(x)) == Text(x) for all inputs.
func Text(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	for _, ext := range mediaExtensions {
		if strings.HasSuffix(lower, ext) {
			text = text[:len(text)-len(ext)]
			break
		}
	}

	text = strings.ToLower(text)

	if decomposed, _, err := transform.String(stripMarks, text); err == nil {
		text = decomposed
	}

	text = strings.NewReplacer("_", " ", "-", " ").Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
