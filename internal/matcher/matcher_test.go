package matcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signbridgeapp/signbridge-server/internal/catalog"
	"github.com/signbridgeapp/signbridge-server/internal/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	reg := &catalog.Registry{Videos: map[string]catalog.RegistryEntry{
		"bonjour.mp4":     {Gloss: "bonjour", FullPath: "/videos/bonjour.mp4"},
		"merci.mp4":       {Gloss: "merci", FullPath: "/videos/merci.mp4"},
		"salut_ca_va.mp4": {Gloss: "salut ca va", FullPath: "/videos/salut_ca_va.mp4"},
		"ca_va.mp4":       {Gloss: "ca va", FullPath: "/videos/ca_va.mp4"},
		"manger.mp4":      {Gloss: "manger", FullPath: "/videos/manger.mp4"},
	}}

	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, reg.Write(path))

	cat, err := catalog.Load(path, "", nil)
	require.NoError(t, err)
	return cat
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "bonjour", "bonjour", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "", "abc", 0.0},
		{"transposition is one edit", "bonjuor", "bonjour", 1.0 - 1.0/7.0},
		{"substitution", "merci", "marci", 1.0 - 1.0/5.0},
		{"disjoint", "abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 0.0001)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	assert.InDelta(t, Similarity("bonjuor", "bonjour"), Similarity("bonjour", "bonjuor"), 0.0001)
}

func TestMatchFullPhrase(t *testing.T) {
	m := NewLocal(testCatalog(t), nil, nil)

	results := m.Match("Salut, ça va ?")
	require.Len(t, results, 1)
	assert.Equal(t, "salut ca va", results[0].SourceSpan)
	assert.Equal(t, domain.MatchFullPhrase, results[0].Kind)
	assert.Equal(t, "salut ca va", results[0].Entry.Gloss)
}

func TestMatchPerWord(t *testing.T) {
	m := NewLocal(testCatalog(t), nil, nil)

	results := m.Match("Bonjour merci")
	require.Len(t, results, 2)
	assert.Equal(t, "bonjour", results[0].Entry.Gloss)
	assert.Equal(t, domain.MatchWindowedPhrase, results[0].Kind)
	assert.Equal(t, "merci", results[1].Entry.Gloss)
}

func TestMatchWindowPrefersLongestSpan(t *testing.T) {
	m := NewLocal(testCatalog(t), nil, nil)

	// "ca va" exists as a two-word key and must win over the per-word scan.
	results := m.Match("bonjour ça va manger")
	require.Len(t, results, 3)
	assert.Equal(t, "bonjour", results[0].Entry.Gloss)
	assert.Equal(t, "ca va", results[1].SourceSpan)
	assert.Equal(t, "ca va", results[1].Entry.Gloss)
	assert.Equal(t, domain.MatchWindowedPhrase, results[1].Kind)
	assert.Equal(t, "manger", results[2].Entry.Gloss)
}

func TestMatchFuzzyTypo(t *testing.T) {
	m := NewLocal(testCatalog(t), nil, nil)

	results := m.Match("bonjuor")
	require.Len(t, results, 1)
	require.True(t, results[0].Resolved())
	assert.Equal(t, "bonjour", results[0].Entry.Gloss)
	assert.Equal(t, domain.MatchFuzzy, results[0].Kind)
	assert.Equal(t, "bonjuor", results[0].SourceSpan)
}

func TestMatchFuzzyBelowCutoff(t *testing.T) {
	m := NewLocal(testCatalog(t), nil, nil)

	// Nothing in the catalog is close enough to either word.
	results := m.Match("j'ai mal")
	require.Len(t, results, 2)
	assert.False(t, results[0].Resolved())
	assert.Equal(t, "jai", results[0].SourceSpan)
	assert.False(t, results[1].Resolved())
	assert.Equal(t, "mal", results[1].SourceSpan)
	assert.Equal(t, domain.MatchKind(""), results[1].Kind)
}

func TestMatchMixedResolvedUnresolved(t *testing.T) {
	m := NewLocal(testCatalog(t), nil, nil)

	results := m.Match("bonjour xylophone")
	require.Len(t, results, 2)
	assert.True(t, results[0].Resolved())
	assert.False(t, results[1].Resolved())
	assert.Equal(t, "xylophone", results[1].SourceSpan)
}

func TestMatchEmptyInput(t *testing.T) {
	m := NewLocal(testCatalog(t), nil, nil)

	assert.Nil(t, m.Match(""))
	assert.Nil(t, m.Match("   !!! ,,,"))
}

func TestMatchSkipsMissingMedia(t *testing.T) {
	missing := func(path string) bool {
		return path != "/videos/bonjour.mp4"
	}
	m := NewLocal(testCatalog(t), missing, nil)

	results := m.Match("bonjour merci")
	require.Len(t, results, 2)
	assert.False(t, results[0].Resolved())
	assert.True(t, results[1].Resolved())
	assert.Equal(t, "merci", results[1].Entry.Gloss)
}

func TestMatchEveryCatalogGlossRoundTrips(t *testing.T) {
	cat := testCatalog(t)
	m := NewLocal(cat, nil, nil)

	for _, entry := range cat.Entries() {
		results := m.Match(entry.Gloss)
		require.NotEmpty(t, results, "gloss %q", entry.Gloss)
		assert.True(t, results[0].Resolved(), "gloss %q", entry.Gloss)
		assert.Equal(t, entry.Gloss, results[0].Entry.Gloss)
	}
}
