package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signbridgeapp/signbridge-server/internal/errors"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return &Registry{
		Metadata: RegistryMetadata{RootDir: "/videos", TotalVideos: 3},
		Videos: map[string]RegistryEntry{
			"bonjour.mp4": {
				Gloss:    "bonjour",
				FullPath: "/videos/salutations/bonjour.mp4",
				Duration: 1.8,
				Category: "salutations",
			},
			"ça_va.mp4": {
				Gloss:    "ca va",
				FullPath: "/videos/salutations/ça_va.mp4",
				Category: "salutations",
			},
			"merci.mp4": {
				Gloss:    "merci",
				FullPath: "/videos/politesse/merci.mp4",
				Category: "politesse",
			},
		},
	}
}

func writeRegistry(t *testing.T, reg *Registry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, reg.Write(path))
	return path
}

func TestLoadRoundTrip(t *testing.T) {
	path := writeRegistry(t, testRegistry(t))

	cat, err := Load(path, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())

	entry, ok := cat.ByFilename("bonjour.mp4")
	require.True(t, ok)
	assert.Equal(t, "bonjour", entry.Gloss)
	assert.Equal(t, "/videos/salutations/bonjour.mp4", entry.MediaPath)
	assert.InDelta(t, 1.8, entry.Duration, 0.001)
	assert.Equal(t, "salutations", entry.Category)
}

func TestLoadMissingRegistry(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCatalogUnavailable))
}

func TestEntryReachableByAllKeys(t *testing.T) {
	cat, err := Load(writeRegistry(t, testRegistry(t)), "", nil)
	require.NoError(t, err)

	byFile, ok := cat.ByFilename("ça_va.mp4")
	require.True(t, ok)

	byGloss, ok := cat.ByGloss("ca va")
	require.True(t, ok)
	assert.Same(t, byFile, byGloss)

	// Normalized gloss and normalized filename resolve to the same entry.
	byNorm, ok := cat.ByNormalizedKey("ca va")
	require.True(t, ok)
	assert.Same(t, byFile, byNorm)
}

func TestGlossesSortedDeduped(t *testing.T) {
	reg := testRegistry(t)
	reg.Videos["bonjour_2.mp4"] = RegistryEntry{
		Gloss:    "bonjour",
		FullPath: "/videos/salutations/bonjour_2.mp4",
	}

	cat, err := Load(writeRegistry(t, reg), "", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"bonjour", "ca va", "merci"}, cat.Glosses())
}

func TestNormalizedCollisionKeepsLater(t *testing.T) {
	reg := &Registry{Videos: map[string]RegistryEntry{
		"Bonjour.mp4": {Gloss: "Bonjour", FullPath: "/videos/Bonjour.mp4"},
		"bonjour.mp4": {Gloss: "bonjour", FullPath: "/videos/bonjour.mp4"},
	}}

	cat, err := Load(writeRegistry(t, reg), "", nil)
	require.NoError(t, err)

	// Lexicographic insertion order: "Bonjour.mp4" first, so the
	// lowercase file wins the normalized key.
	entry, ok := cat.ByNormalizedKey("bonjour")
	require.True(t, ok)
	assert.Equal(t, "bonjour.mp4", entry.SourceFilename)

	require.NotEmpty(t, cat.Collisions())
	col := cat.Collisions()[0]
	assert.Equal(t, "bonjour", col.Key)
	assert.Equal(t, "bonjour.mp4", col.Kept)
	assert.Equal(t, "Bonjour.mp4", col.Shadowed)

	// Both raw filename keys still work.
	_, ok = cat.ByFilename("Bonjour.mp4")
	assert.True(t, ok)
	_, ok = cat.ByFilename("bonjour.mp4")
	assert.True(t, ok)
}

func TestLoadSkipsInvalidEntries(t *testing.T) {
	reg := testRegistry(t)
	reg.Videos["broken.mp4"] = RegistryEntry{Gloss: "", FullPath: ""}
	reg.Videos["negative.mp4"] = RegistryEntry{Gloss: "negative", FullPath: "/videos/negative.mp4", Duration: -1}

	cat, err := Load(writeRegistry(t, reg), "", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())
	_, ok := cat.ByFilename("broken.mp4")
	assert.False(t, ok)
	_, ok = cat.ByFilename("negative.mp4")
	assert.False(t, ok)
}

func TestVideoPathOverride(t *testing.T) {
	cat, err := Load(writeRegistry(t, testRegistry(t)), "/mnt/signs", nil)
	require.NoError(t, err)

	entry, ok := cat.ByFilename("merci.mp4")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/mnt/signs", "merci.mp4"), entry.MediaPath)
}

func TestScannerBuildsRegistry(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "salutations"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".hidden"), 0o755))

	files := []string{
		filepath.Join(root, "salutations", "Bonjour.mp4"),
		filepath.Join(root, "salutations", "ça_va.mp4"),
		filepath.Join(root, "merci.mp4"),
		filepath.Join(root, "notes.txt"),
		filepath.Join(root, ".hidden", "skip.mp4"),
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	}

	scanner := NewScanner(nil, nil)
	reg, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 3, reg.Metadata.TotalVideos)
	assert.Equal(t, []string{"Uncategorized", "salutations"}, reg.Metadata.Categories)

	entry, ok := reg.Videos["Bonjour.mp4"]
	require.True(t, ok)
	assert.Equal(t, "bonjour", entry.Gloss)
	assert.Equal(t, "salutations", entry.Category)
	assert.Equal(t, filepath.Join(root, "salutations", "Bonjour.mp4"), entry.FullPath)

	entry, ok = reg.Videos["ça_va.mp4"]
	require.True(t, ok)
	assert.Equal(t, "ca va", entry.Gloss)

	entry, ok = reg.Videos["merci.mp4"]
	require.True(t, ok)
	assert.Equal(t, "Uncategorized", entry.Category)

	_, ok = reg.Videos["skip.mp4"]
	assert.False(t, ok)
}

func TestScannerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(nil, nil).Scan(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.mp4")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, Exists(file))
	assert.False(t, Exists(filepath.Join(dir, "missing.mp4")))
	assert.False(t, Exists(dir))
}
