package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/signbridgeapp/signbridge-server/internal/domain"
	"github.com/signbridgeapp/signbridge-server/internal/errors"
	"github.com/signbridgeapp/signbridge-server/internal/normalize"
	"github.com/signbridgeapp/signbridge-server/internal/validation"
)

// Catalog is the immutable, process-lifetime index of available signs.
//
// Each entry is reachable via four keys: raw filename, raw gloss,
// normalized gloss, and (lower priority) normalized filename. The maps
// are built once at construction and never mutated afterward, so lookups
// need no locking.
type Catalog struct {
	byFilename   map[string]*domain.GlossEntry
	byGloss      map[string]*domain.GlossEntry
	byNormalized map[string]*domain.GlossEntry

	entries    []*domain.GlossEntry
	glosses    []string // de-duplicated, sorted
	collisions []Collision
}

// Collision records two distinct entries whose keys normalized to the same
// value. The loader keeps the later-loaded entry (last-write-wins, in
// lexicographic filename order) but surfaces the loss for review instead
// of dropping it silently.
type Collision struct {
	Key      string `json:"key"`
	Kept     string `json:"kept"`     // source filename of the surviving entry
	Shadowed string `json:"shadowed"` // source filename of the displaced entry
}

// Load reads the registry at registryPath and builds the catalog.
// videoPathOverride, when non-empty, re-roots every media path under it,
// which lets one registry serve hosts with different mount points.
//
// A missing or unreadable registry is fatal: the service must not accept
// requests without a catalog.
func Load(registryPath, videoPathOverride string, logger *slog.Logger) (*Catalog, error) {
	reg, err := LoadRegistry(registryPath)
	if err != nil {
		return nil, errors.CatalogUnavailable(fmt.Sprintf("load registry %s", registryPath)).WithCause(err)
	}

	// Registries are hand-editable JSON; drop malformed records rather
	// than refusing the whole catalog.
	v := validation.New()
	for filename, rec := range reg.Videos {
		if verr := v.Validate(rec); verr != nil {
			if logger != nil {
				logger.Warn("skipping invalid registry entry",
					slog.String("filename", filename),
					slog.Any("error", verr),
				)
			}
			delete(reg.Videos, filename)
		}
	}

	c := build(reg, videoPathOverride)

	if logger != nil {
		logger.Info("catalog loaded",
			slog.String("registry", registryPath),
			slog.Int("entries", len(c.entries)),
			slog.Int("collisions", len(c.collisions)),
		)
		for _, col := range c.collisions {
			logger.Warn("normalized key collision, keeping later entry",
				slog.String("key", col.Key),
				slog.String("kept", col.Kept),
				slog.String("shadowed", col.Shadowed),
			)
		}
	}

	return c, nil
}

// build constructs the lookup maps from a registry.
//
// Registry maps have no inherent order, so entries are inserted in
// lexicographic filename order to keep the last-write-wins collision
// behavior deterministic across runs.
func build(reg *Registry, videoPathOverride string) *Catalog {
	c := &Catalog{
		byFilename:   make(map[string]*domain.GlossEntry, len(reg.Videos)),
		byGloss:      make(map[string]*domain.GlossEntry, len(reg.Videos)),
		byNormalized: make(map[string]*domain.GlossEntry, len(reg.Videos)*2),
		entries:      make([]*domain.GlossEntry, 0, len(reg.Videos)),
	}

	filenames := make([]string, 0, len(reg.Videos))
	for filename := range reg.Videos {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	for _, filename := range filenames {
		rec := reg.Videos[filename]

		mediaPath := rec.FullPath
		if videoPathOverride != "" {
			mediaPath = filepath.Join(videoPathOverride, filepath.Base(rec.FullPath))
		}

		entry := &domain.GlossEntry{
			Gloss:          rec.Gloss,
			SourceFilename: filename,
			MediaPath:      mediaPath,
			Duration:       rec.Duration,
			Category:       rec.Category,
		}

		c.entries = append(c.entries, entry)
		c.byFilename[filename] = entry
		c.byGloss[entry.Gloss] = entry

		// Normalized gloss is the primary matcher key; the normalized
		// filename is a synonym key so "salut_ca_va.mp4" style inputs
		// resolve too.
		c.insertNormalized(normalize.Text(entry.Gloss), entry)
		c.insertNormalized(normalize.Text(filename), entry)
	}

	seen := make(map[string]bool, len(c.entries))
	for _, entry := range c.entries {
		if !seen[entry.Gloss] {
			seen[entry.Gloss] = true
			c.glosses = append(c.glosses, entry.Gloss)
		}
	}
	sort.Strings(c.glosses)

	return c
}

// insertNormalized adds a normalized key, recording a collision when the
// key already points at a different entry.
func (c *Catalog) insertNormalized(key string, entry *domain.GlossEntry) {
	if key == "" {
		return
	}
	if existing, ok := c.byNormalized[key]; ok && existing != entry {
		c.collisions = append(c.collisions, Collision{
			Key:      key,
			Kept:     entry.SourceFilename,
			Shadowed: existing.SourceFilename,
		})
	}
	c.byNormalized[key] = entry
}

// ByFilename looks up an entry by its raw source filename.
func (c *Catalog) ByFilename(filename string) (*domain.GlossEntry, bool) {
	e, ok := c.byFilename[filename]
	return e, ok
}

// ByGloss looks up an entry by its raw gloss label.
func (c *Catalog) ByGloss(gloss string) (*domain.GlossEntry, bool) {
	e, ok := c.byGloss[gloss]
	return e, ok
}

// ByNormalizedKey looks up an entry by a normalized key.
func (c *Catalog) ByNormalizedKey(key string) (*domain.GlossEntry, bool) {
	e, ok := c.byNormalized[key]
	return e, ok
}

// NormalizedKeys returns all normalized lookup keys. The slice is rebuilt
// per call so callers can't mutate the index.
func (c *Catalog) NormalizedKeys() []string {
	keys := make([]string, 0, len(c.byNormalized))
	for k := range c.byNormalized {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns all catalog entries in load order.
func (c *Catalog) Entries() []*domain.GlossEntry {
	return c.entries
}

// Glosses returns the de-duplicated, sorted list of gloss labels.
func (c *Catalog) Glosses() []string {
	return c.glosses
}

// Collisions returns the normalized-key collisions found at load time.
func (c *Catalog) Collisions() []Collision {
	return c.collisions
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
