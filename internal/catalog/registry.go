// Package catalog loads the sign registry and builds the lookup structures
// used by the matching pipeline.
package catalog

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"time"
)

// Registry is the on-disk catalog format produced by catalog-gen: a
// structured index of every known sign video, keyed by source filename.
type Registry struct {
	Metadata RegistryMetadata         `json:"metadata"`
	Videos   map[string]RegistryEntry `json:"videos"`
}

// RegistryMetadata describes the scan that produced the registry.
type RegistryMetadata struct {
	RootDir     string    `json:"root_dir"`
	TotalVideos int       `json:"total_videos"`
	Categories  []string  `json:"categories,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitzero"`
}

// RegistryEntry is one video record in the registry.
type RegistryEntry struct {
	Gloss    string  `json:"gloss" validate:"required"`
	FullPath string  `json:"full_path" validate:"required"`
	Duration float64 `json:"duration,omitempty" validate:"gte=0"`
	Category string  `json:"category,omitempty"`
}

// LoadRegistry reads and decodes a registry file.
func LoadRegistry(path string) (*Registry, error) {
	f, err := os.Open(path) //#nosec G304 -- Registry path comes from validated config
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	var reg Registry
	if err := json.UnmarshalRead(f, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}

	if reg.Videos == nil {
		reg.Videos = map[string]RegistryEntry{}
	}

	return &reg, nil
}

// Write encodes the registry to a file, creating or truncating it.
func (r *Registry) Write(path string) error {
	f, err := os.Create(path) //#nosec G304 -- Output path comes from CLI flags
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}
	defer f.Close()

	if err := json.MarshalWrite(f, r, json.Deterministic(true)); err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	return nil
}
