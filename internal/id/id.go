// Package id generates the prefixed identifiers used across the server.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ArtifactPrefix marks IDs handed out for composed video artifacts.
const ArtifactPrefix = "art"

// Generate creates a prefixed NanoID, e.g. "art-V1StGXR8_Z5jdHi6B-myT".
// The prefix makes IDs self-describing in logs and lets handlers reject
// foreign identifiers before any lookup.
//
// Returns an error if the system has insufficient entropy for secure
// random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Artifact generates a composed-artifact ID.
func Artifact() string {
	return MustGenerate(ArtifactPrefix)
}

// IsArtifact reports whether s carries the artifact prefix. Inputs that
// fail this check never reach the artifact cache, so path-like strings
// cannot be used as lookup keys.
func IsArtifact(s string) bool {
	return strings.HasPrefix(s, ArtifactPrefix+"-")
}
