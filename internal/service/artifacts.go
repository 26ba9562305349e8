package service

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/signbridgeapp/signbridge-server/internal/id"
)

// ArtifactCache maps opaque artifact IDs to composed video files on
// disk. Clients only ever see the ID; filesystem paths never cross the
// API boundary, so a request cannot address anything the cache did not
// hand out.
//
// All methods are safe for concurrent use.
type ArtifactCache struct {
	mu        sync.Mutex
	artifacts map[string]artifact
	ttl       time.Duration
	logger    *slog.Logger
}

type artifact struct {
	path      string
	ephemeral bool // owned by the cache, removed on expiry
	createdAt time.Time
}

// NewArtifactCache creates a cache whose entries expire after ttl.
func NewArtifactCache(ttl time.Duration, logger *slog.Logger) *ArtifactCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ArtifactCache{
		artifacts: make(map[string]artifact),
		ttl:       ttl,
		logger:    logger,
	}
}

// Put registers a path and returns a fresh opaque ID for it. ephemeral
// marks files the cache owns: composed outputs in the scratch directory,
// which are deleted from disk when the entry expires. Catalog clips
// passed through unchanged are registered with ephemeral=false and never
// touched on disk.
func (c *ArtifactCache) Put(path string, ephemeral bool) string {
	artifactID := id.Artifact()

	c.mu.Lock()
	c.artifacts[artifactID] = artifact{
		path:      path,
		ephemeral: ephemeral,
		createdAt: time.Now(),
	}
	c.mu.Unlock()

	return artifactID
}

// Get resolves an artifact ID to its path. Expired or unknown IDs
// report false; so do IDs that are obviously not ours, which covers
// traversal attempts like "../../etc/passwd" without consulting the map.
func (c *ArtifactCache) Get(artifactID string) (string, bool) {
	if !id.IsArtifact(artifactID) {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.artifacts[artifactID]
	if !ok {
		return "", false
	}
	if c.expired(a, time.Now()) {
		return "", false
	}
	return a.path, true
}

// Len returns the number of live entries, expired ones included until
// the next sweep.
func (c *ArtifactCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.artifacts)
}

// Sweep drops expired entries and removes ephemeral files from disk.
// Returns how many entries were dropped.
func (c *ArtifactCache) Sweep() int {
	now := time.Now()

	c.mu.Lock()
	var doomed []artifact
	for artifactID, a := range c.artifacts {
		if c.expired(a, now) {
			doomed = append(doomed, a)
			delete(c.artifacts, artifactID)
		}
	}
	c.mu.Unlock()

	for _, a := range doomed {
		if !a.ephemeral {
			continue
		}
		if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("failed to remove expired artifact",
				slog.String("path", a.path),
				slog.Any("error", err),
			)
		}
	}

	if len(doomed) > 0 {
		c.logger.Debug("swept expired artifacts", slog.Int("removed", len(doomed)))
	}

	return len(doomed)
}

// Run sweeps on an interval until ctx-style done channel closes. Meant
// to be started as a goroutine at boot.
func (c *ArtifactCache) Run(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

func (c *ArtifactCache) expired(a artifact, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.Sub(a.createdAt) > c.ttl
}
