package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/signbridgeapp/signbridge-server/internal/normalize"
)

// videoExtensions are the file types picked up by the scanner.
//
//nolint:gochecknoglobals // Static lookup table
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
}

// DurationProber reports a video's duration in seconds. Probing is
// injectable so registry generation can be tested without ffprobe.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFprobeProber probes durations with the ffprobe binary.
type FFprobeProber struct {
	path string
}

// NewFFprobeProber locates ffprobe on PATH. Returns nil (probing
// disabled) when the binary is not installed.
func NewFFprobeProber() *FFprobeProber {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil
	}
	return &FFprobeProber{path: path}
}

// Duration runs ffprobe and parses the container duration.
func (p *FFprobeProber) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.path, //nolint:gosec // ffprobe path is from exec.LookPath
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
}

// Scanner builds a registry by walking a sign-video directory tree.
// One record per video file: the gloss is the normalized filename, the
// category is the parent directory.
type Scanner struct {
	prober DurationProber
	logger *slog.Logger
}

// NewScanner creates a scanner. prober may be nil to skip duration probing.
func NewScanner(prober DurationProber, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{prober: prober, logger: logger}
}

// Scan walks rootDir recursively and returns the resulting registry.
// Walk errors on individual files are logged and skipped; only a failure
// to read the root itself is fatal.
func (s *Scanner) Scan(ctx context.Context, rootDir string) (*Registry, error) {
	reg := &Registry{
		Metadata: RegistryMetadata{
			RootDir:     rootDir,
			GeneratedAt: time.Now().UTC(),
		},
		Videos: map[string]RegistryEntry{},
	}

	categories := make(map[string]bool)

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			s.logger.Error("walk error", "path", path, "error", err)
			return nil
		}

		// Skip hidden files/directories.
		if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !videoExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			s.logger.Error("failed to compute relative path", "path", path, "error", err)
			relPath = path
		}

		category := "Uncategorized"
		if dir := filepath.Dir(relPath); dir != "." {
			category = filepath.Base(dir)
		}

		filename := d.Name()
		entry := RegistryEntry{
			Gloss:    normalize.Text(filename),
			FullPath: path,
			Category: category,
		}

		if s.prober != nil {
			duration, probeErr := s.prober.Duration(ctx, path)
			if probeErr != nil {
				s.logger.Warn("duration probe failed", "path", path, "error", probeErr)
			} else {
				entry.Duration = duration
			}
		}

		reg.Videos[filename] = entry
		categories[category] = true

		return nil
	})
	if err != nil {
		return nil, err
	}

	reg.Metadata.TotalVideos = len(reg.Videos)
	for cat := range categories {
		reg.Metadata.Categories = append(reg.Metadata.Categories, cat)
	}
	sort.Strings(reg.Metadata.Categories)

	s.logger.Info("scan complete",
		"root", rootDir,
		"videos", reg.Metadata.TotalVideos,
		"categories", len(reg.Metadata.Categories),
	)

	return reg, nil
}

// Exists reports whether a path is a regular file on disk. The matcher
// uses this to drop entries whose media has gone missing.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
