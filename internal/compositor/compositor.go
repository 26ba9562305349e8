// Package compositor stitches sign video clips into a single playable
// sequence with ffmpeg.
package compositor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/signbridgeapp/signbridge-server/internal/config"
	"github.com/signbridgeapp/signbridge-server/internal/errors"
)

const defaultTimeout = 60 * time.Second

// Compositor produces one video from an ordered list of clip paths.
type Compositor interface {
	Compose(ctx context.Context, paths []string) (string, error)
}

// FFmpeg composes clips by re-encoding them through a single ffmpeg
// filter graph: every input is scaled to a common resolution and frame
// rate, audio is dropped, and the streams are concatenated in input
// order.
type FFmpeg struct {
	ffmpegPath  string
	scratchPath string
	width       int
	height      int
	frameRate   int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewFFmpeg creates a compositor. The ffmpeg binary is resolved from
// config or PATH; composition cannot work without it.
func NewFFmpeg(cfg config.ComposeConfig, logger *slog.Logger) (*FFmpeg, error) {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		path, err := exec.LookPath("ffmpeg")
		if err != nil {
			return nil, fmt.Errorf("ffmpeg not found: %w", err)
		}
		ffmpegPath = path
	}

	if err := os.MkdirAll(cfg.ScratchPath, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Info("using ffmpeg", slog.String("path", ffmpegPath))

	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		scratchPath: cfg.ScratchPath,
		width:       cfg.Width,
		height:      cfg.Height,
		frameRate:   cfg.FrameRate,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Compose concatenates the clips at paths, in order, into a new file
// under the scratch directory and returns its path.
//
// An empty input is an InvalidInput error. A single clip is returned
// as-is without re-encoding. Any ffmpeg failure surfaces as a
// MediaProcessing error.
func (f *FFmpeg) Compose(ctx context.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.InvalidInput("no clips to compose")
	}
	if len(paths) == 1 {
		return paths[0], nil
	}

	outputPath := filepath.Join(f.scratchPath, uuid.NewString()+".mp4")

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	args := f.buildArgs(paths, outputPath)

	f.logger.Debug("composing sequence",
		slog.Int("clips", len(paths)),
		slog.String("output", outputPath),
	)

	start := time.Now()
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...) //nolint:gosec // ffmpegPath is validated at service init
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outputPath)
		if ctx.Err() != nil {
			return "", errors.MediaProcessing("composition timed out").WithCause(ctx.Err())
		}
		return "", errors.MediaProcessing("ffmpeg failed").
			WithDetails(tail(string(output), 2048)).
			WithCause(err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", errors.MediaProcessing("output file not created").WithCause(err)
	}

	f.logger.Info("sequence composed",
		slog.Int("clips", len(paths)),
		slog.Duration("took", time.Since(start)),
	)

	return outputPath, nil
}

// buildArgs constructs the ffmpeg invocation: one -i per clip, a filter
// graph normalizing each stream before an n-way concat, and a re-encode
// tuned for speed over size.
func (f *FFmpeg) buildArgs(paths []string, outputPath string) []string {
	args := make([]string, 0, len(paths)*2+16)
	for _, p := range paths {
		args = append(args, "-i", p)
	}

	var filter strings.Builder
	for i := range paths {
		fmt.Fprintf(&filter, "[%d:v]scale=%d:%d,setsar=1,fps=%d[v%d];",
			i, f.width, f.height, f.frameRate, i)
	}
	for i := range paths {
		fmt.Fprintf(&filter, "[v%d]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=0[outv]", len(paths))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[outv]",
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-crf", "28",
		"-pix_fmt", "yuv420p",
		"-y",
		outputPath,
	)

	return args
}

// ScratchPath returns the directory composed artifacts are written to.
func (f *FFmpeg) ScratchPath() string {
	return f.scratchPath
}

// tail returns at most the last n bytes of s. ffmpeg front-loads banner
// noise; the failure reason is at the end.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
