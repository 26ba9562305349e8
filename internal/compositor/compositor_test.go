package compositor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signbridgeapp/signbridge-server/internal/config"
	"github.com/signbridgeapp/signbridge-server/internal/errors"
)

func testCompositor(t *testing.T) *FFmpeg {
	t.Helper()
	f, err := NewFFmpeg(config.ComposeConfig{
		// Point at a harmless binary so construction never depends on
		// ffmpeg being installed.
		FFmpegPath:  "/bin/true",
		ScratchPath: t.TempDir(),
		Width:       1280,
		Height:      720,
		FrameRate:   30,
	}, nil)
	require.NoError(t, err)
	return f
}

func TestComposeEmptyInput(t *testing.T) {
	f := testCompositor(t)

	_, err := f.Compose(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestComposeSinglePassthrough(t *testing.T) {
	f := testCompositor(t)

	// A single clip needs no re-encode and comes back untouched.
	out, err := f.Compose(context.Background(), []string{"/videos/bonjour.mp4"})
	require.NoError(t, err)
	assert.Equal(t, "/videos/bonjour.mp4", out)
}

func TestComposeFailureIsMediaProcessing(t *testing.T) {
	f := testCompositor(t)
	f.ffmpegPath = "/bin/false"

	_, err := f.Compose(context.Background(), []string{"/a.mp4", "/b.mp4"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMediaProcessing))
}

func TestComposeNoOutputIsMediaProcessing(t *testing.T) {
	f := testCompositor(t)

	// /bin/true exits 0 but writes nothing; the missing output file must
	// still be reported as a processing failure.
	_, err := f.Compose(context.Background(), []string{"/a.mp4", "/b.mp4"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMediaProcessing))
}

func TestBuildArgs(t *testing.T) {
	f := testCompositor(t)

	out := filepath.Join(f.ScratchPath(), "out.mp4")
	args := f.buildArgs([]string{"/a.mp4", "/b.mp4", "/c.mp4"}, out)

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-i /a.mp4 -i /b.mp4 -i /c.mp4")
	assert.Contains(t, joined, "[0:v]scale=1280:720,setsar=1,fps=30[v0];")
	assert.Contains(t, joined, "[v0][v1][v2]concat=n=3:v=1:a=0[outv]")
	assert.Contains(t, joined, "-map [outv]")
	assert.Contains(t, joined, "-c:v libx264")
	assert.Contains(t, joined, "-preset ultrafast")
	assert.Contains(t, joined, "-crf 28")
	assert.Contains(t, joined, "-pix_fmt yuv420p")
	assert.Equal(t, out, args[len(args)-1])

	// Inputs keep their order in the concat graph.
	assert.Less(t, strings.Index(joined, "/a.mp4"), strings.Index(joined, "/b.mp4"))
	assert.Less(t, strings.Index(joined, "/b.mp4"), strings.Index(joined, "/c.mp4"))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "abc", tail("abc", 10))
	assert.Equal(t, "cde", tail("abcde", 3))
}
