// Package thumbnail extracts a still frame from a video with ffmpeg.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"footnote/config"
	"footnote/storage"
)

// Generator runs ffmpeg to produce a JPEG thumbnail.
type Generator struct {
	FFmpegPath string
	Offset     float64
	Width      int
	Timeout    time.Duration
}

// NewGenerator builds a Generator from the thumbnail config section.
func NewGenerator(cfg config.ThumbnailConfig) *Generator {
	g := &Generator{
		FFmpegPath: cfg.FFmpegPath,
		Width:      cfg.Width,
		Timeout:    cfg.Timeout.Duration,
	}
	if cfg.OffsetSeconds != nil {
		g.Offset = *cfg.OffsetSeconds
	}
	return g
}

// Generate writes video to a scratch directory, grabs one frame at the
// configured offset and returns it as JPEG bytes. Videos shorter than the
// offset fall back to the first frame.
func (g *Generator) Generate(ctx context.Context, video []byte, filename string) ([]byte, error) {
	if len(video) == 0 {
		return nil, errors.New("empty video")
	}

	dir, err := os.MkdirTemp("", "footnote-thumb-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input-"+storage.SanitizeFilename(filename))
	if err := os.WriteFile(input, video, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write video: %w", err)
	}
	output := filepath.Join(dir, "thumbnail.jpg")

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	data, err := g.extract(ctx, input, output, g.Offset)
	if err != nil && g.Offset > 0 && ctx.Err() == nil {
		// seeking past the end of a short clip yields no frame
		data, err = g.extract(ctx, input, output, 0)
	}
	return data, err
}

func (g *Generator) extract(ctx context.Context, input, output string, offset float64) ([]byte, error) {
	if err := g.run(ctx, g.args(input, output, offset)); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg produced no thumbnail: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("ffmpeg produced an empty thumbnail")
	}
	return data, nil
}

func (g *Generator) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, g.binary(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg thumbnail timed out: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg thumbnail failed: %v\nStderr: %s", err, stderr.String())
	}
	return nil
}

// args builds: ffmpeg -y -ss <offset> -i <input> -frames:v 1 -vf scale=<w>:-2 -f image2 <output>
func (g *Generator) args(input, output string, offset float64) []string {
	args := []string{
		"-y",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(offset, 'f', 3, 64),
		"-i", input,
		"-frames:v", "1",
	}
	if g.Width > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", g.Width))
	}
	return append(args, "-f", "image2", output)
}

func (g *Generator) binary() string {
	if g.FFmpegPath == "" {
		return "ffmpeg"
	}
	return g.FFmpegPath
}
