package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

const StillFile = "final_video.png"

// StillComposer publie la première slide comme artefact lisible
// quand ffmpeg n'est pas disponible
type StillComposer struct{}

func NewStillComposer() *StillComposer {
	return &StillComposer{}
}

func (c *StillComposer) Compose(ctx context.Context, req pipeline.ComposeRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(req.SlidePaths) == 0 {
		return "", errors.New("no slides to compose")
	}

	output := filepath.Join(req.OutputDir, StillFile)
	if err := copyFile(req.SlidePaths[0], output); err != nil {
		return "", fmt.Errorf("failed to copy slide: %w", err)
	}
	return output, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
