package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

const (
	VideoFile = "final_video.mp4"
	listFile  = "slides.txt"

	// durée par slide quand ffprobe ne répond pas
	fallbackSlideSeconds = 5.0
	maxStderrTail        = 800
)

type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner permet de remplacer os/exec dans les tests
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// FFmpegComposer répartit les slides sur la durée de la narration
// et produit un MP4 H.264/AAC
type FFmpegComposer struct {
	ffmpegPath  string
	ffprobePath string
	runner      commandRunner
	log         zerolog.Logger
}

func NewFFmpegComposer(ffmpegPath, ffprobePath string, log zerolog.Logger) *FFmpegComposer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegComposer{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      &execRunner{},
		log:         log.With().Str("component", "composer").Logger(),
	}
}

func (c *FFmpegComposer) Compose(ctx context.Context, req pipeline.ComposeRequest) (string, error) {
	if len(req.SlidePaths) == 0 {
		return "", errors.New("no slides to compose")
	}
	if req.AudioPath == "" {
		return "", errors.New("no narration to compose")
	}

	total, err := c.probeDuration(ctx, req.AudioPath)
	if err != nil || total <= 0 {
		c.log.Warn().Err(err).Str("audio", req.AudioPath).Msg("Duration probe failed, using fixed slide length")
		total = fallbackSlideSeconds * float64(len(req.SlidePaths))
	}
	perSlide := total / float64(len(req.SlidePaths))

	listPath := filepath.Join(req.OutputDir, listFile)
	if err := os.WriteFile(listPath, []byte(concatList(req.SlidePaths, perSlide)), 0644); err != nil {
		return "", fmt.Errorf("failed to write concat list: %w", err)
	}
	defer os.Remove(listPath)

	output := filepath.Join(req.OutputDir, VideoFile)
	args := []string{
		"-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-i", req.AudioPath,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", "25",
		"-vf", "scale=1920:1080",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		output,
	}

	res, err := c.runner.Run(ctx, c.ffmpegPath, args...)
	if err != nil {
		return "", fmt.Errorf("ffmpeg execution (exit %d): %w - %s", res.ExitCode, err, tail(res.Stderr, maxStderrTail))
	}

	c.log.Debug().
		Int("slides", len(req.SlidePaths)).
		Float64("seconds", total).
		Str("output", output).
		Msg("Video composed")
	return output, nil
}

func (c *FFmpegComposer) probeDuration(ctx context.Context, input string) (float64, error) {
	res, err := c.runner.Run(ctx, c.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(res.Stdout)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	return strconv.ParseFloat(s, 64)
}

// concatList écrit le script du demuxer concat. La dernière image est
// répétée sans durée, sinon ffmpeg ignore sa durée.
func concatList(slides []string, seconds float64) string {
	var b strings.Builder
	for _, s := range slides {
		fmt.Fprintf(&b, "file '%s'\n", quote(s))
		fmt.Fprintf(&b, "duration %.3f\n", seconds)
	}
	fmt.Fprintf(&b, "file '%s'\n", quote(slides[len(slides)-1]))
	return b.String()
}

func quote(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return strings.ReplaceAll(path, "'", `'\''`)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
