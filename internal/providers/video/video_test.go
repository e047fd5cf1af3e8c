package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls     []call
	duration  string
	probeErr  error
	ffmpegErr error
	stderr    string
	list      string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if name == "ffprobe" {
		return commandResult{Stdout: f.duration}, f.probeErr
	}
	// le fichier concat est supprimé après l'appel
	for i, a := range args {
		if a == "-i" && i+1 < len(args) && filepath.Ext(args[i+1]) == ".txt" {
			data, _ := os.ReadFile(args[i+1])
			f.list = string(data)
			break
		}
	}
	if f.ffmpegErr != nil {
		return commandResult{Stderr: f.stderr, ExitCode: 1}, f.ffmpegErr
	}
	return commandResult{}, nil
}

func newComposer(r *fakeRunner) *FFmpegComposer {
	c := NewFFmpegComposer("ffmpeg", "ffprobe", zerolog.Nop())
	c.runner = r
	return c
}

func TestFFmpegComposer(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{duration: "12.0\n"}
	slides := []string{filepath.Join(dir, "slide_1.png"), filepath.Join(dir, "slide_2.png"), filepath.Join(dir, "slide_3.png")}

	out, err := newComposer(runner).Compose(context.Background(), pipeline.ComposeRequest{
		AudioPath:  filepath.Join(dir, "narration.wav"),
		SlidePaths: slides,
		OutputDir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, VideoFile), out)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "ffprobe", runner.calls[0].name)
	assert.Contains(t, runner.calls[0].args, "format=duration")

	args := runner.calls[1].args
	assert.Equal(t, "ffmpeg", runner.calls[1].name)
	assert.Contains(t, args, "libx264")
	assert.Contains(t, args, "-shortest")
	assert.Equal(t, out, args[len(args)-1])

	expected := "file '" + slides[0] + "'\nduration 4.000\n" +
		"file '" + slides[1] + "'\nduration 4.000\n" +
		"file '" + slides[2] + "'\nduration 4.000\n" +
		"file '" + slides[2] + "'\n"
	assert.Equal(t, expected, runner.list)

	_, err = os.Stat(filepath.Join(dir, listFile))
	assert.True(t, os.IsNotExist(err), "concat list should be removed")
}

func TestFFmpegComposerProbeFallback(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{probeErr: errors.New("no ffprobe")}

	_, err := newComposer(runner).Compose(context.Background(), pipeline.ComposeRequest{
		AudioPath:  filepath.Join(dir, "narration.wav"),
		SlidePaths: []string{filepath.Join(dir, "slide_1.png")},
		OutputDir:  dir,
	})
	require.NoError(t, err)
	assert.Contains(t, runner.list, "duration 5.000")
}

func TestFFmpegComposerErrors(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{duration: "3", ffmpegErr: errors.New("exit status 1"), stderr: "Unknown encoder 'libx264'"}
	c := newComposer(runner)

	_, err := c.Compose(context.Background(), pipeline.ComposeRequest{
		AudioPath:  filepath.Join(dir, "narration.wav"),
		SlidePaths: []string{filepath.Join(dir, "slide_1.png")},
		OutputDir:  dir,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg execution (exit 1)")
	assert.Contains(t, err.Error(), "Unknown encoder")

	_, err = c.Compose(context.Background(), pipeline.ComposeRequest{AudioPath: "a.wav", OutputDir: dir})
	assert.Error(t, err)
	_, err = c.Compose(context.Background(), pipeline.ComposeRequest{SlidePaths: []string{"s.png"}, OutputDir: dir})
	assert.Error(t, err)
}

func TestStillComposer(t *testing.T) {
	dir := t.TempDir()
	slide := filepath.Join(dir, "slide_1.png")
	require.NoError(t, os.WriteFile(slide, []byte("png-bytes"), 0644))

	out, err := NewStillComposer().Compose(context.Background(), pipeline.ComposeRequest{
		SlidePaths: []string{slide, filepath.Join(dir, "slide_2.png")},
		OutputDir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, StillFile), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = NewStillComposer().Compose(context.Background(), pipeline.ComposeRequest{OutputDir: dir})
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "abc", tail("  abc\n", 10))
	assert.Equal(t, "...def", tail("abcdef", 3))
}
