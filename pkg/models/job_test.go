package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob() *Job {
	req := &GenerationRequest{Topic: "  Photosynthesis  "}
	req.Normalize()
	return NewJob("job-1", req)
}

func sampleResult() *ResultData {
	return &ResultData{
		Topic:       "Photosynthesis",
		Sections:    []Section{{Title: "Intro", Content: "Light", KeyPoints: []string{"a"}, DurationEstimate: 30}},
		AudioPath:   "outputs/job-1/narration.wav",
		VisualPaths: []string{"outputs/job-1/slide_1.png"},
		Duration:    30,
	}
}

func TestNewJob(t *testing.T) {
	job := newTestJob()

	assert.Equal(t, StatusStarted, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, "Starting content generation...", job.Message)
	assert.Equal(t, "Photosynthesis", job.Topic)
	assert.Equal(t, DefaultDifficultyLevel, job.DifficultyLevel)
	assert.Equal(t, DefaultTargetAudience, job.TargetAudience)
	assert.Nil(t, job.ResultData)
	assert.Nil(t, job.CompletedAt)
}

func TestJobApplyHappyPath(t *testing.T) {
	job := newTestJob()
	now := time.Now()

	steps := []JobUpdate{
		StageUpdate(StatusGeneratingText, 10, "Generating explanation text..."),
		StageUpdate(StatusGeneratingAudio, 30, "Converting text to speech..."),
		StageUpdate(StatusGeneratingAnimations, 50, "Creating animated visuals..."),
		StageUpdate(StatusCombiningVideo, 80, "Combining audio and visuals..."),
	}
	for _, upd := range steps {
		require.NoError(t, job.Apply(upd, now))
		assert.Equal(t, upd.Status, job.Status)
		assert.Equal(t, upd.Progress, job.Progress)
		assert.Nil(t, job.ResultData)
	}

	require.NoError(t, job.Apply(CompleteUpdate("done", sampleResult()), now))
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultData)
	require.NotNil(t, job.CompletedAt)
	assert.True(t, job.IsTerminal())
}

func TestJobApplyInvariants(t *testing.T) {
	now := time.Now()

	t.Run("no status regression", func(t *testing.T) {
		job := newTestJob()
		require.NoError(t, job.Apply(StageUpdate(StatusGeneratingAudio, 30, ""), now))
		err := job.Apply(StageUpdate(StatusGeneratingText, 40, ""), now)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
		assert.Equal(t, StatusGeneratingAudio, job.Status)
	})

	t.Run("progress never decreases", func(t *testing.T) {
		job := newTestJob()
		require.NoError(t, job.Apply(StageUpdate(StatusGeneratingAudio, 30, ""), now))
		err := job.Apply(StageUpdate(StatusGeneratingAudio, 20, ""), now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, 30, job.Progress)
	})

	t.Run("zero progress keeps current value", func(t *testing.T) {
		job := newTestJob()
		require.NoError(t, job.Apply(StageUpdate(StatusGeneratingText, 10, ""), now))
		require.NoError(t, job.Apply(JobUpdate{Message: "still working"}, now))
		assert.Equal(t, 10, job.Progress)
		assert.Equal(t, "still working", job.Message)
	})

	t.Run("completion requires result", func(t *testing.T) {
		job := newTestJob()
		err := job.Apply(JobUpdate{Status: StatusCompleted}, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StatusStarted, job.Status)
	})

	t.Run("result only on completion", func(t *testing.T) {
		job := newTestJob()
		err := job.Apply(JobUpdate{Status: StatusGeneratingText, Progress: 10, Result: sampleResult()}, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("failure freezes progress", func(t *testing.T) {
		job := newTestJob()
		require.NoError(t, job.Apply(StageUpdate(StatusGeneratingAudio, 30, ""), now))
		require.NoError(t, job.Apply(FailUpdate("Content generation failed: audio: boom", errors.New("audio: boom")), now))
		assert.Equal(t, StatusFailed, job.Status)
		assert.Equal(t, 30, job.Progress)
		assert.Equal(t, "audio: boom", job.Error)
		assert.Nil(t, job.ResultData)
		assert.NotNil(t, job.CompletedAt)
	})

	t.Run("terminal jobs are immutable", func(t *testing.T) {
		job := newTestJob()
		require.NoError(t, job.Apply(FailUpdate("failed", nil), now))
		assert.Equal(t, "failed", job.Error)

		err := job.Apply(StageUpdate(StatusGeneratingText, 10, ""), now)
		assert.ErrorIs(t, err, ErrJobTerminal)
		err = job.Apply(CompleteUpdate("done", sampleResult()), now)
		assert.ErrorIs(t, err, ErrJobTerminal)
		assert.Equal(t, StatusFailed, job.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		job := newTestJob()
		err := job.Apply(JobUpdate{Status: "paused"}, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestJobCloneIsDeep(t *testing.T) {
	job := newTestJob()
	require.NoError(t, job.Apply(CompleteUpdate("done", sampleResult()), time.Now()))

	cp := job.Clone()
	cp.ResultData.Sections[0].KeyPoints[0] = "changed"
	cp.ResultData.VisualPaths[0] = "changed"
	*cp.CompletedAt = time.Time{}

	assert.Equal(t, "a", job.ResultData.Sections[0].KeyPoints[0])
	assert.Equal(t, "outputs/job-1/slide_1.png", job.ResultData.VisualPaths[0])
	assert.False(t, job.CompletedAt.IsZero())
}

func TestStatusHelpers(t *testing.T) {
	for i, s := range AllStatuses()[:6] {
		assert.Equal(t, i, s.Rank(), string(s))
	}
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusCombiningVideo.IsTerminal())

	_, ok := ParseJobStatus("generating_audio")
	assert.True(t, ok)
	_, ok = ParseJobStatus("queued")
	assert.False(t, ok)
}

func TestArtifactHelpers(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentTypeFor("final_video.mp4"))
	assert.Equal(t, "audio/wav", ContentTypeFor("narration.wav"))
	assert.Equal(t, "text/plain", ContentTypeFor("explanation.txt"))
	assert.Equal(t, "image/png", ContentTypeFor("final_video.png"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("blob"))
	assert.Equal(t, "slide_3.png", SlideFile(3))

	kind, ok := ParseArtifactKind("audio")
	assert.True(t, ok)
	assert.Equal(t, ArtifactAudio, kind)
	_, ok = ParseArtifactKind("subtitles")
	assert.False(t, ok)

	result := sampleResult()
	assert.Equal(t, "outputs/job-1/narration.wav", result.ArtifactPath(ArtifactAudio))
	assert.Empty(t, result.ArtifactPath(ArtifactVideo))
	path, ok := result.SlidePath(1)
	assert.True(t, ok)
	assert.Equal(t, "outputs/job-1/slide_1.png", path)
	_, ok = result.SlidePath(2)
	assert.False(t, ok)
}
