package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/jobs"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/providers/llm"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/providers/speech"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/providers/video"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/providers/visual"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/storage"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/worker"
	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
	pkgstorage "github.com/helloraviai-ctrl/vidyaaitest/pkg/storage"
)

// newPipelineServer monte le routeur sur un vrai pool de workers et le
// pipeline hors ligne (template, narration silencieuse, slides, image fixe)
func newPipelineServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	backend, err := storage.NewStorage(&pkgstorage.StorageConfig{Type: "filesystem", BasePath: t.TempDir()})
	require.NoError(t, err)
	artifacts := storage.NewStorageService(backend, log)

	repo := jobs.NewMemoryRepository()
	svc := jobs.NewJobService(repo, artifacts, log)

	orchestrator := pipeline.NewOrchestrator(svc, artifacts, pipeline.Stages{
		Text:     llm.NewTemplateGenerator(),
		Speech:   speech.NewSilentSynthesizer(),
		Visual:   visual.NewSlideRenderer(),
		Composer: video.NewStillComposer(),
	}, pipeline.Config{
		WorkspaceBase:    filepath.Join(t.TempDir(), "workspaces"),
		CleanupWorkspace: true,
		StageTimeout:     time.Minute,
		MaxSections:      4,
	}, log)

	pool := worker.NewWorkerPool(orchestrator, &worker.PoolConfig{
		WorkerCount: 2,
		QueueSize:   4,
		JobTimeout:  2 * time.Minute,
	}, log)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, pool.Start(ctx))
	t.Cleanup(func() {
		cancel()
		pool.Stop()
	})
	svc.SetDispatcher(pool)

	router := SetupRouter(RouterConfig{
		JobService:  svc,
		Artifacts:   artifacts,
		Workers:     pool,
		Logger:      log,
		Environment: "test",
	})
	return &testServer{router: router, repo: repo, artifacts: artifacts}
}

func TestGenerateContentEndToEnd(t *testing.T) {
	s := newPipelineServer(t)

	w := s.do(http.MethodPost, "/api/generate-content", `{"topic":"Photosynthesis"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JobID)

	var final models.Job
	lastProgress := 0
	lastRank := 0
	require.Eventually(t, func() bool {
		w := s.do(http.MethodGet, "/api/status/"+resp.JobID, "")
		if !assert.Equal(t, http.StatusOK, w.Code) {
			return false
		}
		var job models.Job
		if !assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &job)) {
			return false
		}

		assert.GreaterOrEqual(t, job.Progress, lastProgress, "progress went down at %s", job.Status)
		assert.GreaterOrEqual(t, job.Status.Rank(), lastRank, "status went back to %s", job.Status)
		lastProgress, lastRank = job.Progress, job.Status.Rank()

		if job.Status != models.StatusCompleted {
			assert.Nil(t, job.ResultData, "result_data before completion")
		}
		final = job
		return job.IsTerminal()
	}, time.Minute, 20*time.Millisecond)

	require.Equal(t, models.StatusCompleted, final.Status, final.Message)
	assert.Equal(t, 100, final.Progress)
	require.NotNil(t, final.ResultData)
	assert.Len(t, final.ResultData.Sections, 4)
	assert.Len(t, final.ResultData.VisualPaths, 4)
	assert.Equal(t, "png", final.ResultData.VideoFormat)

	// sans ffmpeg l'artefact lisible est la première slide
	w = s.do(http.MethodGet, "/api/download/"+resp.JobID+"/video", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)

	w = s.do(http.MethodGet, "/api/download/"+resp.JobID+"/audio", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/wav", w.Header().Get("Content-Type"))
	pcm, err := speech.ExtractPCM(w.Body.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, pcm)

	w = s.do(http.MethodGet, "/api/download/"+resp.JobID+"/text", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "Topic: Photosynthesis")

	w = s.do(http.MethodGet, "/api/slide/"+resp.JobID+"/4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = s.do(http.MethodGet, "/api/worker/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["worker_count"])
}
