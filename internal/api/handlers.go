package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/config"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/jobs"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/validation"
	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
	pkgstorage "github.com/helloraviai-ctrl/vidyaaitest/pkg/storage"
)

// ArtifactReader est la partie du stockage lue par l'API
type ArtifactReader interface {
	OpenArtifact(ctx context.Context, key string) (io.ReadCloser, error)
}

// StatsProvider expose l'état du pool de workers
type StatsProvider interface {
	GetStats() models.WorkerStats
}

type Handlers struct {
	jobService jobs.JobService
	artifacts  ArtifactReader
	workers    StatsProvider
	log        zerolog.Logger
}

func NewHandlers(jobService jobs.JobService, artifacts ArtifactReader, workers StatsProvider, log zerolog.Logger) *Handlers {
	return &Handlers{
		jobService: jobService,
		artifacts:  artifacts,
		workers:    workers,
		log:        log.With().Str("component", "api").Logger(),
	}
}

// Health godoc
// @Summary Health check
// @Description Vérifie que l'API répond
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Message:   "Vidya content generation API",
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
	})
}

// GenerateContent godoc
// @Summary Lancer une génération de contenu
// @Description Crée un job qui produit le texte, la narration, les slides puis la vidéo d'un sujet.
// @Description La réponse est immédiate, la progression se suit via /api/status/{job_id}.
// @Tags Content
// @Accept json
// @Produce json
// @Param request body models.GenerationRequest true "Sujet et options"
// @Success 200 {object} models.SubmitResponse
// @Failure 400 {object} models.ErrorResponse "Sujet vide, trop long ou JSON invalide"
// @Failure 429 {object} models.ErrorResponse "Trop de requêtes"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/generate-content [post]
func (h *Handlers) GenerateContent(c *gin.Context) {
	req, ok := validation.GetValidatedRequest(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request was not validated"})
		return
	}

	job, err := h.jobService.SubmitJob(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, jobs.ErrEmptyTopic) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
			return
		}
		h.log.Error().Err(err).Msg("failed to submit job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to start content generation: %v", err)})
		return
	}

	c.JSON(http.StatusOK, models.SubmitResponse{
		JobID:   job.ID,
		Status:  "processing",
		Message: "Content generation started. Use the job_id to check progress.",
	})
}

// GetStatus godoc
// @Summary Statut d'un job
// @Tags Content
// @Produce json
// @Param job_id path string true "ID du job"
// @Success 200 {object} models.Job
// @Failure 404 {object} models.ErrorResponse "Job not found"
// @Router /api/status/{job_id} [get]
func (h *Handlers) GetStatus(c *gin.Context) {
	job, ok := h.lookupJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, job)
}

// Download godoc
// @Summary Télécharger un artefact
// @Description file_type vaut audio, video ou text. Le job doit être terminé.
// @Tags Artifacts
// @Produce octet-stream
// @Param job_id path string true "ID du job"
// @Param file_type path string true "Type d'artefact" Enums(audio, video, text)
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse "Job non terminé ou type invalide"
// @Failure 404 {object} models.ErrorResponse "Job ou fichier introuvable"
// @Router /api/download/{job_id}/{file_type} [get]
func (h *Handlers) Download(c *gin.Context) {
	job, ok := h.completedJob(c)
	if !ok {
		return
	}

	validator := validation.GetValidator(c)
	if validator == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Validation service unavailable"})
		return
	}
	kind, result := validator.ValidateArtifactKindParam(c.Param("file_type"))
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             result.FirstMessage(),
			"validation_errors": result.Errors,
		})
		return
	}

	key := job.ResultData.ArtifactPath(kind)
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", job.ID, kind, models.Extension(key))
	h.serveArtifact(c, key, "attachment", filename, "File not found")
}

// Video godoc
// @Summary Lire la vidéo d'un job
// @Description Sert l'artefact lisible en ligne: video/mp4, ou image/png sans composition vidéo.
// @Tags Artifacts
// @Produce video/mp4
// @Produce image/png
// @Param job_id path string true "ID du job"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse "Job non terminé"
// @Failure 404 {object} models.ErrorResponse "Job ou vidéo introuvable"
// @Router /api/video/{job_id} [get]
func (h *Handlers) Video(c *gin.Context) {
	job, ok := h.completedJob(c)
	if !ok {
		return
	}
	key := job.ResultData.VideoPath
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video file not found"})
		return
	}
	filename := fmt.Sprintf("%s_video.%s", job.ID, models.Extension(key))
	h.serveArtifact(c, key, "inline", filename, "Video file not found")
}

// Audio godoc
// @Summary Écouter la narration d'un job
// @Tags Artifacts
// @Produce audio/wav
// @Param job_id path string true "ID du job"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse "Job non terminé"
// @Failure 404 {object} models.ErrorResponse "Job ou audio introuvable"
// @Router /api/audio/{job_id} [get]
func (h *Handlers) Audio(c *gin.Context) {
	job, ok := h.completedJob(c)
	if !ok {
		return
	}
	key := job.ResultData.AudioPath
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audio file not found"})
		return
	}
	h.serveArtifact(c, key, "inline", fmt.Sprintf("narration_%s.wav", job.ID), "Audio file not found")
}

// Slide godoc
// @Summary Image d'une slide
// @Tags Artifacts
// @Produce image/png
// @Param job_id path string true "ID du job"
// @Param slide_number path int true "Numéro de slide, à partir de 1"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse "Numéro invalide ou job non terminé"
// @Failure 404 {object} models.ErrorResponse "Job ou slide introuvable"
// @Router /api/slide/{job_id}/{slide_number} [get]
func (h *Handlers) Slide(c *gin.Context) {
	n := validation.GetValidatedSlideNumber(c)
	job, ok := h.completedJob(c)
	if !ok {
		return
	}
	key, found := job.ResultData.SlidePath(n)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slide not found"})
		return
	}
	h.serveArtifact(c, key, "inline", fmt.Sprintf("slide_%d_%s.png", n, job.ID), "Slide not found")
}

// ListJobs godoc
// @Summary Lister les jobs
// @Tags Content
// @Produce json
// @Param status query string false "Filtrer par statut" Enums(started, generating_text, generating_audio, generating_animations, combining_video, completed, failed)
// @Success 200 {object} models.JobListResponse
// @Failure 400 {object} models.ErrorResponse "Statut inconnu"
// @Router /api/jobs [get]
func (h *Handlers) ListJobs(c *gin.Context) {
	status := validation.GetValidatedStatus(c)

	list, err := h.jobService.ListJobs(c.Request.Context(), status)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}
	if list == nil {
		list = []*models.Job{}
	}
	total, err := h.jobService.CountJobs(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to count jobs")
		total = len(list)
	}

	c.JSON(http.StatusOK, models.JobListResponse{Jobs: list, Count: len(list), Total: total})
}

// WorkerStats godoc
// @Summary Statistiques du pool de workers
// @Tags Workers
// @Produce json
// @Success 200 {object} models.WorkerStats
// @Failure 503 {object} models.ErrorResponse
// @Router /api/worker/stats [get]
func (h *Handlers) WorkerStats(c *gin.Context) {
	if h.workers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "worker pool not available"})
		return
	}
	c.JSON(http.StatusOK, h.workers.GetStats())
}

// lookupJob répond 404 pour tout id inconnu, y compris mal formé
func (h *Handlers) lookupJob(c *gin.Context) (*models.Job, bool) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job"})
		}
		return nil, false
	}
	return job, true
}

func (h *Handlers) completedJob(c *gin.Context) (*models.Job, bool) {
	job, ok := h.lookupJob(c)
	if !ok {
		return nil, false
	}
	if job.Status != models.StatusCompleted || job.ResultData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job not completed yet"})
		return nil, false
	}
	return job, true
}

func (h *Handlers) serveArtifact(c *gin.Context, key, disposition, filename, notFound string) {
	reader, err := h.artifacts.OpenArtifact(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, pkgstorage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFound})
			return
		}
		h.log.Error().Err(err).Str("key", key).Msg("failed to open artifact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read artifact"})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, models.ContentTypeFor(key), reader, map[string]string{
		"Content-Disposition": fmt.Sprintf(`%s; filename="%s"`, disposition, filename),
	})
}
