package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

const defaultListLimit = 100

type jobServiceImpl struct {
	repo      JobRepository
	artifacts ArtifactCleaner
	log       zerolog.Logger
	tracer    trace.Tracer

	mu         sync.RWMutex
	dispatcher Dispatcher
}

// NewJobService construit le service. artifacts peut être nil si aucun
// stockage n'est à nettoyer.
func NewJobService(repo JobRepository, artifacts ArtifactCleaner, log zerolog.Logger) *jobServiceImpl {
	return &jobServiceImpl{
		repo:      repo,
		artifacts: artifacts,
		log:       log.With().Str("component", "jobs").Logger(),
		tracer:    otel.Tracer("vidya-worker/jobs"),
	}
}

// SetDispatcher branche le pool de workers, créé après le service
func (s *jobServiceImpl) SetDispatcher(d Dispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher = d
}

func (s *jobServiceImpl) getDispatcher() Dispatcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dispatcher
}

// SubmitJob crée le job puis le confie au dispatcher sans attendre. Un refus
// du dispatcher fait échouer le job, pas la soumission.
func (s *jobServiceImpl) SubmitJob(ctx context.Context, req *models.GenerationRequest) (*models.Job, error) {
	ctx, span := s.tracer.Start(ctx, "JobService.SubmitJob")
	defer span.End()

	req.Normalize()
	if strings.TrimSpace(req.Topic) == "" {
		span.RecordError(ErrEmptyTopic)
		return nil, ErrEmptyTopic
	}

	job := models.NewJob(uuid.NewString(), req)
	span.SetAttributes(attribute.String("job.id", job.ID))

	if err := s.repo.Create(ctx, job); err != nil {
		span.RecordError(err)
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to create job")
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.log.Info().
		Str("job_id", job.ID).
		Str("topic", job.Topic).
		Str("difficulty_level", job.DifficultyLevel).
		Str("target_audience", job.TargetAudience).
		Msg("job created")

	dispatcher := s.getDispatcher()
	if dispatcher == nil {
		return s.failSubmission(ctx, job, errors.New("no worker pool available"))
	}
	if err := dispatcher.Dispatch(job.ID); err != nil {
		span.RecordError(err)
		return s.failSubmission(ctx, job, err)
	}

	return job, nil
}

func (s *jobServiceImpl) failSubmission(ctx context.Context, job *models.Job, cause error) (*models.Job, error) {
	s.log.Warn().Err(cause).Str("job_id", job.ID).Msg("job could not be dispatched")

	failed, err := s.repo.Update(ctx, job.ID, models.FailUpdate(
		fmt.Sprintf("Content generation failed: %v", cause), cause))
	if err != nil {
		return nil, fmt.Errorf("failed to mark job %s as failed: %w", job.ID, err)
	}
	return failed, nil
}

func (s *jobServiceImpl) GetJob(ctx context.Context, id string) (*models.Job, error) {
	ctx, span := s.tracer.Start(ctx, "JobService.GetJob")
	defer span.End()

	job, err := s.repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrJobNotFound) {
			span.RecordError(err)
			s.log.Error().Err(err).Str("job_id", id).Msg("failed to get job")
		}
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}

	return job, nil
}

func (s *jobServiceImpl) ListJobs(ctx context.Context, status models.JobStatus) ([]*models.Job, error) {
	ctx, span := s.tracer.Start(ctx, "JobService.ListJobs")
	defer span.End()

	jobs, err := s.repo.List(ctx, JobFilters{Status: status, Limit: defaultListLimit})
	if err != nil {
		span.RecordError(err)
		s.log.Error().Err(err).Msg("failed to list jobs")
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	s.log.Debug().Str("status", string(status)).Int("count", len(jobs)).Msg("jobs listed")
	return jobs, nil
}

func (s *jobServiceImpl) UpdateJob(ctx context.Context, id string, upd models.JobUpdate) (*models.Job, error) {
	ctx, span := s.tracer.Start(ctx, "JobService.UpdateJob")
	defer span.End()

	job, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update job %s: %w", id, err)
	}

	s.log.Debug().
		Str("job_id", id).
		Str("status", string(job.Status)).
		Int("progress", job.Progress).
		Msg(job.Message)
	return job, nil
}

func (s *jobServiceImpl) CountJobs(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// CleanupOldJobs évince les jobs terminés depuis plus de maxAge et leurs artefacts
func (s *jobServiceImpl) CleanupOldJobs(ctx context.Context, maxAge time.Duration) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "JobService.CleanupOldJobs")
	defer span.End()

	cutoff := time.Now().UTC().Add(-maxAge)
	ids, err := s.repo.DeleteTerminalBefore(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to cleanup old jobs: %w", err)
	}

	if s.artifacts != nil {
		for _, id := range ids {
			if err := s.artifacts.DeleteJobArtifacts(ctx, id); err != nil {
				s.log.Warn().Err(err).Str("job_id", id).Msg("failed to delete job artifacts")
			}
		}
	}

	if len(ids) > 0 {
		s.log.Info().Int("count", len(ids)).Msg("cleaned up old jobs")
	}
	return int64(len(ids)), nil
}

func (s *jobServiceImpl) RecoverInterrupted(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "JobService.RecoverInterrupted")
	defer span.End()

	n, err := s.repo.RecoverInterrupted(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to recover interrupted jobs: %w", err)
	}
	if n > 0 {
		s.log.Warn().Int("count", n).Msg("jobs interrupted by restart marked as failed")
	}
	return n, nil
}
