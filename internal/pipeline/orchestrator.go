package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/jobs"
	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

const (
	msgGeneratingText       = "Generating explanation text..."
	msgGeneratingAudio      = "Converting text to speech..."
	msgGeneratingAnimations = "Creating animated visuals..."
	msgCombiningVideo       = "Combining audio and visuals..."
	msgCompleted            = "Content generation completed successfully!"
	msgFailedPrefix         = "Content generation failed: "

	maxErrorLength = 1024
)

// errJobGone arrête l'exécution quand le job a disparu du store ou a été
// terminé par ailleurs
var errJobGone = errors.New("job no longer tracked")

// JobUpdater est la partie du service de jobs utilisée par le pipeline
type JobUpdater interface {
	GetJob(ctx context.Context, id string) (*models.Job, error)
	UpdateJob(ctx context.Context, id string, upd models.JobUpdate) (*models.Job, error)
}

// ArtifactPublisher publie un fichier local sous outputs/<job_id>/<name>
type ArtifactPublisher interface {
	UploadArtifactFile(ctx context.Context, jobID, name, localPath string) (string, error)
}

// Config contient les paramètres d'exécution du pipeline
type Config struct {
	WorkspaceBase    string
	CleanupWorkspace bool
	StageTimeout     time.Duration
	MaxSections      int
}

// Stages regroupe les exécuteurs externes
type Stages struct {
	Text     TextGenerator
	Speech   SpeechSynthesizer
	Visual   VisualGenerator
	Composer Composer
}

// Orchestrator conduit un job à travers les étapes, strictement en séquence
type Orchestrator struct {
	jobs      JobUpdater
	artifacts ArtifactPublisher
	stages    Stages
	config    Config
	log       zerolog.Logger
	tracer    trace.Tracer
}

func NewOrchestrator(jobUpdater JobUpdater, artifacts ArtifactPublisher, stages Stages, config Config, log zerolog.Logger) *Orchestrator {
	if config.MaxSections < 1 {
		config.MaxSections = 6
	}
	return &Orchestrator{
		jobs:      jobUpdater,
		artifacts: artifacts,
		stages:    stages,
		config:    config,
		log:       log.With().Str("component", "pipeline").Logger(),
		tracer:    otel.Tracer("vidya-worker/pipeline"),
	}
}

// Process exécute la génération complète du job. Toute erreur d'étape
// termine le job en failed, sans retry.
func (o *Orchestrator) Process(ctx context.Context, jobID string) error {
	ctx, span := o.tracer.Start(ctx, "Orchestrator.Process", trace.WithAttributes(attribute.String("job.id", jobID)))
	defer span.End()

	log := o.log.With().Str("job_id", jobID).Logger()

	job, err := o.jobs.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			log.Warn().Msg("Job vanished before processing, skipping")
			return nil
		}
		span.RecordError(err)
		return fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	if job.IsTerminal() {
		log.Debug().Str("status", string(job.Status)).Msg("Job already terminal, skipping")
		return nil
	}

	start := time.Now()
	result, err := o.run(ctx, job, log)
	if errors.Is(err, errJobGone) {
		log.Warn().Msg("Job removed during processing, run abandoned")
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.fail(ctx, jobID, err, log)
		return err
	}

	if _, err := o.jobs.UpdateJob(ctx, jobID, models.CompleteUpdate(msgCompleted, result)); err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			return nil
		}
		span.RecordError(err)
		o.fail(ctx, jobID, err, log)
		return fmt.Errorf("failed to complete job %s: %w", jobID, err)
	}

	log.Info().
		Int("sections", len(result.Sections)).
		Str("video_format", result.VideoFormat).
		Dur("duration", time.Since(start)).
		Msg("Content generation completed")
	return nil
}

// fail enregistre l'échec même si le contexte du job a expiré
func (o *Orchestrator) fail(ctx context.Context, jobID string, cause error, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	detail := truncate(cause.Error(), maxErrorLength)
	upd := models.FailUpdate(msgFailedPrefix+detail, errors.New(detail))
	if _, err := o.jobs.UpdateJob(ctx, jobID, upd); err != nil && !errors.Is(err, jobs.ErrJobNotFound) {
		log.Error().Err(err).Msg("Failed to mark job as failed")
		return
	}
	log.Warn().Err(cause).Msg("Content generation failed")
}

func (o *Orchestrator) run(ctx context.Context, job *models.Job, log zerolog.Logger) (*models.ResultData, error) {
	req := job.Request()

	ws, err := NewWorkspace(o.config.WorkspaceBase, job.ID, log)
	if err != nil {
		return nil, stageErr(StagePrepare, err)
	}
	if o.config.CleanupWorkspace {
		defer func() {
			if err := ws.Cleanup(); err != nil {
				log.Warn().Err(err).Msg("Failed to cleanup workspace")
			}
		}()
	}

	// 1. Texte
	if err := o.advance(ctx, job.ID, models.StatusGeneratingText, 10, msgGeneratingText); err != nil {
		return nil, err
	}
	var exp *Explanation
	err = o.runStage(ctx, StageText, log, func(ctx context.Context) error {
		raw, err := o.stages.Text.Generate(ctx, TextRequest{
			Topic:           req.Topic,
			DifficultyLevel: req.DifficultyLevel,
			TargetAudience:  req.TargetAudience,
			MaxSections:     o.config.MaxSections,
		})
		if err != nil {
			return err
		}
		if exp, err = ParseExplanation(raw, req.Topic, o.config.MaxSections); err != nil {
			return err
		}
		return writeExplanationFile(ws, req.Topic, exp)
	})
	if err != nil {
		return nil, err
	}

	// 2. Narration
	if err := o.advance(ctx, job.ID, models.StatusGeneratingAudio, 30, msgGeneratingAudio); err != nil {
		return nil, err
	}
	err = o.runStage(ctx, StageAudio, log, func(ctx context.Context) error {
		if err := o.stages.Speech.Synthesize(ctx, SpeechRequest{
			Text:       exp.Narration(),
			VoiceName:  req.VoiceName,
			OutputPath: ws.File(models.NarrationFile),
		}); err != nil {
			return err
		}
		return requireOutput(ws, models.NarrationFile)
	})
	if err != nil {
		return nil, err
	}

	// 3. Une slide par section, dans l'ordre des sections
	if err := o.advance(ctx, job.ID, models.StatusGeneratingAnimations, 50, msgGeneratingAnimations); err != nil {
		return nil, err
	}
	slides := make([]string, 0, len(exp.Sections))
	err = o.runStage(ctx, StageVisuals, log, func(ctx context.Context) error {
		for i, section := range exp.Sections {
			name := models.SlideFile(i + 1)
			if err := o.stages.Visual.Render(ctx, SlideRequest{
				Topic:      req.Topic,
				Section:    section,
				Index:      i + 1,
				Total:      len(exp.Sections),
				OutputPath: ws.File(name),
			}); err != nil {
				return fmt.Errorf("slide %d: %w", i+1, err)
			}
			if err := requireOutput(ws, name); err != nil {
				return fmt.Errorf("slide %d: %w", i+1, err)
			}
			slides = append(slides, ws.File(name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Composition
	if err := o.advance(ctx, job.ID, models.StatusCombiningVideo, 80, msgCombiningVideo); err != nil {
		return nil, err
	}
	var videoPath string
	err = o.runStage(ctx, StageCompose, log, func(ctx context.Context) error {
		out, err := o.stages.Composer.Compose(ctx, ComposeRequest{
			AudioPath:  ws.File(models.NarrationFile),
			SlidePaths: slides,
			OutputDir:  ws.GetPath(),
		})
		if err != nil {
			return err
		}
		if info, err := os.Stat(out); err != nil || info.Size() == 0 {
			return fmt.Errorf("composer produced no playable file at %s", out)
		}
		videoPath = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. Publication
	result := &models.ResultData{
		Topic:       req.Topic,
		Summary:     exp.Summary,
		KeyConcepts: exp.KeyConcepts,
		Sections:    exp.Sections,
	}
	for _, s := range exp.Sections {
		result.Duration += s.DurationEstimate
	}
	err = o.runStage(ctx, StagePublish, log, func(ctx context.Context) error {
		var err error
		if result.TextPath, err = o.artifacts.UploadArtifactFile(ctx, job.ID, models.ExplanationFile, ws.File(models.ExplanationFile)); err != nil {
			return err
		}
		if result.AudioPath, err = o.artifacts.UploadArtifactFile(ctx, job.ID, models.NarrationFile, ws.File(models.NarrationFile)); err != nil {
			return err
		}
		for _, slide := range slides {
			key, err := o.artifacts.UploadArtifactFile(ctx, job.ID, filepath.Base(slide), slide)
			if err != nil {
				return err
			}
			result.VisualPaths = append(result.VisualPaths, key)
		}
		videoName := filepath.Base(videoPath)
		if result.VideoPath, err = o.artifacts.UploadArtifactFile(ctx, job.ID, videoName, videoPath); err != nil {
			return err
		}
		result.VideoFormat = models.Extension(videoName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// advance publie l'étape en cours avant de l'exécuter
func (o *Orchestrator) advance(ctx context.Context, jobID string, status models.JobStatus, progress int, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", status, err)
	}
	if _, err := o.jobs.UpdateJob(ctx, jobID, models.StageUpdate(status, progress, message)); err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) || errors.Is(err, models.ErrJobTerminal) {
			return errJobGone
		}
		return fmt.Errorf("failed to record %s: %w", status, err)
	}
	return nil
}

// runStage borne l'étape par StageTimeout et convertit un panic en erreur
func (o *Orchestrator) runStage(ctx context.Context, stage string, log zerolog.Logger, fn func(ctx context.Context) error) (err error) {
	ctx, span := o.tracer.Start(ctx, "stage "+stage)
	defer span.End()

	if o.config.StageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.StageTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			err = stageErr(stage, err)
			return
		}
		log.Debug().Str("stage", stage).Dur("duration", time.Since(start)).Msg("Stage completed")
	}()

	return fn(ctx)
}

func writeExplanationFile(ws *Workspace, topic string, exp *Explanation) error {
	f, err := os.Create(ws.File(models.ExplanationFile))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", models.ExplanationFile, err)
	}
	if err := WriteExplanation(f, topic, exp); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", models.ExplanationFile, err)
	}
	return f.Close()
}

func requireOutput(ws *Workspace, name string) error {
	if !ws.FileExists(name) {
		return fmt.Errorf("no output produced for %s", name)
	}
	return nil
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
