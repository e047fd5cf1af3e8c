package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/api"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/config"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/database"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/jobs"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/logger"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/providers/llm"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/providers/speech"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/providers/video"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/providers/visual"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/storage"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/worker"
)

// @title Vidya Content Generation API
// @version 1.0.0
// @description Génère une explication vidéo (texte, narration, slides) à partir d'un sujet.
// @host localhost:8000
// @BasePath /
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		log.Debug().Err(envErr).Msg(".env file not loaded")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storageBackend, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	artifacts := storage.NewStorageService(storageBackend, log)

	repo, closeStore, err := newJobRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore.Close()

	jobService := jobs.NewJobService(repo, artifacts, log)
	if _, err := jobService.RecoverInterrupted(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to recover interrupted jobs")
	}

	// aucun job ne tourne encore, tous les workspaces présents sont orphelins
	workspaces, err := pipeline.NewWorkspaceManager(cfg.Worker.WorkspaceBase, log)
	if err != nil {
		return fmt.Errorf("failed to initialize workspaces: %w", err)
	}
	if n, err := workspaces.CleanupOldWorkspaces(time.Now()); err != nil {
		log.Warn().Err(err).Msg("Failed to cleanup old workspaces")
	} else if n > 0 {
		log.Info().Int("count", n).Msg("Removed orphan workspaces")
	}

	orchestrator := pipeline.NewOrchestrator(jobService, artifacts, buildStages(cfg, log), pipeline.Config{
		WorkspaceBase:    cfg.Worker.WorkspaceBase,
		CleanupWorkspace: cfg.Worker.CleanupWorkspace,
		StageTimeout:     cfg.Pipeline.StageTimeout,
		MaxSections:      cfg.Pipeline.MaxSections,
	}, log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	pool := worker.NewWorkerPool(orchestrator, &worker.PoolConfig{
		WorkerCount: cfg.Worker.WorkerCount,
		QueueSize:   cfg.Worker.QueueSize,
		JobTimeout:  cfg.Pipeline.JobTimeout,
	}, log)
	if err := pool.Start(workerCtx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}
	jobService.SetDispatcher(pool)

	cleanup := jobs.NewCleanupService(jobService, cfg.CleanupInterval, cfg.JobRetention, log)
	go cleanup.Start(ctx)

	router := api.SetupRouter(api.RouterConfig{
		JobService:         jobService,
		Artifacts:          artifacts,
		Workers:            pool,
		Logger:             log,
		Environment:        cfg.Environment,
		CORSOrigins:        cfg.API.CORSOrigins,
		RateLimitPerMinute: cfg.API.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("port", cfg.Port).
		Str("environment", cfg.Environment).
		Str("job_store", cfg.Store.Type).
		Str("storage", cfg.Storage.Type).
		Str("text_provider", cfg.Providers.TextProvider).
		Str("speech_provider", cfg.Providers.SpeechProvider).
		Int("workers", cfg.Worker.WorkerCount).
		Msg("Starting vidya-worker")

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cleanup.Stop()
	// les jobs en cours sont interrompus et passent en failed
	cancelWorkers()
	pool.Stop()

	log.Info().Msg("Server shutdown complete")
	return nil
}

func newJobRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (jobs.JobRepository, io.Closer, error) {
	switch cfg.Store.Type {
	case "postgres":
		db, err := database.Connect(cfg.Store.DatabaseURL, cfg.LogLevel, log)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(&jobs.JobRecord{}); err != nil {
			db.Close()
			return nil, nil, err
		}
		return jobs.NewGormRepository(db.DB), db, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Str("addr", cfg.Store.RedisAddr).Msg("Redis connection established")
		return jobs.NewRedisRepository(client, cfg.Store.RedisPrefix), client, nil

	default:
		log.Warn().Msg("Using in-memory job store, jobs are lost on restart")
		return jobs.NewMemoryRepository(), nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func buildStages(cfg *config.Config, log zerolog.Logger) pipeline.Stages {
	p := cfg.Providers
	stages := pipeline.Stages{Visual: visual.NewSlideRenderer()}

	switch p.TextProvider {
	case "groq":
		stages.Text = llm.NewChatClient("groq", p.GroqAPIKey, p.GroqBaseURL, p.GroqModel, log)
	case "openai":
		stages.Text = llm.NewChatClient("openai", p.OpenAIAPIKey, p.OpenAIBaseURL, p.OpenAIModel, log)
	default:
		log.Warn().Msg("No LLM configured, using template explanations")
		stages.Text = llm.NewTemplateGenerator()
	}

	switch p.SpeechProvider {
	case "azure":
		stages.Speech = speech.NewAzureSynthesizer(p.AzureSpeechKey, p.AzureSpeechRegion, p.AzureSpeechVoice, log)
	default:
		log.Warn().Msg("No speech service configured, narration will be silent")
		stages.Speech = speech.NewSilentSynthesizer()
	}

	stages.Composer = video.NewStillComposer()
	if p.Composer == "ffmpeg" {
		if _, err := exec.LookPath(p.FFmpegPath); err != nil {
			log.Warn().Err(err).Str("ffmpeg", p.FFmpegPath).Msg("ffmpeg not found, publishing still images instead of video")
		} else {
			stages.Composer = video.NewFFmpegComposer(p.FFmpegPath, p.FFprobePath, log)
		}
	}

	return stages
}
