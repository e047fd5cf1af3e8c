package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/jobs"
	"github.com/helloraviai-ctrl/vidyaaitest/internal/validation"
)

// RouterConfig regroupe les dépendances du routeur
type RouterConfig struct {
	JobService         jobs.JobService
	Artifacts          ArtifactReader
	Workers            StatsProvider
	Logger             zerolog.Logger
	Environment        string
	CORSOrigins        []string
	RateLimitPerMinute int
}

func SetupRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(RequestID())
	r.Use(Recovery(cfg.Logger))
	r.Use(AccessLogger(cfg.Logger))
	r.Use(SecurityHeadersMiddleware())
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(validation.InjectValidator(validation.NewAPIValidator(nil)))

	handlers := NewHandlers(cfg.JobService, cfg.Artifacts, cfg.Workers, cfg.Logger)

	r.GET("/", handlers.Health)
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		api.POST("/generate-content",
			RateLimit(cfg.RateLimitPerMinute, time.Minute),
			validation.ValidateRequest(validation.ValidateGenerationBody),
			handlers.GenerateContent)
		api.GET("/status/:job_id", handlers.GetStatus)
		api.GET("/download/:job_id/:file_type", handlers.Download)
		api.GET("/video/:job_id", handlers.Video)
		api.GET("/audio/:job_id", handlers.Audio)
		api.GET("/slide/:job_id/:slide_number",
			validation.ValidateRequest(validation.ValidateSlideNumber("slide_number")),
			handlers.Slide)
		api.GET("/jobs",
			validation.ValidateRequest(validation.ValidateStatusQuery("status")),
			handlers.ListJobs)
		api.GET("/worker/stats", handlers.WorkerStats)
	}

	SetupSwagger(r, cfg.Environment)

	return r
}
