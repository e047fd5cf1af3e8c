package jobs

import (
	"context"
	"time"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

type JobService interface {
	SubmitJob(ctx context.Context, req *models.GenerationRequest) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, status models.JobStatus) ([]*models.Job, error)
	UpdateJob(ctx context.Context, id string, upd models.JobUpdate) (*models.Job, error)
	CountJobs(ctx context.Context) (int, error)
	CleanupOldJobs(ctx context.Context, maxAge time.Duration) (int64, error)
	RecoverInterrupted(ctx context.Context) (int, error)
}

// Dispatcher remet un job au pool d'exécution sans attendre son traitement
type Dispatcher interface {
	Dispatch(jobID string) error
}

// ArtifactCleaner supprime les artefacts publiés d'un job évincé
type ArtifactCleaner interface {
	DeleteJobArtifacts(ctx context.Context, jobID string) error
}
