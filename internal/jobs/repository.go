package jobs

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobExists   = errors.New("job already exists")
	ErrEmptyTopic  = errors.New("topic is required")
)

// interruptedMessage est posé sur les jobs en cours lors d'un redémarrage
const interruptedMessage = "Content generation failed: interrupted by service restart"

// JobRepository persiste les jobs. Update applique models.Job.Apply de
// manière atomique vis-à-vis des lecteurs concurrents.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, id string, upd models.JobUpdate) (*models.Job, error)
	List(ctx context.Context, filters JobFilters) ([]*models.Job, error)
	Count(ctx context.Context) (int, error)

	// DeleteTerminalBefore supprime les jobs terminés avant cutoff et retourne leurs ids
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) ([]string, error)

	// RecoverInterrupted passe en failed tous les jobs non terminaux
	RecoverInterrupted(ctx context.Context) (int, error)
}

type JobFilters struct {
	Status models.JobStatus
	Limit  int
	Offset int
}

// matches applique les filtres de statut en mémoire
func (f JobFilters) matches(job *models.Job) bool {
	return f.Status == "" || job.Status == f.Status
}

// paginate trie par date de création décroissante puis applique offset et limit
func (f JobFilters) paginate(jobs []*models.Job) []*models.Job {
	sortNewestFirst(jobs)
	if f.Offset > 0 {
		if f.Offset >= len(jobs) {
			return []*models.Job{}
		}
		jobs = jobs[f.Offset:]
	}
	if f.Limit > 0 && len(jobs) > f.Limit {
		jobs = jobs[:f.Limit]
	}
	return jobs
}

func sortNewestFirst(jobs []*models.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
}

func isExpired(job *models.Job, cutoff time.Time) bool {
	if !job.IsTerminal() {
		return false
	}
	finished := job.UpdatedAt
	if job.CompletedAt != nil {
		finished = *job.CompletedAt
	}
	return finished.Before(cutoff)
}
