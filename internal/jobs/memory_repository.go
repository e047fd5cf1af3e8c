package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

// memoryRepository garde les jobs en mémoire, perdus au redémarrage
type memoryRepository struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
	now  func() time.Time
}

func NewMemoryRepository() JobRepository {
	return &memoryRepository{
		jobs: make(map[string]*models.Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryRepository) Create(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("%w: %s", ErrJobExists, job.ID)
	}
	r.jobs[job.ID] = job.Clone()
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id string) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job.Clone(), nil
}

func (r *memoryRepository) Update(ctx context.Context, id string, upd models.JobUpdate) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	next := current.Clone()
	if err := next.Apply(upd, r.now()); err != nil {
		return nil, err
	}
	r.jobs[id] = next
	return next.Clone(), nil
}

func (r *memoryRepository) List(ctx context.Context, filters JobFilters) ([]*models.Job, error) {
	r.mu.RLock()
	jobs := make([]*models.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if filters.matches(job) {
			jobs = append(jobs, job.Clone())
		}
	}
	r.mu.RUnlock()

	return filters.paginate(jobs), nil
}

func (r *memoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs), nil
}

func (r *memoryRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted []string
	for id, job := range r.jobs {
		if isExpired(job, cutoff) {
			delete(r.jobs, id)
			deleted = append(deleted, id)
		}
	}
	return deleted, nil
}

func (r *memoryRepository) RecoverInterrupted(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recovered := 0
	now := r.now()
	for _, job := range r.jobs {
		if job.IsTerminal() {
			continue
		}
		if err := job.Apply(models.FailUpdate(interruptedMessage, nil), now); err == nil {
			recovered++
		}
	}
	return recovered, nil
}
