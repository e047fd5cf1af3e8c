// internal/worker/worker.go
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

const (
	StateIdle    = "idle"
	StateBusy    = "busy"
	StateStopped = "stopped"
)

// Worker représente un worker individuel qui traite les jobs
type Worker struct {
	id        int
	processor Processor
	config    *PoolConfig
	log       zerolog.Logger

	// État du worker - protégé par mutex
	mu           sync.RWMutex
	status       string
	currentJobID string

	// Statistiques - atomic pour éviter les locks
	jobsTotal   int64
	jobsSuccess int64
	jobsFailed  int64
}

// NewWorker crée un nouveau worker
func NewWorker(id int, processor Processor, config *PoolConfig, log zerolog.Logger) *Worker {
	return &Worker{
		id:        id,
		processor: processor,
		config:    config,
		log:       log.With().Str("component", "worker").Int("worker", id).Logger(),
		status:    StateIdle,
	}
}

func (w *Worker) setState(status, jobID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.status = status
	w.currentJobID = jobID
}

func (w *Worker) getState() (string, string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.status, w.currentJobID
}

func (w *Worker) processJob(ctx context.Context, jobID string) {
	w.setState(StateBusy, jobID)
	atomic.AddInt64(&w.jobsTotal, 1)
	defer w.setState(StateIdle, "")

	jobCtx := ctx
	if w.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.config.JobTimeout)
		defer cancel()
	}

	w.log.Info().Str("job_id", jobID).Msg("Processing job")
	start := time.Now()

	if err := w.run(jobCtx, jobID); err != nil {
		atomic.AddInt64(&w.jobsFailed, 1)
		w.log.Warn().Err(err).Str("job_id", jobID).Dur("duration", time.Since(start)).Msg("Job failed")
		return
	}

	atomic.AddInt64(&w.jobsSuccess, 1)
	w.log.Info().Str("job_id", jobID).Dur("duration", time.Since(start)).Msg("Job completed")
}

// run isole le worker d'un panic du processeur
func (w *Worker) run(ctx context.Context, jobID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("processor panic: %v", r)
		}
	}()
	return w.processor.Process(ctx, jobID)
}

// GetStats retourne les statistiques du worker
func (w *Worker) GetStats() models.WorkerInfo {
	status, currentJobID := w.getState()

	return models.WorkerInfo{
		ID:           w.id,
		Status:       status,
		CurrentJobID: currentJobID,
		JobsTotal:    atomic.LoadInt64(&w.jobsTotal),
		JobsSuccess:  atomic.LoadInt64(&w.jobsSuccess),
		JobsFailed:   atomic.LoadInt64(&w.jobsFailed),
	}
}

// Start écoute la file jusqu'à sa fermeture ou l'annulation du contexte
func (w *Worker) Start(ctx context.Context, jobQueue <-chan string) {
	w.log.Debug().Msg("Worker starting")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped due to context cancellation")
			w.setState(StateStopped, "")
			return
		case jobID, ok := <-jobQueue:
			if !ok {
				w.log.Info().Msg("Worker stopped - job queue closed")
				w.setState(StateStopped, "")
				return
			}

			w.processJob(ctx, jobID)
		}
	}
}
