// internal/worker/pool.go
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

var (
	ErrQueueFull   = errors.New("worker queue is full")
	ErrPoolStopped = errors.New("worker pool is not running")
)

// Processor exécute la génération complète d'un job
type Processor interface {
	Process(ctx context.Context, jobID string) error
}

// WorkerPool gère un pool de workers alimenté par une file bornée
type WorkerPool struct {
	processor Processor
	config    *PoolConfig
	log       zerolog.Logger
	workers   []*Worker
	jobQueue  chan string
	wg        sync.WaitGroup
	running   bool
	mu        sync.RWMutex
}

// PoolConfig contient la configuration du pool de workers
type PoolConfig struct {
	WorkerCount int           // Nombre de workers simultanés
	QueueSize   int           // Capacité de la file d'attente
	JobTimeout  time.Duration // Timeout par job, 0 = illimité
}

// DefaultPoolConfig retourne une configuration par défaut
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		WorkerCount: 3,
		QueueSize:   100,
		JobTimeout:  30 * time.Minute,
	}
}

// NewWorkerPool crée un nouveau pool de workers
func NewWorkerPool(processor Processor, config *PoolConfig, log zerolog.Logger) *WorkerPool {
	if config == nil {
		config = DefaultPoolConfig()
	}
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1
	}

	pool := &WorkerPool{
		processor: processor,
		config:    config,
		log:       log.With().Str("component", "worker_pool").Logger(),
		jobQueue:  make(chan string, config.QueueSize),
	}

	for i := 0; i < config.WorkerCount; i++ {
		pool.workers = append(pool.workers, NewWorker(i, processor, config, log))
	}

	return pool
}

// Start démarre les workers. Un pool arrêté ne redémarre pas.
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	p.log.Info().Int("workers", p.config.WorkerCount).Int("queue_size", p.config.QueueSize).Msg("Starting worker pool")

	for _, worker := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Start(ctx, p.jobQueue)
		}(worker)
	}

	p.running = true
	return nil
}

// Dispatch place le job dans la file sans bloquer
func (p *WorkerPool) Dispatch(jobID string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running {
		return ErrPoolStopped
	}

	select {
	case p.jobQueue <- jobID:
		p.log.Debug().Str("job_id", jobID).Int("queued", len(p.jobQueue)).Msg("Job queued for processing")
		return nil
	default:
		p.log.Warn().Str("job_id", jobID).Int("capacity", cap(p.jobQueue)).Msg("Job queue full")
		return ErrQueueFull
	}
}

// Stop ferme la file et attend la fin des workers. Les jobs déjà en file
// sont traités tant que le contexte de Start n'est pas annulé.
func (p *WorkerPool) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.log.Info().Msg("Stopping worker pool...")
	p.running = false
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info().Msg("Worker pool stopped")
	return nil
}

// GetStats retourne les statistiques du pool
func (p *WorkerPool) GetStats() models.WorkerStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := models.WorkerStats{
		WorkerCount:   len(p.workers),
		QueueSize:     len(p.jobQueue),
		QueueCapacity: cap(p.jobQueue),
		Running:       p.running,
		Workers:       make([]models.WorkerInfo, 0, len(p.workers)),
	}

	for _, worker := range p.workers {
		stats.Workers = append(stats.Workers, worker.GetStats())
	}

	return stats
}
