package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

const (
	redisScanCount     = 200
	redisUpdateRetries = 10
)

// redisRepository stocke un document JSON par job sous <prefix><job_id>
type redisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRepository(client *redis.Client, prefix string) JobRepository {
	if prefix == "" {
		prefix = "vidya:job:"
	}
	return &redisRepository{client: client, prefix: prefix}
}

func (r *redisRepository) key(id string) string {
	return r.prefix + id
}

func (r *redisRepository) Create(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}

	created, err := r.client.SetNX(ctx, r.key(job.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%w: %s", ErrJobExists, job.ID)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, id string) (*models.Job, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, err
	}
	return decodeJob(data)
}

// Update applique la transition dans une transaction optimiste WATCH/MULTI,
// rejouée si un autre client modifie le job entre temps.
func (r *redisRepository) Update(ctx context.Context, id string, upd models.JobUpdate) (*models.Job, error) {
	key := r.key(id)

	for attempt := 0; attempt < redisUpdateRetries; attempt++ {
		var updated *models.Job

		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return fmt.Errorf("%w: %s", ErrJobNotFound, id)
				}
				return err
			}

			job, err := decodeJob(data)
			if err != nil {
				return err
			}
			if err := job.Apply(upd, time.Now().UTC()); err != nil {
				return err
			}

			out, err := json.Marshal(job)
			if err != nil {
				return fmt.Errorf("failed to encode job %s: %w", id, err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, 0)
				return nil
			})
			if err == nil {
				updated = job
			}
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, fmt.Errorf("job %s: too many concurrent updates", id)
}

func (r *redisRepository) List(ctx context.Context, filters JobFilters) ([]*models.Job, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	jobs := make([]*models.Job, 0, len(all))
	for _, job := range all {
		if filters.matches(job) {
			jobs = append(jobs, job)
		}
	}
	return filters.paginate(jobs), nil
}

func (r *redisRepository) Count(ctx context.Context) (int, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (r *redisRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	var keys []string
	for _, job := range all {
		if isExpired(job, cutoff) {
			ids = append(ids, job.ID)
			keys = append(keys, r.key(job.ID))
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// Les jobs terminaux ne changent plus, un simple DEL suffit
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *redisRepository) RecoverInterrupted(ctx context.Context) (int, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, job := range all {
		if job.IsTerminal() {
			continue
		}
		if _, err := r.Update(ctx, job.ID, models.FailUpdate(interruptedMessage, nil)); err != nil {
			if errors.Is(err, models.ErrJobTerminal) || errors.Is(err, ErrJobNotFound) {
				continue
			}
			return recovered, err
		}
		recovered++
	}
	return recovered, nil
}

func (r *redisRepository) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan job keys: %w", err)
	}
	return keys, nil
}

func (r *redisRepository) loadAll(ctx context.Context) ([]*models.Job, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	jobs := make([]*models.Job, 0, len(values))
	for i, value := range values {
		// Clé supprimée entre SCAN et MGET
		raw, ok := value.(string)
		if !ok {
			continue
		}
		job, err := decodeJob([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", strings.TrimPrefix(keys[i], r.prefix), err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func decodeJob(data []byte) (*models.Job, error) {
	var job models.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}
