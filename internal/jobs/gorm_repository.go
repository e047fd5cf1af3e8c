package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

// JobRecord est la ligne postgres d'un job
type JobRecord struct {
	ID              string         `gorm:"type:varchar(36);primaryKey"`
	Status          string         `gorm:"type:varchar(32);not null;index"`
	Progress        int            `gorm:"not null;default:0"`
	Message         string         `gorm:"type:text"`
	ResultData      datatypes.JSON `gorm:"type:jsonb"`
	Error           string         `gorm:"type:text"`
	Topic           string         `gorm:"type:varchar(200);not null"`
	DifficultyLevel string         `gorm:"type:text"`
	TargetAudience  string         `gorm:"type:text"`
	VoiceName       string         `gorm:"type:varchar(128)"`
	CreatedAt       time.Time      `gorm:"index"`
	UpdatedAt       time.Time
	CompletedAt     *time.Time `gorm:"index"`
}

func (JobRecord) TableName() string {
	return "generation_jobs"
}

func newJobRecord(job *models.Job) (*JobRecord, error) {
	rec := &JobRecord{
		ID:              job.ID,
		Status:          string(job.Status),
		Progress:        job.Progress,
		Message:         job.Message,
		Error:           job.Error,
		Topic:           job.Topic,
		DifficultyLevel: job.DifficultyLevel,
		TargetAudience:  job.TargetAudience,
		VoiceName:       job.VoiceName,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
		CompletedAt:     job.CompletedAt,
	}
	if job.ResultData != nil {
		data, err := json.Marshal(job.ResultData)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result data: %w", err)
		}
		rec.ResultData = datatypes.JSON(data)
	}
	return rec, nil
}

func (r *JobRecord) toModel() (*models.Job, error) {
	job := &models.Job{
		ID:              r.ID,
		Status:          models.JobStatus(r.Status),
		Progress:        r.Progress,
		Message:         r.Message,
		Error:           r.Error,
		Topic:           r.Topic,
		DifficultyLevel: r.DifficultyLevel,
		TargetAudience:  r.TargetAudience,
		VoiceName:       r.VoiceName,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		CompletedAt:     r.CompletedAt,
	}
	if len(r.ResultData) > 0 {
		var result models.ResultData
		if err := json.Unmarshal(r.ResultData, &result); err != nil {
			return nil, fmt.Errorf("failed to decode result data of job %s: %w", r.ID, err)
		}
		job.ResultData = &result
	}
	return job, nil
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository attend une base dont la table generation_jobs est migrée
func NewGormRepository(db *gorm.DB) JobRepository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, job *models.Job) error {
	rec, err := newJobRecord(job)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrJobExists, job.ID)
		}
		return err
	}
	return nil
}

func (r *gormRepository) Get(ctx context.Context, id string) (*models.Job, error) {
	var rec JobRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, err
	}
	return rec.toModel()
}

// Update verrouille la ligne (SELECT ... FOR UPDATE) le temps d'appliquer la transition
func (r *gormRepository) Update(ctx context.Context, id string, upd models.JobUpdate) (*models.Job, error) {
	var updated *models.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec JobRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrJobNotFound, id)
			}
			return err
		}

		job, err := rec.toModel()
		if err != nil {
			return err
		}
		if err := job.Apply(upd, time.Now().UTC()); err != nil {
			return err
		}

		next, err := newJobRecord(job)
		if err != nil {
			return err
		}
		if err := tx.Save(next).Error; err != nil {
			return err
		}

		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *gormRepository) List(ctx context.Context, filters JobFilters) ([]*models.Job, error) {
	query := r.db.WithContext(ctx).Model(&JobRecord{})

	if filters.Status != "" {
		query = query.Where("status = ?", string(filters.Status))
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var records []JobRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	jobs := make([]*models.Job, 0, len(records))
	for i := range records {
		job, err := records[i].toModel()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *gormRepository) Count(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&JobRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func terminalStatuses() []string {
	return []string{string(models.StatusCompleted), string(models.StatusFailed)}
}

func (r *gormRepository) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&JobRecord{}).
			Where("status IN ? AND completed_at < ?", terminalStatuses(), cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("id IN ?", ids).Delete(&JobRecord{}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// RecoverInterrupted gèle la progression et marque failed tout job resté en cours
func (r *gormRepository) RecoverInterrupted(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&JobRecord{}).
		Where("status NOT IN ?", terminalStatuses()).
		Updates(map[string]interface{}{
			"status":       string(models.StatusFailed),
			"message":      interruptedMessage,
			"error":        interruptedMessage,
			"updated_at":   now,
			"completed_at": now,
		})
	return int(result.RowsAffected), result.Error
}
