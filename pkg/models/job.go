package models

import (
	"errors"
	"fmt"
	"time"
)

type JobStatus string

const (
	StatusStarted              JobStatus = "started"
	StatusGeneratingText       JobStatus = "generating_text"
	StatusGeneratingAudio      JobStatus = "generating_audio"
	StatusGeneratingAnimations JobStatus = "generating_animations"
	StatusCombiningVideo       JobStatus = "combining_video"
	StatusCompleted            JobStatus = "completed"
	StatusFailed               JobStatus = "failed"
)

// statusRank orders the pipeline stages. failed is reachable from any
// non-terminal status and is kept out of the ladder.
var statusRank = map[JobStatus]int{
	StatusStarted:              0,
	StatusGeneratingText:       1,
	StatusGeneratingAudio:      2,
	StatusGeneratingAnimations: 3,
	StatusCombiningVideo:       4,
	StatusCompleted:            5,
}

var (
	// ErrJobTerminal is returned when an update targets a completed or failed job.
	ErrJobTerminal = errors.New("job is in a terminal state")

	// ErrInvalidTransition is returned when an update would break the job state machine.
	ErrInvalidTransition = errors.New("invalid job transition")
)

// Rank retourne la position du statut dans le pipeline, -1 si inconnu
func (s JobStatus) Rank() int {
	if s == StatusFailed {
		return len(statusRank)
	}
	if rank, ok := statusRank[s]; ok {
		return rank
	}
	return -1
}

func (s JobStatus) IsValid() bool {
	return s.Rank() >= 0
}

// IsTerminal retourne true si le statut est un état final
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ParseJobStatus validates a status coming from a query string.
func ParseJobStatus(value string) (JobStatus, bool) {
	status := JobStatus(value)
	return status, status.IsValid()
}

// AllStatuses lists every status in pipeline order, failed last.
func AllStatuses() []JobStatus {
	return []JobStatus{
		StatusStarted,
		StatusGeneratingText,
		StatusGeneratingAudio,
		StatusGeneratingAnimations,
		StatusCombiningVideo,
		StatusCompleted,
		StatusFailed,
	}
}

// Job is one user-initiated content generation request and its progress.
// @Description Etat courant d'un job de génération
type Job struct {
	ID              string      `json:"job_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status          JobStatus   `json:"status" example:"generating_audio"`
	Progress        int         `json:"progress" example:"30"`
	Message         string      `json:"message" example:"Converting text to speech..."`
	ResultData      *ResultData `json:"result_data,omitempty"`
	Error           string      `json:"error,omitempty"`
	Topic           string      `json:"topic" example:"Photosynthesis"`
	DifficultyLevel string      `json:"difficulty_level" example:"beginner"`
	TargetAudience  string      `json:"target_audience" example:"students"`
	VoiceName       string      `json:"voice_name,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
} // @name Job

// NewJob builds the initial record for a freshly submitted request.
func NewJob(id string, req *GenerationRequest) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:              id,
		Status:          StatusStarted,
		Progress:        0,
		Message:         "Starting content generation...",
		Topic:           req.Topic,
		DifficultyLevel: req.DifficultyLevel,
		TargetAudience:  req.TargetAudience,
		VoiceName:       req.VoiceName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsTerminal retourne true si le job est dans un état final
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// Request rebuilds the generation parameters stored on the job.
func (j *Job) Request() GenerationRequest {
	return GenerationRequest{
		Topic:           j.Topic,
		DifficultyLevel: j.DifficultyLevel,
		TargetAudience:  j.TargetAudience,
		VoiceName:       j.VoiceName,
	}
}

// Clone returns a deep copy so callers never share mutable state with a store.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	cp := *j
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cp.CompletedAt = &t
	}
	cp.ResultData = j.ResultData.Clone()
	return &cp
}

// JobUpdate carries the partial fields merged into a job by Apply.
// Empty Status and Message and zero Progress leave the current value untouched.
type JobUpdate struct {
	Status   JobStatus
	Progress int
	Message  string
	Error    string
	Result   *ResultData
}

// StageUpdate moves a job to the given pipeline stage.
func StageUpdate(status JobStatus, progress int, message string) JobUpdate {
	return JobUpdate{Status: status, Progress: progress, Message: message}
}

// FailUpdate marks a job failed. Progress stays frozen at its last value.
func FailUpdate(message string, cause error) JobUpdate {
	upd := JobUpdate{Status: StatusFailed, Message: message}
	if cause != nil {
		upd.Error = cause.Error()
	}
	return upd
}

// CompleteUpdate marks a job completed with its result payload.
func CompleteUpdate(message string, result *ResultData) JobUpdate {
	return JobUpdate{Status: StatusCompleted, Progress: 100, Message: message, Result: result}
}

// Apply merges upd into the job and enforces the job invariants:
// no stage regression, non-decreasing progress, result data only on
// completion, and no mutation once terminal.
func (j *Job) Apply(upd JobUpdate, now time.Time) error {
	if j.IsTerminal() {
		return fmt.Errorf("%w: job %s is %s", ErrJobTerminal, j.ID, j.Status)
	}

	next := j.Status
	if upd.Status != "" {
		if !upd.Status.IsValid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, upd.Status)
		}
		next = upd.Status
	}

	if next.Rank() < j.Status.Rank() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, next)
	}

	if next == StatusCompleted && upd.Result == nil {
		return fmt.Errorf("%w: completed job requires result data", ErrInvalidTransition)
	}
	if next != StatusCompleted && upd.Result != nil {
		return fmt.Errorf("%w: result data is only set on completion", ErrInvalidTransition)
	}

	progress := j.Progress
	switch next {
	case StatusCompleted:
		progress = 100
	case StatusFailed:
	default:
		if upd.Progress < 0 || upd.Progress > 100 {
			return fmt.Errorf("%w: progress %d out of range", ErrInvalidTransition, upd.Progress)
		}
		if upd.Progress != 0 {
			if upd.Progress < j.Progress {
				return fmt.Errorf("%w: progress %d -> %d", ErrInvalidTransition, j.Progress, upd.Progress)
			}
			progress = upd.Progress
		}
	}

	j.Status = next
	j.Progress = progress
	if upd.Message != "" {
		j.Message = upd.Message
	}
	if next == StatusFailed {
		j.Error = upd.Error
		if j.Error == "" {
			j.Error = j.Message
		}
	}
	if next == StatusCompleted {
		j.ResultData = upd.Result.Clone()
	}

	j.UpdatedAt = now
	if next.IsTerminal() {
		completed := now
		j.CompletedAt = &completed
	}

	return nil
}

// JobListResponse représente une liste de jobs
// @Description Liste de jobs
type JobListResponse struct {
	Jobs  []*Job `json:"jobs"`
	Count int    `json:"count" example:"25"`
	Total int    `json:"total" example:"42"`
} // @name JobListResponse
