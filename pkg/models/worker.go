package models

// WorkerStats représente les statistiques du pool de workers
// @Description Statistiques détaillées du pool de workers
type WorkerStats struct {
	WorkerCount   int          `json:"worker_count" example:"3"`
	QueueSize     int          `json:"queue_size" example:"5"`
	QueueCapacity int          `json:"queue_capacity" example:"20"`
	Running       bool         `json:"running" example:"true"`
	Workers       []WorkerInfo `json:"workers"`
} // @name WorkerStats

// WorkerInfo représente les informations d'un worker individuel
// @Description Informations sur un worker spécifique
type WorkerInfo struct {
	ID           int    `json:"id" example:"1"`
	Status       string `json:"status" example:"busy" enums:"idle,busy,stopped"`
	CurrentJobID string `json:"current_job_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440001"`
	JobsTotal    int64  `json:"jobs_total" example:"150"`
	JobsSuccess  int64  `json:"jobs_success" example:"145"`
	JobsFailed   int64  `json:"jobs_failed" example:"5"`
} // @name WorkerInfo
