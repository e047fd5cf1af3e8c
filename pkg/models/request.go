package models

import "strings"

const (
	DefaultDifficultyLevel = "beginner"
	DefaultTargetAudience  = "students"

	// MaxTopicLength bounds the topic accepted on submission, in characters.
	MaxTopicLength = 200
)

// GenerationRequest représente une demande de génération de contenu
// @Description Requête de génération d'une explication vidéo
type GenerationRequest struct {
	Topic           string `json:"topic" example:"Photosynthesis"`
	DifficultyLevel string `json:"difficulty_level,omitempty" example:"beginner"`
	TargetAudience  string `json:"target_audience,omitempty" example:"students"`
	VoiceName       string `json:"voice_name,omitempty" example:"en-US-AriaNeural"`
} // @name GenerationRequest

// Normalize trims every field and applies the defaults for omitted optional fields.
func (r *GenerationRequest) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.DifficultyLevel = strings.TrimSpace(r.DifficultyLevel)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)
	r.VoiceName = strings.TrimSpace(r.VoiceName)

	if r.DifficultyLevel == "" {
		r.DifficultyLevel = DefaultDifficultyLevel
	}
	if r.TargetAudience == "" {
		r.TargetAudience = DefaultTargetAudience
	}
}

// SubmitResponse est renvoyée après l'acceptation d'une demande
// @Description Accusé de réception d'une demande de génération
type SubmitResponse struct {
	JobID   string `json:"job_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status  string `json:"status" example:"processing"`
	Message string `json:"message" example:"Content generation started. Use the job_id to check progress."`
} // @name SubmitResponse
