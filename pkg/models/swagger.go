// pkg/models/swagger.go
package models

// ErrorResponse représente une réponse d'erreur standard
// @Description Réponse d'erreur standard de l'API
type ErrorResponse struct {
	Error            string            `json:"error" example:"Job not found"`
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
} // @name ErrorResponse

// ValidationError représente une erreur de validation spécifique
// @Description Détail d'une erreur de validation
type ValidationError struct {
	Field   string `json:"field" example:"topic"`
	Value   string `json:"value" example:""`
	Message string `json:"message" example:"topic is required"`
	Code    string `json:"code" example:"REQUIRED"`
} // @name ValidationError

// HealthResponse représente la réponse du health check
// @Description Statut de santé du service
type HealthResponse struct {
	Message   string `json:"message" example:"Vidya content generation API"`
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp" example:"2025-01-17T10:30:00Z"`
	Version   string `json:"version" example:"1.0.0"`
} // @name HealthResponse
