// internal/validation/api_validation.go - Validation spécifique à l'API

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

// MaxSlideNumber borne le paramètre slide_number
const MaxSlideNumber = 100

// APIValidator gère la validation des requêtes API
type APIValidator struct {
	validationService *ValidationService
}

func NewAPIValidator(config *ValidationConfig) *APIValidator {
	return &APIValidator{
		validationService: NewValidationService(config),
	}
}

// ValidateGenerationRequest valide une requête de génération
func (av *APIValidator) ValidateGenerationRequest(req *models.GenerationRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	result.Merge(av.validationService.ValidateTopic(req.Topic))
	// difficulty_level et target_audience sont libres
	result.Merge(av.validationService.ValidateVoiceName(req.VoiceName))

	return result
}

// ValidateStatusParam valide un filtre de statut, facultatif
func (av *APIValidator) ValidateStatusParam(status string) (models.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	if status == "" {
		return "", result
	}

	parsed, ok := models.ParseJobStatus(status)
	if !ok {
		result.AddError("status", status,
			fmt.Sprintf("invalid status (must be one of: %s)", joinStatuses()),
			"INVALID_STATUS")
		return "", result
	}
	return parsed, result
}

// ValidateArtifactKindParam valide le type de fichier demandé au téléchargement
func (av *APIValidator) ValidateArtifactKindParam(kind string) (models.ArtifactKind, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	parsed, ok := models.ParseArtifactKind(kind)
	if !ok {
		result.AddError("file_type", kind, "Invalid file type", "INVALID_FILE_TYPE")
	}
	return parsed, result
}

// ValidateSlideNumberParam valide un numéro de slide (à partir de 1)
func (av *APIValidator) ValidateSlideNumberParam(value string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	n, err := strconv.Atoi(value)
	switch {
	case err != nil:
		result.AddError("slide_number", value, "slide number must be a valid integer", "INVALID_NUMBER")
	case n < 1:
		result.AddError("slide_number", value, "slide number must be at least 1", "OUT_OF_RANGE")
	case n > MaxSlideNumber:
		result.AddError("slide_number", value,
			fmt.Sprintf("slide number too large (max %d)", MaxSlideNumber), "OUT_OF_RANGE")
	}
	return n, result
}

func joinStatuses() string {
	statuses := models.AllStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
