// internal/validation/validation.go - Validation des entrées de l'API

package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

// ValidationConfig contient les limites appliquées aux requêtes
type ValidationConfig struct {
	MaxTopicLength     int // en caractères
	MaxVoiceNameLength int
}

// DefaultValidationConfig retourne les limites par défaut
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxTopicLength:     models.MaxTopicLength,
		MaxVoiceNameLength: 100,
	}
}

// Noms de voix Azure: en-US-AriaNeural, zh-CN-henan-YundengNeural...
var voiceNamePattern = regexp.MustCompile(`^[a-zA-Z]{2,3}-[a-zA-Z]{2,4}(-[a-zA-Z0-9]+)+$`)

// ValidationService gère la validation des entrées
type ValidationService struct {
	config *ValidationConfig
}

func NewValidationService(config *ValidationConfig) *ValidationService {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &ValidationService{config: config}
}

// ValidationError représente une erreur de validation avec détails
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// ValidationResult contient le résultat de validation
type ValidationResult struct {
	Valid  bool               `json:"valid"`
	Errors []*ValidationError `json:"errors,omitempty"`
}

// AddError ajoute une erreur de validation
func (vr *ValidationResult) AddError(field, value, message, code string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Code:    code,
	})
}

// Merge ajoute les erreurs d'un autre résultat
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil || other.Valid {
		return
	}
	vr.Valid = false
	vr.Errors = append(vr.Errors, other.Errors...)
}

// FirstMessage retourne le message de la première erreur
func (vr *ValidationResult) FirstMessage() string {
	if len(vr.Errors) == 0 {
		return ""
	}
	return vr.Errors[0].Message
}

// ValidateTopic vérifie que le sujet est présent et borné en caractères
func (vs *ValidationService) ValidateTopic(topic string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if !utf8.ValidString(topic) {
		result.AddError("topic", "", "topic must be valid UTF-8", "INVALID_ENCODING")
		return result
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		result.AddError("topic", "", "topic is required", "REQUIRED")
		return result
	}

	if n := utf8.RuneCountInString(topic); n > vs.config.MaxTopicLength {
		result.AddError("topic", truncate(topic, 50),
			fmt.Sprintf("topic too long (max %d characters)", vs.config.MaxTopicLength),
			"TOO_LONG")
	}

	for _, r := range topic {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			result.AddError("topic", truncate(topic, 50), "topic contains control characters", "CONTROL_CHARACTERS")
			break
		}
	}

	return result
}

// ValidateVoiceName vérifie le format d'un nom de voix, facultatif
func (vs *ValidationService) ValidateVoiceName(voice string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	voice = strings.TrimSpace(voice)
	if voice == "" {
		return result
	}
	if len(voice) > vs.config.MaxVoiceNameLength {
		result.AddError("voice_name", truncate(voice, 50),
			fmt.Sprintf("voice_name too long (max %d characters)", vs.config.MaxVoiceNameLength),
			"TOO_LONG")
		return result
	}
	if !voiceNamePattern.MatchString(voice) {
		result.AddError("voice_name", voice, "voice_name must look like en-US-AriaNeural", "INVALID_FORMAT")
	}
	return result
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
