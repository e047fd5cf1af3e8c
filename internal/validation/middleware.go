// internal/validation/middleware.go
package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

const (
	validatorKey        = "validator"
	validatedRequestKey = "validated_request"
	validatedStatusKey  = "validated_status"
	validatedSlideKey   = "validated_slide_number"
)

// RequestValidator définit une fonction de validation pour une requête
type RequestValidator func(*gin.Context, *APIValidator) *ValidationResult

// InjectValidator place l'APIValidator dans le contexte gin
func InjectValidator(validator *APIValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(validatorKey, validator)
		c.Next()
	}
}

// ValidateRequest exécute les validators dans l'ordre et répond 400 au premier échec
func ValidateRequest(validators ...RequestValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		validator := GetValidator(c)
		if validator == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Validation service unavailable"})
			return
		}

		for _, validate := range validators {
			if result := validate(c, validator); !result.Valid {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":             result.FirstMessage(),
					"validation_errors": result.Errors,
				})
				return
			}
		}

		c.Next()
	}
}

func GetValidator(c *gin.Context) *APIValidator {
	if v, exists := c.Get(validatorKey); exists {
		if apiValidator, ok := v.(*APIValidator); ok {
			return apiValidator
		}
	}
	return nil
}

// ValidateGenerationBody décode le JSON de soumission puis le valide
func ValidateGenerationBody(c *gin.Context, v *APIValidator) *ValidationResult {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError("body", "", "Invalid JSON format: "+err.Error(), "JSON_PARSE_ERROR")
		return result
	}

	result := v.ValidateGenerationRequest(&req)
	if result.Valid {
		c.Set(validatedRequestKey, req)
	}
	return result
}

// ValidateStatusQuery valide le paramètre de requête name
func ValidateStatusQuery(name string) RequestValidator {
	return func(c *gin.Context, v *APIValidator) *ValidationResult {
		status, result := v.ValidateStatusParam(c.Query(name))
		if result.Valid {
			c.Set(validatedStatusKey, status)
		}
		return result
	}
}

// ValidateSlideNumber valide le paramètre d'URL name
func ValidateSlideNumber(name string) RequestValidator {
	return func(c *gin.Context, v *APIValidator) *ValidationResult {
		n, result := v.ValidateSlideNumberParam(c.Param(name))
		if result.Valid {
			c.Set(validatedSlideKey, n)
		}
		return result
	}
}

// GetValidatedRequest récupère la requête validée par ValidateGenerationBody
func GetValidatedRequest(c *gin.Context) (models.GenerationRequest, bool) {
	v, ok := c.Get(validatedRequestKey)
	if !ok {
		return models.GenerationRequest{}, false
	}
	req, ok := v.(models.GenerationRequest)
	return req, ok
}

func GetValidatedStatus(c *gin.Context) models.JobStatus {
	status, _ := c.Get(validatedStatusKey)
	s, _ := status.(models.JobStatus)
	return s
}

func GetValidatedSlideNumber(c *gin.Context) int {
	n, _ := c.Get(validatedSlideKey)
	i, _ := n.(int)
	return i
}
