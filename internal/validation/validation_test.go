package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

func TestValidateTopic(t *testing.T) {
	vs := NewValidationService(nil)

	testCases := []struct {
		name  string
		topic string
		valid bool
		code  string
	}{
		{"simple topic", "Photosynthesis", true, ""},
		{"max length", strings.Repeat("a", 200), true, ""},
		{"max length multibyte", strings.Repeat("é", 200), true, ""},
		{"empty", "", false, "REQUIRED"},
		{"whitespace only", "   \t ", false, "REQUIRED"},
		{"too long", strings.Repeat("a", 201), false, "TOO_LONG"},
		{"control character", "photo\x01synthesis", false, "CONTROL_CHARACTERS"},
		{"invalid utf8", "photo\xffsynthesis", false, "INVALID_ENCODING"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := vs.ValidateTopic(tc.topic)
			assert.Equal(t, tc.valid, result.Valid)
			if !tc.valid {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tc.code, result.Errors[0].Code)
				assert.Equal(t, "topic", result.Errors[0].Field)
			}
		})
	}
}

func TestValidateVoiceName(t *testing.T) {
	vs := NewValidationService(nil)

	assert.True(t, vs.ValidateVoiceName("").Valid)
	assert.True(t, vs.ValidateVoiceName("en-US-AriaNeural").Valid)
	assert.True(t, vs.ValidateVoiceName("zh-CN-henan-YundengNeural").Valid)
	assert.False(t, vs.ValidateVoiceName("Aria").Valid)
	assert.False(t, vs.ValidateVoiceName(`en-US-Aria"><break/>`).Valid)
	assert.False(t, vs.ValidateVoiceName("en-US-"+strings.Repeat("a", 120)).Valid)
}

func TestValidateGenerationRequest(t *testing.T) {
	av := NewAPIValidator(nil)

	result := av.ValidateGenerationRequest(&models.GenerationRequest{Topic: "Gravity"})
	assert.True(t, result.Valid)

	// niveau et public sont libres, quelle que soit leur longueur
	result = av.ValidateGenerationRequest(&models.GenerationRequest{
		Topic:           "Gravity",
		DifficultyLevel: strings.Repeat("x", 300),
		TargetAudience:  "first-year undergraduate biology students with no chemistry background",
	})
	assert.True(t, result.Valid)

	result = av.ValidateGenerationRequest(&models.GenerationRequest{
		Topic:           "",
		DifficultyLevel: strings.Repeat("x", 60),
		VoiceName:       "bad",
	})
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "topic is required", result.FirstMessage())
	assert.Equal(t, "voice_name", result.Errors[1].Field)
}

func TestValidateStatusParam(t *testing.T) {
	av := NewAPIValidator(nil)

	status, result := av.ValidateStatusParam("")
	assert.True(t, result.Valid)
	assert.Equal(t, models.JobStatus(""), status)

	status, result = av.ValidateStatusParam("generating_audio")
	assert.True(t, result.Valid)
	assert.Equal(t, models.StatusGeneratingAudio, status)

	_, result = av.ValidateStatusParam("pending")
	assert.False(t, result.Valid)
	assert.Equal(t, "INVALID_STATUS", result.Errors[0].Code)
	assert.Contains(t, result.FirstMessage(), "combining_video")
}

func TestValidateArtifactKindParam(t *testing.T) {
	av := NewAPIValidator(nil)

	for _, kind := range []string{"audio", "video", "text"} {
		parsed, result := av.ValidateArtifactKindParam(kind)
		assert.True(t, result.Valid, kind)
		assert.Equal(t, models.ArtifactKind(kind), parsed)
	}

	_, result := av.ValidateArtifactKindParam("all")
	assert.False(t, result.Valid)
	assert.Equal(t, "Invalid file type", result.FirstMessage())
}

func TestValidateSlideNumberParam(t *testing.T) {
	av := NewAPIValidator(nil)

	n, result := av.ValidateSlideNumberParam("3")
	assert.True(t, result.Valid)
	assert.Equal(t, 3, n)

	for _, value := range []string{"", "abc", "0", "-1", "101", "1.5"} {
		_, result := av.ValidateSlideNumberParam(value)
		assert.False(t, result.Valid, value)
	}
}

func TestValidationResultMerge(t *testing.T) {
	result := &ValidationResult{Valid: true}
	result.Merge(nil)
	result.Merge(&ValidationResult{Valid: true})
	assert.True(t, result.Valid)
	assert.Empty(t, result.FirstMessage())

	other := &ValidationResult{Valid: true}
	other.AddError("topic", "", "topic is required", "REQUIRED")
	result.Merge(other)
	assert.False(t, result.Valid)
	assert.EqualError(t, result.Errors[0], "validation error for topic: topic is required")
}
