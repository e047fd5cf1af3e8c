package pipeline

import (
	"context"
	"fmt"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

// Stage names used in failure messages and spans.
const (
	StagePrepare = "workspace"
	StageText    = "text generation"
	StageAudio   = "audio generation"
	StageVisuals = "visual generation"
	StageCompose = "video composition"
	StagePublish = "artifact upload"
)

// TextRequest contient les paramètres de génération du texte
type TextRequest struct {
	Topic           string
	DifficultyLevel string
	TargetAudience  string
	MaxSections     int
}

// TextGenerator produit le texte brut de l'explication
type TextGenerator interface {
	Generate(ctx context.Context, req TextRequest) (string, error)
}

// SpeechRequest décrit une narration à synthétiser dans OutputPath (WAV)
type SpeechRequest struct {
	Text       string
	VoiceName  string
	OutputPath string
}

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) error
}

// SlideRequest décrit une slide à rendre en PNG
type SlideRequest struct {
	Topic      string
	Section    models.Section
	Index      int // 1-based
	Total      int
	OutputPath string
}

type VisualGenerator interface {
	Render(ctx context.Context, req SlideRequest) error
}

// ComposeRequest regroupe la narration et les slides dans l'ordre
type ComposeRequest struct {
	AudioPath  string
	SlidePaths []string
	OutputDir  string
}

// Composer assemble un artefact lisible et retourne son chemin local
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) (string, error)
}

// StageError associe une erreur à l'étape qui l'a produite
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
