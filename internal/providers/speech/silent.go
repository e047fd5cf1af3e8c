package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

const (
	wordsPerSecond    = 2.5 // ~150 mots par minute
	minSilenceSeconds = 1
	maxSilenceSeconds = 600
)

// SilentSynthesizer écrit une piste silencieuse de la durée de lecture
// estimée du texte, quand aucun service vocal n'est configuré.
type SilentSynthesizer struct{}

func NewSilentSynthesizer() *SilentSynthesizer {
	return &SilentSynthesizer{}
}

// EstimateSeconds estime la durée de narration d'un texte
func EstimateSeconds(text string) int {
	words := len(strings.Fields(text))
	seconds := int(float64(words)/wordsPerSecond + 0.5)
	if seconds < minSilenceSeconds {
		return minSilenceSeconds
	}
	if seconds > maxSilenceSeconds {
		return maxSilenceSeconds
	}
	return seconds
}

func (s *SilentSynthesizer) Synthesize(ctx context.Context, req pipeline.SpeechRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seconds := EstimateSeconds(req.Text)
	pcm := make([]byte, seconds*SampleRate*Channels*BitsPerSample/8)

	f, err := os.Create(req.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", req.OutputPath, err)
	}
	if err := WriteWAV(f, pcm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
