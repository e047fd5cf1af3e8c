package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

// TemplateGenerator produit un contenu déterministe sans appel réseau,
// pour le développement local et les tests de bout en bout.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

type templateSection struct {
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	KeyPoints         []string `json:"key_points"`
	VisualDescription string   `json:"visual_description"`
	DurationEstimate  int      `json:"duration_estimate"`
}

type templateExplanation struct {
	Summary         string            `json:"summary"`
	KeyConcepts     []string          `json:"key_concepts"`
	Sections        []templateSection `json:"sections"`
	FullExplanation string            `json:"full_explanation"`
}

func (g *TemplateGenerator) Generate(ctx context.Context, req pipeline.TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	topic := strings.TrimSpace(req.Topic)
	audience := req.TargetAudience
	if audience == "" {
		audience = "students"
	}

	all := []templateSection{
		{
			Title:   "Introduction to " + topic,
			Content: fmt.Sprintf("%s is a topic worth understanding. In this lesson for %s we build a %s level picture of it, one step at a time.", topic, audience, req.DifficultyLevel),
		},
		{
			Title:   "Core Ideas",
			Content: fmt.Sprintf("Every explanation of %s rests on a few core ideas. We name them first so the rest of the lesson has something to hang on to.", topic),
		},
		{
			Title:   "How It Works",
			Content: fmt.Sprintf("Next we look at how %s works in practice. Each part depends on the one before it, and together they form the whole.", topic),
		},
		{
			Title:   "Real-World Examples",
			Content: fmt.Sprintf("Examples make %s concrete. Look for it in everyday situations and notice how the core ideas show up again.", topic),
		},
		{
			Title:   "Common Misconceptions",
			Content: fmt.Sprintf("People often get parts of %s wrong. Spotting the usual mistakes is a quick way to check your understanding.", topic),
		},
		{
			Title:   "Summary",
			Content: fmt.Sprintf("We introduced %s, covered its core ideas, saw how it works and looked at examples. Review the key points to lock it in.", topic),
		},
	}

	n := req.MaxSections
	if n < 1 || n > len(all) {
		n = len(all)
	}

	out := templateExplanation{
		Summary:     fmt.Sprintf("A %s level introduction to %s for %s.", req.DifficultyLevel, topic, audience),
		KeyConcepts: []string{topic, "core ideas", "examples"},
	}

	narration := make([]string, 0, n)
	for i, s := range all[:n] {
		s.KeyPoints = []string{
			fmt.Sprintf("Part %d of %d", i+1, n),
			s.Title,
			"Connects to " + topic,
		}
		s.VisualDescription = fmt.Sprintf("Slide titled %q with the key points listed", s.Title)
		s.DurationEstimate = 30
		out.Sections = append(out.Sections, s)
		narration = append(narration, s.Title+". "+s.Content)
	}
	out.FullExplanation = strings.Join(narration, " ")

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
