package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

func TestParseExplanationJSON(t *testing.T) {
	raw := "Here is your content:\n```json\n" + `{
  "summary": "Volcanoes release magma.",
  "key_concepts": ["magma", " ", "lava"],
  "sections": [
    {"title": "Magma", "content": "Molten rock forms below the crust.", "key_points": ["heat"], "duration_estimate": "40",},
    {"title": "", "content": ""},
    {"title": "Eruptions", "content": "Pressure builds. Then it erupts! Ash rises."}
  ],
  "full_explanation": "Volcanoes are openings in the crust."
}` + "\n```\nEnjoy!"

	exp, err := ParseExplanation(raw, "Volcanoes", 6)
	require.NoError(t, err)

	assert.Equal(t, "Volcanoes release magma.", exp.Summary)
	assert.Equal(t, []string{"magma", "lava"}, exp.KeyConcepts)
	assert.Equal(t, "Volcanoes are openings in the crust.", exp.Narration())
	require.Len(t, exp.Sections, 2)

	assert.Equal(t, "Magma", exp.Sections[0].Title)
	assert.Equal(t, 40, exp.Sections[0].DurationEstimate)
	assert.Equal(t, []string{"heat"}, exp.Sections[0].KeyPoints)

	second := exp.Sections[1]
	assert.Equal(t, "Eruptions", second.Title)
	assert.Equal(t, []string{"Pressure builds.", "Then it erupts!", "Ash rises."}, second.KeyPoints)
	assert.Equal(t, models.DefaultSectionDuration, second.DurationEstimate)
	assert.Equal(t, "Visual representation of: Eruptions", second.VisualDescription)
}

func TestParseExplanationStripsControlCharacters(t *testing.T) {
	raw := "{\"sections\":[{\"title\":\"Tabs\x01\",\"content\":\"Body\x0b text\"}]}"

	exp, err := ParseExplanation(raw, "Control", 6)
	require.NoError(t, err)
	require.Len(t, exp.Sections, 1)
	assert.Equal(t, "Tabs", exp.Sections[0].Title)
	assert.Equal(t, "Body text", exp.Sections[0].Content)
	assert.Equal(t, "An explanation of Control", exp.Summary)
}

func TestParseExplanationParagraphFallback(t *testing.T) {
	raw := "## Introduction\nEarthquakes shake the ground. They are sudden.\n\n" +
		"Tectonic plates move slowly over time.\n\n\n" +
		"   \n" +
		"1. Measuring\nSeismographs record waves."

	exp, err := ParseExplanation(raw, "earthquakes", 6)
	require.NoError(t, err)
	require.Len(t, exp.Sections, 3)

	assert.Equal(t, "Introduction", exp.Sections[0].Title)
	assert.Equal(t, "Earthquakes shake the ground. They are sudden.", exp.Sections[0].Content)
	assert.Equal(t, []string{"Earthquakes shake the ground.", "They are sudden."}, exp.Sections[0].KeyPoints)

	assert.Equal(t, "Section 2", exp.Sections[1].Title)
	assert.Equal(t, "Tectonic plates move slowly over time.", exp.Sections[1].Content)

	assert.Equal(t, "Measuring", exp.Sections[2].Title)
	assert.Equal(t, "An explanation of earthquakes", exp.Summary)
	assert.Equal(t, strings.TrimSpace(raw), exp.FullNarration)

	for _, s := range exp.Sections {
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Content)
		assert.Equal(t, 30, s.DurationEstimate)
	}
}

func TestParseExplanationCapsSections(t *testing.T) {
	raw := "One.\n\nTwo.\n\nThree.\n\nFour."

	exp, err := ParseExplanation(raw, "Counting", 2)
	require.NoError(t, err)
	require.Len(t, exp.Sections, 2)
	assert.Equal(t, "Section 1", exp.Sections[0].Title)
	assert.Equal(t, "Section 2", exp.Sections[1].Title)
}

func TestParseExplanationInvalidJSONFallsBack(t *testing.T) {
	raw := "{ this is not json }\n\nPlain paragraph."

	exp, err := ParseExplanation(raw, "Broken", 6)
	require.NoError(t, err)
	assert.Len(t, exp.Sections, 2)
}

func TestParseExplanationEmpty(t *testing.T) {
	_, err := ParseExplanation(" \n \n\t", "Nothing", 6)
	assert.True(t, errors.Is(err, ErrNoSections))
}

func TestNarrationFallsBackToSections(t *testing.T) {
	exp := &Explanation{Sections: []models.Section{
		{Title: "A", Content: "First."},
		{Title: "B", Content: "Second."},
	}}
	assert.Equal(t, "A. First.\n\nB. Second.", exp.Narration())
}

func TestWriteExplanation(t *testing.T) {
	exp := &Explanation{
		Summary:     "Short summary.",
		KeyConcepts: []string{"orbit", "gravity"},
		Sections: []models.Section{
			{Title: "Orbits", Subheading: "Going around", Content: "Moons orbit planets.", KeyPoints: []string{"moons"}},
		},
		FullNarration: "Everything orbits something.",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExplanation(&buf, "  solar system ", exp))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "=== EDUCATIONAL CONTENT ===\n"))
	assert.Contains(t, out, "Topic: Solar System\n")
	assert.Contains(t, out, "Key Concepts: orbit, gravity\n")
	assert.Contains(t, out, "--- SLIDE 1 ---\nTitle: Orbits\nSubheading: Going around\n")
	assert.Contains(t, out, "  - moons\n")
	assert.Contains(t, out, "Visual: N/A\n")
	assert.True(t, strings.HasSuffix(out, "=== FULL NARRATION ===\nEverything orbits something.\n"))
}
