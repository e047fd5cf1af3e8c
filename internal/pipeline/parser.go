package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

const (
	maxTitleLength = 100
	maxKeyPoints   = 3
)

var (
	ErrNoSections = errors.New("generated text contains no usable sections")

	controlChars   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	trailingCommas = regexp.MustCompile(`,(\s*[}\]])`)
	blankLines     = regexp.MustCompile(`\n\s*\n`)
	headingPrefix  = regexp.MustCompile(`^(#+\s*|\*\*|\d+[.)]\s+)`)
	sentenceEnd    = regexp.MustCompile(`[.!?](\s+|$)`)
)

// Explanation est le résultat structuré de l'étape texte
type Explanation struct {
	Summary       string
	KeyConcepts   []string
	Sections      []models.Section
	FullNarration string
}

// Narration retourne le texte lu par la synthèse vocale
func (e *Explanation) Narration() string {
	if strings.TrimSpace(e.FullNarration) != "" {
		return e.FullNarration
	}
	parts := make([]string, 0, len(e.Sections))
	for _, s := range e.Sections {
		parts = append(parts, s.Title+". "+s.Content)
	}
	return strings.Join(parts, "\n\n")
}

type rawSection struct {
	Title             string   `json:"title"`
	Subheading        string   `json:"subheading"`
	Content           string   `json:"content"`
	KeyPoints         []string `json:"key_points"`
	VisualDescription string   `json:"visual_description"`
	DurationEstimate  flexInt  `json:"duration_estimate"`
}

type rawExplanation struct {
	Summary         string       `json:"summary"`
	KeyConcepts     []string     `json:"key_concepts"`
	Sections        []rawSection `json:"sections"`
	FullExplanation string       `json:"full_explanation"`
}

// flexInt accepte 30 comme "30"
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// ParseExplanation transforme la réponse brute du générateur en sections
// ordonnées. Le JSON est tenté d'abord, puis un découpage sur les lignes vides.
func ParseExplanation(raw, topic string, maxSections int) (*Explanation, error) {
	if maxSections < 1 {
		maxSections = 1
	}

	if exp, ok := parseJSON(raw, maxSections); ok {
		if exp.Summary == "" {
			exp.Summary = defaultSummary(topic)
		}
		return exp, nil
	}

	sections := splitParagraphs(raw, maxSections)
	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	return &Explanation{
		Summary:       defaultSummary(topic),
		Sections:      sections,
		FullNarration: strings.TrimSpace(raw),
	}, nil
}

func defaultSummary(topic string) string {
	return fmt.Sprintf("An explanation of %s", topic)
}

// extractJSON isole l'objet JSON éventuellement entouré de ``` ou de texte
func extractJSON(raw string) (string, bool) {
	content := strings.TrimSpace(raw)

	if start := strings.Index(content, "```"); start >= 0 {
		body := content[start+3:]
		body = strings.TrimPrefix(body, "json")
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		content = strings.TrimSpace(body)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

func parseJSON(raw string, maxSections int) (*Explanation, bool) {
	candidate, ok := extractJSON(raw)
	if !ok {
		return nil, false
	}

	candidate = controlChars.ReplaceAllString(candidate, "")
	candidate = trailingCommas.ReplaceAllString(candidate, "$1")

	var data rawExplanation
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return nil, false
	}

	var sections []models.Section
	for _, rs := range data.Sections {
		if len(sections) == maxSections {
			break
		}
		title := strings.TrimSpace(rs.Title)
		content := strings.TrimSpace(rs.Content)
		if title == "" && content == "" {
			continue
		}
		section := models.Section{
			Title:             title,
			Subheading:        strings.TrimSpace(rs.Subheading),
			Content:           content,
			KeyPoints:         cleanList(rs.KeyPoints),
			VisualDescription: strings.TrimSpace(rs.VisualDescription),
			DurationEstimate:  int(rs.DurationEstimate),
		}
		sections = append(sections, completeSection(section, len(sections)+1))
	}
	if len(sections) == 0 {
		return nil, false
	}

	return &Explanation{
		Summary:       strings.TrimSpace(data.Summary),
		KeyConcepts:   cleanList(data.KeyConcepts),
		Sections:      sections,
		FullNarration: strings.TrimSpace(data.FullExplanation),
	}, true
}

// splitParagraphs découpe le texte libre sur les lignes vides
func splitParagraphs(raw string, maxSections int) []models.Section {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	var sections []models.Section
	for _, block := range blankLines.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if len(sections) == maxSections {
			break
		}

		var title, content string
		lines := strings.SplitN(block, "\n", 2)
		if len(lines) == 2 && isHeading(lines[0]) {
			title = cleanHeading(lines[0])
			content = strings.TrimSpace(lines[1])
		} else if isHeading(block) {
			// Un titre seul ouvre le paragraphe suivant, on le garde comme contenu
			content = cleanHeading(block)
		} else {
			content = block
		}

		sections = append(sections, completeSection(models.Section{
			Title:   title,
			Content: content,
		}, len(sections)+1))
	}
	return sections
}

// completeSection garantit titre, contenu, points clés, visuel et durée
func completeSection(s models.Section, n int) models.Section {
	if s.Title == "" {
		s.Title = fmt.Sprintf("Section %d", n)
	}
	if s.Content == "" {
		s.Content = s.Title
	}
	if r := []rune(s.Title); len(r) > maxTitleLength {
		s.Title = strings.TrimSpace(string(r[:maxTitleLength])) + "..."
	}
	if len(s.KeyPoints) == 0 {
		s.KeyPoints = leadingSentences(s.Content, maxKeyPoints)
	}
	if s.VisualDescription == "" {
		s.VisualDescription = "Visual representation of: " + s.Title
	}
	if s.DurationEstimate <= 0 {
		s.DurationEstimate = models.DefaultSectionDuration
	}
	return s
}

func isHeading(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > maxTitleLength || strings.Contains(line, "\n") {
		return false
	}
	if headingPrefix.MatchString(line) {
		return true
	}
	return !strings.ContainsAny(line[len(line)-1:], ".!?,;") && len(strings.Fields(line)) <= 12
}

func cleanHeading(line string) string {
	line = strings.TrimSpace(line)
	line = headingPrefix.ReplaceAllString(line, "")
	line = strings.Trim(line, "*#: ")
	return strings.TrimSpace(line)
}

func leadingSentences(text string, n int) []string {
	var out []string
	rest := strings.Join(strings.Fields(text), " ")
	for len(out) < n && rest != "" {
		loc := sentenceEnd.FindStringIndex(rest)
		var sentence string
		if loc == nil {
			sentence, rest = rest, ""
		} else {
			sentence, rest = rest[:loc[0]+1], rest[loc[1]:]
		}
		if sentence = strings.TrimSpace(sentence); sentence != "" {
			out = append(out, sentence)
		}
	}
	return out
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
