package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleTopic met le sujet en casse de titre ("plate tectonics" -> "Plate Tectonics")
func TitleTopic(topic string) string {
	// Un Caser n'est pas sûr en concurrence, un par appel
	return cases.Title(language.English).String(strings.TrimSpace(topic))
}

// WriteExplanation écrit le document texte publié comme artefact "text"
func WriteExplanation(w io.Writer, topic string, exp *Explanation) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "=== EDUCATIONAL CONTENT ===")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Topic: %s\n", TitleTopic(topic))
	fmt.Fprintf(bw, "Summary: %s\n", orNA(exp.Summary))
	if len(exp.KeyConcepts) > 0 {
		fmt.Fprintf(bw, "Key Concepts: %s\n", strings.Join(exp.KeyConcepts, ", "))
	}
	fmt.Fprintln(bw)

	for i, s := range exp.Sections {
		fmt.Fprintf(bw, "--- SLIDE %d ---\n", i+1)
		fmt.Fprintf(bw, "Title: %s\n", s.Title)
		if s.Subheading != "" {
			fmt.Fprintf(bw, "Subheading: %s\n", s.Subheading)
		}
		fmt.Fprintf(bw, "Content: %s\n", s.Content)
		fmt.Fprintln(bw, "Key Points:")
		for _, p := range s.KeyPoints {
			fmt.Fprintf(bw, "  - %s\n", p)
		}
		fmt.Fprintf(bw, "Visual: %s\n", orNA(s.VisualDescription))
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "=== FULL NARRATION ===")
	fmt.Fprintln(bw, exp.Narration())

	return bw.Flush()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
