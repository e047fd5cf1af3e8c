package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

const (
	systemPrompt = "You are an expert educational content creator. Generate structured, engaging explanations " +
		"that are perfect for creating educational videos with audio narration and visual slides."

	maxErrorBody = 512
)

// ChatClient parle à une API compatible OpenAI /chat/completions (Groq, OpenAI)
type ChatClient struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTP        *http.Client
	log         zerolog.Logger
}

func NewChatClient(provider, apiKey, baseURL, model string, log zerolog.Logger) *ChatClient {
	return &ChatClient{
		Provider:    provider,
		APIKey:      apiKey,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   4000,
		HTTP:        &http.Client{Timeout: 5 * time.Minute},
		log:         log.With().Str("component", "llm").Str("provider", provider).Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

func (c *ChatClient) Generate(ctx context.Context, req pipeline.TextRequest) (string, error) {
	body := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(req)},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s request: %w", c.Provider, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", c.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%s error (status %d): %s", c.Provider, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var res chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("failed to decode %s response: %w", c.Provider, err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", c.Provider)
	}

	content := strings.TrimSpace(res.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New(c.Provider + " returned empty content")
	}

	c.log.Debug().
		Str("model", c.Model).
		Int("chars", len(content)).
		Dur("duration", time.Since(start)).
		Msg("Explanation generated")
	return content, nil
}

// BuildPrompt décrit au modèle le JSON attendu par le parseur
func BuildPrompt(req pipeline.TextRequest) string {
	sections := req.MaxSections
	if sections < 1 {
		sections = 6
	}
	minSections := 4
	if minSections > sections {
		minSections = sections
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a comprehensive educational explanation for the topic: %q\n\n", req.Topic)
	fmt.Fprintf(&b, "Target Audience: %s\n", req.TargetAudience)
	fmt.Fprintf(&b, "Difficulty Level: %s\n\n", req.DifficultyLevel)
	fmt.Fprintf(&b, "Break the explanation into %d to %d logical sections. For each section provide a concise title, ", minSections, sections)
	b.WriteString("2-3 clear paragraphs of content, 3-4 key points, a description of what the slide should show, ")
	b.WriteString("and an estimated narration duration in seconds. Also provide a 2-3 sentence summary, ")
	b.WriteString("3-5 key concepts and the full explanation as one flowing text suitable for narration.\n\n")
	fmt.Fprintf(&b, "Use simple, conversational language appropriate for %s, with examples and analogies.\n\n", req.TargetAudience)
	b.WriteString("Return only a valid JSON object, without markdown or code fences, with this structure:\n")
	b.WriteString(`{"summary": "...", "key_concepts": ["..."], "sections": [{"title": "...", "subheading": "...", ` +
		`"content": "...", "key_points": ["..."], "visual_description": "...", "duration_estimate": 30}], ` +
		`"full_explanation": "..."}`)
	b.WriteString("\n")
	return b.String()
}
