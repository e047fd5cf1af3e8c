package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

func TestChatClientGenerate(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"sections\":[]}  "}}]}`))
	}))
	defer server.Close()

	client := NewChatClient("groq", "secret", server.URL+"/", "llama-3.1-8b-instant", zerolog.Nop())
	out, err := client.Generate(context.Background(), pipeline.TextRequest{
		Topic: "Tides", DifficultyLevel: "beginner", TargetAudience: "students", MaxSections: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"sections":[]}`, out)

	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, `"Tides"`)
	assert.Contains(t, got.Messages[1].Content, "4 to 5 logical sections")
	assert.Equal(t, 4000, got.MaxTokens)
}

func TestChatClientErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"http error", http.StatusTooManyRequests, `{"error":"rate limit"}`, "groq error (status 429): {\"error\":\"rate limit\"}"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "groq returned no choices"},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, "groq returned empty content"},
		{"bad json", http.StatusOK, `not json`, "failed to decode groq response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewChatClient("groq", "k", server.URL, "m", zerolog.Nop())
			_, err := client.Generate(context.Background(), pipeline.TextRequest{Topic: "x"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestChatClientHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewChatClient("openai", "k", server.URL, "m", zerolog.Nop())
	_, err := client.Generate(ctx, pipeline.TextRequest{Topic: "x"})
	assert.Error(t, err)
}

func TestTemplateGeneratorParses(t *testing.T) {
	gen := NewTemplateGenerator()
	raw, err := gen.Generate(context.Background(), pipeline.TextRequest{
		Topic: "Photosynthesis", DifficultyLevel: "beginner", TargetAudience: "students", MaxSections: 4,
	})
	require.NoError(t, err)

	again, _ := gen.Generate(context.Background(), pipeline.TextRequest{
		Topic: "Photosynthesis", DifficultyLevel: "beginner", TargetAudience: "students", MaxSections: 4,
	})
	assert.Equal(t, raw, again)

	exp, err := pipeline.ParseExplanation(raw, "Photosynthesis", 6)
	require.NoError(t, err)
	require.Len(t, exp.Sections, 4)
	assert.Equal(t, "Introduction to Photosynthesis", exp.Sections[0].Title)
	for _, s := range exp.Sections {
		assert.NotEmpty(t, s.Content)
		assert.Len(t, s.KeyPoints, 3)
	}
	assert.Contains(t, exp.Narration(), "Core Ideas.")
}

func TestTemplateGeneratorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTemplateGenerator().Generate(ctx, pipeline.TextRequest{Topic: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
