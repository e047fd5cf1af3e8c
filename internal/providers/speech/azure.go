package speech

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

const (
	outputFormat = "riff-24khz-16bit-mono-pcm"
	maxChunkLen  = 1500
	maxErrorBody = 512
)

// AzureSynthesizer appelle l'API REST text-to-speech d'Azure Cognitive Services
type AzureSynthesizer struct {
	key          string
	endpoint     string
	defaultVoice string
	http         *http.Client
	log          zerolog.Logger
}

func NewAzureSynthesizer(key, region, defaultVoice string, log zerolog.Logger) *AzureSynthesizer {
	return &AzureSynthesizer{
		key:          key,
		endpoint:     fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region),
		defaultVoice: defaultVoice,
		http:         &http.Client{Timeout: 2 * time.Minute},
		log:          log.With().Str("component", "speech").Str("provider", "azure").Logger(),
	}
}

// Synthesize découpe les textes longs, synthétise chaque morceau puis
// concatène les échantillons dans un seul WAV
func (a *AzureSynthesizer) Synthesize(ctx context.Context, req pipeline.SpeechRequest) error {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return errors.New("nothing to synthesize")
	}
	voice := req.VoiceName
	if voice == "" {
		voice = a.defaultVoice
	}

	chunks := SplitText(text, maxChunkLen)
	var pcm []byte
	for i, chunk := range chunks {
		audio, err := a.synthesizeChunk(ctx, chunk, voice)
		if err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		data, err := ExtractPCM(audio)
		if err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		pcm = append(pcm, data...)
	}

	f, err := os.Create(req.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", req.OutputPath, err)
	}
	if err := WriteWAV(f, pcm); err != nil {
		f.Close()
		return err
	}

	a.log.Debug().
		Str("voice", voice).
		Int("chunks", len(chunks)).
		Float64("seconds", Duration(len(pcm))).
		Msg("Narration synthesized")
	return f.Close()
}

func (a *AzureSynthesizer) synthesizeChunk(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := buildSSML(text, voice)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", outputFormat)
	req.Header.Set("User-Agent", "vidya-worker")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("azure speech error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return io.ReadAll(resp.Body)
}

func buildSSML(text, voice string) ([]byte, error) {
	lang := "en-US"
	if parts := strings.SplitN(voice, "-", 3); len(parts) == 3 {
		lang = parts[0] + "-" + parts[1]
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="%s">`, lang)
	b.WriteString(`<voice name="`)
	if err := xml.EscapeText(&b, []byte(voice)); err != nil {
		return nil, err
	}
	b.WriteString(`">`)
	if err := xml.EscapeText(&b, []byte(text)); err != nil {
		return nil, err
	}
	b.WriteString(`</voice></speak>`)
	return b.Bytes(), nil
}

// SplitText coupe le texte en morceaux d'au plus maxLen octets, sur les fins de phrase
func SplitText(text string, maxLen int) []string {
	sentences := strings.SplitAfter(text, ". ")

	var chunks []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range sentences {
		if current.Len()+len(sentence) > maxLen {
			flush()
		}
		// Une phrase plus longue que maxLen est coupée sur les espaces
		for len(sentence) > maxLen {
			cut := strings.LastIndex(sentence[:maxLen], " ")
			if cut <= 0 {
				cut = maxLen
			}
			current.WriteString(sentence[:cut])
			flush()
			sentence = sentence[cut:]
		}
		current.WriteString(sentence)
	}
	flush()
	return chunks
}
