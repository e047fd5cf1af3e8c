package visual

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

func TestSlideRendererWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "slide_1.png")
	req := pipeline.SlideRequest{
		Topic: "Photosynthesis",
		Section: models.Section{
			Title:             "Sunlight",
			Subheading:        "Where it starts",
			Content:           strings.Repeat("Leaves capture light energy. ", 40),
			KeyPoints:         []string{"Chlorophyll absorbs light", "Energy is stored"},
			VisualDescription: "A green leaf in the sun",
		},
		Index:      1,
		Total:      3,
		OutputPath: out,
	}

	require.NoError(t, NewSlideRenderer().Render(context.Background(), req))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestRenderSlideDrawsText(t *testing.T) {
	blank := RenderSlide(pipeline.SlideRequest{Index: 2, Section: models.Section{}})
	filled := RenderSlide(pipeline.SlideRequest{Index: 2, Section: models.Section{Title: "Gravity", Content: "Things fall down."}})

	differs := false
	for y := 0; y < Height && !differs; y += 4 {
		for x := 0; x < Width; x += 4 {
			if blank.RGBAAt(x, y) != filled.RGBAAt(x, y) {
				differs = true
				break
			}
		}
	}
	assert.True(t, differs, "text should change the rendered pixels")

	// le thème dépend de l'index de la slide
	other := RenderSlide(pipeline.SlideRequest{Index: 3})
	assert.NotEqual(t, blank.RGBAAt(0, 0), other.RGBAAt(0, 0))
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewSlideRenderer().Render(ctx, pipeline.SlideRequest{OutputPath: filepath.Join(t.TempDir(), "x.png")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"the quick", "brown fox"}, wrap("the quick brown fox", 10))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, wrap("abcdefghijk", 5))
	assert.Nil(t, wrap("   ", 10))
	assert.Equal(t, []string{"héllo", "wörld"}, wrap("héllo wörld", 5))
}
