package visual

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/helloraviai-ctrl/vidyaaitest/internal/pipeline"
)

const (
	Width  = 1920
	Height = 1080

	margin     = 120
	glyphW     = 7 // basicfont.Face7x13
	glyphH     = 13
	lineFactor = 1.5
)

// Thèmes de couleur alternés d'une slide à l'autre
var themes = []struct {
	top, bottom, accent color.RGBA
}{
	{color.RGBA{0x1e, 0x3a, 0x8a, 0xff}, color.RGBA{0x0f, 0x17, 0x2a, 0xff}, color.RGBA{0x60, 0xa5, 0xfa, 0xff}},
	{color.RGBA{0x06, 0x5f, 0x46, 0xff}, color.RGBA{0x02, 0x2c, 0x22, 0xff}, color.RGBA{0x34, 0xd3, 0x99, 0xff}},
	{color.RGBA{0x7c, 0x2d, 0x12, 0xff}, color.RGBA{0x2a, 0x0f, 0x06, 0xff}, color.RGBA{0xfb, 0x92, 0x3c, 0xff}},
	{color.RGBA{0x58, 0x1c, 0x87, 0xff}, color.RGBA{0x1e, 0x0a, 0x2e, 0xff}, color.RGBA{0xc0, 0x84, 0xfc, 0xff}},
}

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	muted = color.RGBA{0xcb, 0xd5, 0xe1, 0xff}
)

// SlideRenderer dessine une slide PNG par section
type SlideRenderer struct{}

func NewSlideRenderer() *SlideRenderer {
	return &SlideRenderer{}
}

func (r *SlideRenderer) Render(ctx context.Context, req pipeline.SlideRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img := RenderSlide(req)

	f, err := os.Create(req.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", req.OutputPath, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode slide %d: %w", req.Index, err)
	}
	return f.Close()
}

// RenderSlide compose l'image 1920x1080 d'une section
func RenderSlide(req pipeline.SlideRequest) *image.RGBA {
	theme := themes[(max(req.Index, 1)-1)%len(themes)]
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fillGradient(img, theme.top, theme.bottom)

	c := &canvas{img: img, y: margin / 2}

	header := req.Topic
	if req.Total > 0 {
		header = fmt.Sprintf("%s  |  %d / %d", req.Topic, req.Index, req.Total)
	}
	c.line(header, 2, muted)
	c.y += 20
	draw.Draw(img, image.Rect(margin, c.y, Width-margin, c.y+6), image.NewUniform(theme.accent), image.Point{}, draw.Src)
	c.y += 50

	s := req.Section
	c.paragraph(s.Title, 5, white, 2)
	if s.Subheading != "" {
		c.paragraph(s.Subheading, 3, theme.accent, 1)
	}
	c.y += 30
	c.paragraph(s.Content, 3, white, 6)
	c.y += 20
	for _, point := range s.KeyPoints {
		c.paragraph("- "+point, 3, theme.accent, 2)
	}

	if s.VisualDescription != "" {
		c.y = max(c.y, Height-margin-2*glyphH*2)
		c.paragraph(s.VisualDescription, 2, muted, 2)
	}
	return img
}

type canvas struct {
	img *image.RGBA
	y   int
}

// paragraph coupe le texte à la largeur utile et dessine au plus maxLines lignes
func (c *canvas) paragraph(text string, scale int, col color.Color, maxLines int) {
	perLine := (Width - 2*margin) / (glyphW * scale)
	lines := wrap(text, perLine)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) > perLine-3 {
			last = last[:perLine-3]
		}
		lines[maxLines-1] = strings.TrimRight(string(last), " ") + "..."
	}
	for _, l := range lines {
		c.line(l, scale, col)
	}
}

// line dessine une ligne en police bitmap puis l'agrandit d'un facteur scale
func (c *canvas) line(text string, scale int, col color.Color) {
	lineH := int(float64(glyphH*scale) * lineFactor)
	if c.y+lineH > Height-margin/4 || text == "" {
		c.y += lineH
		return
	}

	w := glyphW * len([]rune(text))
	src := image.NewRGBA(image.Rect(0, 0, w, glyphH))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, basicfont.Face7x13.Ascent),
	}
	d.DrawString(text)

	dst := image.Rect(margin, c.y, margin+w*scale, c.y+glyphH*scale)
	draw.NearestNeighbor.Scale(c.img, dst, src, src.Bounds(), draw.Over, nil)
	c.y += lineH
}

func fillGradient(img *image.RGBA, top, bottom color.RGBA) {
	h := img.Bounds().Dy()
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h-1)
		row := color.RGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 0xff,
		}
		draw.Draw(img, image.Rect(0, y, img.Bounds().Dx(), y+1), image.NewUniform(row), image.Point{}, draw.Src)
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var current []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
