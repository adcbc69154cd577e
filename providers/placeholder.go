package providers

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// placeholderFill is the solid background color of synthesized images.
var placeholderFill = color.NRGBA{R: 100, G: 150, B: 200, A: 255}

// PlaceholderProvider synthesizes solid-color placeholder images. It is the
// designed degradation path when no real generation back-end is available,
// and it never fails.
type PlaceholderProvider struct{}

// NewPlaceholderProvider creates the fallback provider.
func NewPlaceholderProvider() *PlaceholderProvider {
	return &PlaceholderProvider{}
}

// GetName returns the name of the provider.
func (p *PlaceholderProvider) GetName() string {
	return "Placeholder"
}

// Generate returns exactly Count images of the requested dimensions, each
// annotated with its index and a truncated prompt. An unparseable size falls
// back to 1024x1024 rather than erroring.
func (p *PlaceholderProvider) Generate(input ImageRequest) ([]image.Image, error) {
	width, height, err := ParseSize(input.Size)
	if err != nil {
		log.Printf("Placeholder: %v, defaulting to 1024x1024", err)
		width, height = 1024, 1024
	}

	count := input.Count
	if count < 1 {
		count = 1
	}

	images := make([]image.Image, 0, count)
	for i := 0; i < count; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(img, img.Bounds(), image.NewUniform(placeholderFill), image.Point{}, draw.Src)

		drawLabel(img, fmt.Sprintf("Generated Image %d", i+1), 10, 20)
		drawLabel(img, TruncatePrompt(input.Prompt, 50), 10, 36)

		images = append(images, img)
	}

	return images, nil
}

// drawLabel renders a single line of white text at the given position.
func drawLabel(img draw.Image, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
