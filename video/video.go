package video

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mediagen/providers"
)

// Request defines the parameters of a text-to-video generation.
type Request struct {
	Prompt     string
	Duration   int // seconds
	FPS        int
	Resolution string
	Style      string
}

// ResolutionDims maps a resolution name to fixed pixel dimensions.
// Unknown names map to 1080p.
func ResolutionDims(name string) (int, int) {
	switch name {
	case "720p":
		return 1280, 720
	case "1080p":
		return 1920, 1080
	case "4K":
		return 3840, 2160
	case "square":
		return 1024, 1024
	default:
		return 1920, 1080
	}
}

// Generator produces video files. Frame synthesis runs on the calling
// goroutine and blocks until the clip is done; long clips hold the interface
// for the full synthesis time.
type Generator struct {
	VideosDir string
	encoder   *Encoder
}

// NewGenerator creates a generator writing into videosDir. Encoder
// availability is decided here, once; when ffmpeg is missing every local path
// degrades to a placeholder artifact instead of failing mid-request.
func NewGenerator(videosDir string) *Generator {
	enc, err := NewEncoder()
	if err != nil {
		log.Printf("Warning: %v. Video synthesis will produce placeholder artifacts.", err)
	}
	return &Generator{
		VideosDir: videosDir,
		encoder:   enc,
	}
}

// Generate produces a video file for the request and returns its path.
// The hosted provider path is an intentional stub: it degrades to a
// placeholder artifact until a real integration lands.
func (g *Generator) Generate(kind providers.Kind, req Request) (string, error) {
	switch kind {
	case providers.KindRunway:
		log.Printf("Hosted video generation is not implemented; producing placeholder for prompt '%s'",
			providers.TruncatePrompt(req.Prompt, 50))
		return g.writePlaceholder(req)
	case providers.KindLocal:
		if g.encoder == nil {
			return g.writePlaceholder(req)
		}
		return g.generateLocal(req)
	default:
		return g.writePlaceholder(req)
	}
}

// ImageToVideo animates a source image with a motion effect chosen by the
// motion prompt and returns the path of the encoded clip.
func (g *Generator) ImageToVideo(imagePath, motionPrompt string, duration, fps int, resolution string) (string, error) {
	if g.encoder == nil {
		return g.writePlaceholder(Request{
			Prompt:     motionPrompt,
			Duration:   duration,
			FPS:        fps,
			Resolution: resolution,
			Style:      "Image2Video",
		})
	}

	src, err := imaging.Open(imagePath)
	if err != nil {
		return "", &providers.GenerationError{
			Provider: "local-video",
			Err:      fmt.Errorf("could not load image %s: %w", imagePath, err),
		}
	}

	width, height := ResolutionDims(resolution)
	base := imaging.Resize(src, width, height, imaging.Lanczos)

	totalFrames := duration * fps
	frames := make([]*image.NRGBA, 0, totalFrames)
	for i := 0; i < totalFrames; i++ {
		frames = append(frames, ApplyMotion(base, motionPrompt, i, totalFrames))
	}

	outPath := filepath.Join(g.VideosDir, videoFilename("i2v_local", "mp4"))
	if err := g.encoder.Encode(frames, fps, outPath); err != nil {
		return "", &providers.GenerationError{Provider: "local-video", Err: err}
	}
	return outPath, nil
}

// generateLocal synthesizes an animated clip from scratch: a circle orbiting
// the frame center over one full period, with the prompt overlaid. Style is
// accepted but does not vary the motion math yet.
func (g *Generator) generateLocal(req Request) (string, error) {
	width, height := ResolutionDims(req.Resolution)

	totalFrames := req.Duration * req.FPS
	frames := make([]*image.NRGBA, 0, totalFrames)
	for i := 0; i < totalFrames; i++ {
		frames = append(frames, renderAnimatedFrame(req.Prompt, i, totalFrames, width, height))
	}

	outPath := filepath.Join(g.VideosDir, videoFilename("local_video", "mp4"))
	if err := g.encoder.Encode(frames, req.FPS, outPath); err != nil {
		return "", &providers.GenerationError{Provider: "local-video", Err: err}
	}
	return outPath, nil
}

// renderAnimatedFrame draws one frame of the synthesized clip. The circle
// center orbits sinusoidally with amplitude dimension/4 and a period of one
// full clip, so output is deterministic in (frame index, total, dimensions).
func renderAnimatedFrame(prompt string, frameNum, totalFrames, width, height int) *image.NRGBA {
	frame := image.NewNRGBA(image.Rect(0, 0, width, height))

	progress := float64(frameNum) / float64(totalFrames)
	centerX := width/2 + int(math.Sin(progress*2*math.Pi)*float64(width)/4)
	centerY := height/2 + int(math.Cos(progress*2*math.Pi)*float64(height)/4)

	drawCircle(frame, centerX, centerY, 50, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	drawText(frame, providers.TruncatePrompt(prompt, 30), 50, 50)

	return frame
}

// drawCircle renders a filled circle clipped to the frame bounds.
func drawCircle(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	bounds := img.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// writePlaceholder records the request parameters in a text artifact. This is
// the designed degradation path; it reports what would have been generated and
// never raises past the documented failure modes.
func (g *Generator) writePlaceholder(req Request) (string, error) {
	outPath := filepath.Join(g.VideosDir, videoFilename("placeholder_video", "txt"))

	content := fmt.Sprintf(
		"Video Placeholder\nPrompt: %s\nDuration: %ds\nFPS: %d\nResolution: %s\nStyle: %s\nGenerated: %s\n\nNote: This is a placeholder. Install ffmpeg for actual video encoding.\n",
		req.Prompt, req.Duration, req.FPS, req.Resolution, req.Style,
		time.Now().Format(time.RFC3339),
	)

	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return "", &providers.GenerationError{
			Provider: "placeholder-video",
			Err:      fmt.Errorf("failed to write placeholder artifact: %w", err),
		}
	}
	return outPath, nil
}

// drawText renders a single line of white text at the given position.
func drawText(img draw.Image, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// videoFilename builds a unique file name from a timestamp and a random suffix.
func videoFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		prefix, time.Now().Format("20060102_150405"), uuid.NewString()[:8], ext)
}
