package video

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// ApplyMotion returns the frame at frameNum for a clip animating the base
// image. The effect is selected by case-insensitive substring match on the
// motion prompt: "zoom", "wave", or "rotate". A prompt matching none of them
// yields an untouched copy of the base frame.
func ApplyMotion(base *image.NRGBA, motionPrompt string, frameNum, totalFrames int) *image.NRGBA {
	progress := float64(frameNum) / float64(totalFrames)
	prompt := strings.ToLower(motionPrompt)

	switch {
	case strings.Contains(prompt, "zoom"):
		return zoomFrame(base, progress)
	case strings.Contains(prompt, "wave"):
		return waveFrame(base, progress)
	case strings.Contains(prompt, "rotate"):
		return rotateFrame(base, progress)
	default:
		return imaging.Clone(base)
	}
}

// zoomFrame scales the image up to +20% over the clip, about its center.
// Scaling then cropping back to the source dimensions is the same affine
// transform as scaling about the center point.
func zoomFrame(base *image.NRGBA, progress float64) *image.NRGBA {
	bounds := base.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	scale := 1.0 + 0.2*progress
	scaled := imaging.Resize(base, int(float64(width)*scale), int(float64(height)*scale), imaging.Lanczos)
	return imaging.CropCenter(scaled, width, height)
}

// waveFrame displaces pixels sinusoidally. The displacement is sampled on a
// coarse 4px grid to keep per-frame cost down, and its amplitude follows a
// sine of the clip progress, so the wave swells and recedes once per clip.
func waveFrame(base *image.NRGBA, progress float64) *image.NRGBA {
	frame := imaging.Clone(base)
	bounds := base.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()

	amp := 20 * math.Sin(progress*2*math.Pi)

	for i := 0; i < rows; i += 4 {
		for j := 0; j < cols; j += 4 {
			offsetX := int(amp * math.Sin(2*math.Pi*float64(i)/50))
			offsetY := int(amp * math.Sin(2*math.Pi*float64(j)/50))

			if i+offsetY >= 0 && i+offsetY < rows && j+offsetX >= 0 && j+offsetX < cols {
				frame.SetNRGBA(j, i, base.NRGBAAt(j+offsetX, i+offsetY))
			}
		}
	}

	return frame
}

// rotateFrame turns the image by 360 degrees over the clip, about its center.
// Whole turns land back on the source orientation and need no resampling.
func rotateFrame(base *image.NRGBA, progress float64) *image.NRGBA {
	angle := 360 * progress
	if math.Mod(angle, 360) == 0 {
		return imaging.Clone(base)
	}

	bounds := base.Bounds()
	rotated := imaging.Rotate(base, -angle, color.NRGBA{A: 255})
	return imaging.CropCenter(rotated, bounds.Dx(), bounds.Dy())
}
