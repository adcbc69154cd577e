package video

import (
	"image"
	"image/color"
	"testing"
)

// gradientImage builds a base frame whose pixel values vary with position, so
// displacement effects produce visible differences.
func gradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func framesEqual(a, b *image.NRGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if a.NRGBAAt(x, y) != b.NRGBAAt(x, y) {
				return false
			}
		}
	}
	return true
}

func TestApplyMotionPreservesDimensions(t *testing.T) {
	base := gradientImage(128, 96)

	for _, prompt := range []string{"zoom in slowly", "gentle ocean wave", "rotate clockwise", "pan left"} {
		t.Run(prompt, func(t *testing.T) {
			frame := ApplyMotion(base, prompt, 12, 48)
			if frame.Bounds() != base.Bounds() {
				t.Errorf("frame bounds %v, want %v", frame.Bounds(), base.Bounds())
			}
		})
	}
}

func TestApplyMotionUnmatchedPromptIsIdentity(t *testing.T) {
	base := gradientImage(64, 64)

	frame := ApplyMotion(base, "slow dolly shot", 10, 48)
	if !framesEqual(base, frame) {
		t.Error("unmatched motion prompt should yield an untouched copy")
	}
	if frame == base {
		t.Error("frame must be a copy, not the base image itself")
	}
}

func TestWaveFirstFrameIsIdentity(t *testing.T) {
	base := gradientImage(64, 64)

	// Amplitude follows sin(progress * 2pi); at frame zero it is exactly zero.
	frame := ApplyMotion(base, "wave", 0, 48)
	if !framesEqual(base, frame) {
		t.Error("wave at frame zero should be identical to the base")
	}
}

func TestWaveMidClipDisplacesPixels(t *testing.T) {
	base := gradientImage(64, 64)

	frame := ApplyMotion(base, "wave", 12, 48)
	if framesEqual(base, frame) {
		t.Error("wave at quarter clip should displace pixels on a gradient base")
	}
}

func TestRotateFullTurnIsIdentity(t *testing.T) {
	base := gradientImage(64, 64)

	frame := ApplyMotion(base, "rotate", 48, 48)
	if !framesEqual(base, frame) {
		t.Error("a full turn should land back on the source orientation")
	}
}

// meanChannelDiff averages the absolute RGB difference per channel per pixel.
func meanChannelDiff(a, b *image.NRGBA) float64 {
	bounds := a.Bounds()
	var sum, n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pa, pb := a.NRGBAAt(x, y), b.NRGBAAt(x, y)
			sum += absDiff(pa.R, pb.R) + absDiff(pa.G, pb.G) + absDiff(pa.B, pb.B)
			n += 3
		}
	}
	return sum / n
}

func absDiff(a, b uint8) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}

func TestRotateFinalFrameNearSource(t *testing.T) {
	base := gradientImage(64, 64)

	// The last frame of a clip sits at progress (n-1)/n, so it is rotated by
	// slightly less than a full turn and goes through the resampling path.
	totalFrames := 360
	frame := ApplyMotion(base, "rotate", totalFrames-1, totalFrames)

	if frame.Bounds() != base.Bounds() {
		t.Fatalf("frame bounds %v, want %v", frame.Bounds(), base.Bounds())
	}
	if framesEqual(base, frame) {
		t.Fatal("final frame should be resampled, not a bitwise copy")
	}
	if diff := meanChannelDiff(base, frame); diff > 10 {
		t.Errorf("final frame differs from source by %.1f per channel on average, want near-identity", diff)
	}
}

func TestMotionPromptMatchIsCaseInsensitive(t *testing.T) {
	base := gradientImage(64, 64)

	upper := ApplyMotion(base, "WAVE motion", 12, 48)
	lower := ApplyMotion(base, "wave motion", 12, 48)
	if !framesEqual(upper, lower) {
		t.Error("prompt casing should not change the selected effect")
	}
}
