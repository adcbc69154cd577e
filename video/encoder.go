package video

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
)

// Encoder writes frame sequences into an MP4 container via the ffmpeg binary.
type Encoder struct {
	ffmpegPath string
}

// NewEncoder locates ffmpeg on PATH. A missing binary is reported once at
// startup rather than per request.
func NewEncoder() (*Encoder, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found on PATH: %w", err)
	}
	return &Encoder{ffmpegPath: path}, nil
}

// Encode dumps the frames as a numbered PNG sequence in a scratch directory
// and muxes them into outPath at the requested frame rate.
func (e *Encoder) Encode(frames []*image.NRGBA, fps int, outPath string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	tempDir, err := os.MkdirTemp("", "mediagen_frames")
	if err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	for i, frame := range frames {
		framePath := filepath.Join(tempDir, fmt.Sprintf("frame_%05d.png", i))
		if err := writePNG(framePath, frame); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", i, err)
		}
	}

	cmd := exec.Command(e.ffmpegPath,
		"-y",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", filepath.Join(tempDir, "frame_%05d.png"),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", fps),
		outPath)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg encoding failed: %w, output: %s", err, string(output))
	}

	return nil
}

func writePNG(path string, frame *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, frame)
}
