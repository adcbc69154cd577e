//go:build ignore

package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // Import for JPEG decoding
	_ "image/png"  // Import for PNG decoding
	"log"
	"os"

	"github.com/chai2010/webp"

	"mediagen/video"
)

// Renders a single frame of a motion effect to a webp file, to preview how a
// clip will look without encoding the whole video.
func main() {
	inputFile := flag.String("i", "", "Input file path (webp, png, or jpg)")
	outputFile := flag.String("o", "motion_preview.webp", "Output file path")
	effect := flag.String("effect", "zoom", "Motion effect: zoom, wave, or rotate")
	frame := flag.Int("frame", 15, "Frame index to render")
	total := flag.Int("total", 30, "Total frames in the clip")
	flag.Parse()

	if *inputFile == "" {
		fmt.Println("Input file is required. Use -i flag.")
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("Failed to decode image: %v", err)
	}

	base := image.NewNRGBA(img.Bounds())
	draw.Draw(base, base.Bounds(), img, img.Bounds().Min, draw.Src)

	result := video.ApplyMotion(base, *effect, *frame, *total)

	rgba := image.NewRGBA(result.Bounds())
	draw.Draw(rgba, rgba.Bounds(), result, result.Bounds().Min, draw.Src)

	outputData, err := webp.EncodeRGBA(rgba, 100.0)
	if err != nil {
		log.Fatalf("Failed to encode webp image: %v", err)
	}

	if err := os.WriteFile(*outputFile, outputData, 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}

	fmt.Printf("Rendered frame %d/%d of effect '%s' to %s\n", *frame, *total, *effect, *outputFile)
}
