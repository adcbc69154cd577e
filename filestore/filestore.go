package filestore

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kind selects which directory of generated media to operate on.
type Kind string

const (
	KindImages Kind = "images"
	KindVideos Kind = "videos"
	KindAll    Kind = "all"
)

// Store persists generated media under a fixed directory tree:
// <root>/{images,videos,temp}. There is no atomicity guarantee across
// concurrent writers; the application assumes a single user.
type Store struct {
	Root      string
	ImagesDir string
	VideosDir string
	TempDir   string
}

// NewStore creates the directory tree under root if it does not exist.
func NewStore(root string) (*Store, error) {
	s := &Store{
		Root:      root,
		ImagesDir: filepath.Join(root, "images"),
		VideosDir: filepath.Join(root, "videos"),
		TempDir:   filepath.Join(root, "temp"),
	}
	for _, dir := range []string{s.ImagesDir, s.VideosDir, s.TempDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// SaveImage encodes an in-memory image as PNG into the images directory and
// returns its path.
func (s *Store) SaveImage(img image.Image) (string, error) {
	path := filepath.Join(s.ImagesDir, uniqueName("image", "png"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return path, nil
}

// SaveImageBytes writes already-encoded image data into the images directory.
func (s *Store) SaveImageBytes(data []byte, ext string) (string, error) {
	path := filepath.Join(s.ImagesDir, uniqueName("image", ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return path, nil
}

// SaveTempUpload stores an uploaded file in the temp directory, keeping the
// original name as a suffix for traceability.
func (s *Store) SaveTempUpload(r io.Reader, origName string) (string, error) {
	name := fmt.Sprintf("temp_%s_%s", time.Now().Format("20060102_150405"), filepath.Base(origName))
	path := filepath.Join(s.TempDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return path, nil
}

// ListGenerated returns paths of generated media, most recently modified first.
func (s *Store) ListGenerated(kind Kind) ([]string, error) {
	var dirs []string
	switch kind {
	case KindImages:
		dirs = []string{s.ImagesDir}
	case KindVideos:
		dirs = []string{s.VideosDir}
	default:
		dirs = []string{s.ImagesDir, s.VideosDir}
	}

	type fileEntry struct {
		path    string
		modTime time.Time
	}
	var files []fileEntry

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, fileEntry{
				path:    filepath.Join(dir, entry.Name()),
				modTime: info.ModTime(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.path)
	}
	return paths, nil
}

// Delete removes a file and reports whether it was deleted. It never raises:
// a missing file or a filesystem error just returns false.
func (s *Store) Delete(path string) bool {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to delete %s: %v", path, err)
		}
		return false
	}
	return true
}

// CleanupTemp deletes temp files whose modification time is older than maxAge
// and returns how many were removed. A zero or negative maxAge sweeps the
// whole temp directory.
func (s *Store) CleanupTemp(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.TempDir)
	if err != nil {
		log.Printf("Failed to read temp directory: %v", err)
		return 0
	}

	now := time.Now()
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if maxAge <= 0 || now.Sub(info.ModTime()) > maxAge {
			path := filepath.Join(s.TempDir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to remove temp file %s: %v", path, err)
				continue
			}
			deleted++
		}
	}
	return deleted
}

// uniqueName builds a file name from a timestamp and a random suffix so
// concurrent saves within one second cannot collide.
func uniqueName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		prefix, time.Now().Format("20060102_150405"), uuid.NewString()[:8], ext)
}
