package filestore

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestNewStoreCreatesDirectories(t *testing.T) {
	s := newTestStore(t)

	for _, dir := range []string{s.ImagesDir, s.VideosDir, s.TempDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestSaveImage(t *testing.T) {
	s := newTestStore(t)

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	path, err := s.SaveImage(img)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if filepath.Dir(path) != s.ImagesDir {
		t.Errorf("image saved in %s, want %s", filepath.Dir(path), s.ImagesDir)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "image_") || !strings.HasSuffix(name, ".png") {
		t.Errorf("unexpected image file name %q", name)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("saved image should be a non-empty file (err=%v)", err)
	}
}

func TestSaveImageBytes(t *testing.T) {
	s := newTestStore(t)

	path, err := s.SaveImageBytes([]byte("not really a webp"), "webp")
	if err != nil {
		t.Fatalf("SaveImageBytes: %v", err)
	}
	if !strings.HasSuffix(path, ".webp") {
		t.Errorf("unexpected extension in %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved bytes: %v", err)
	}
	if string(data) != "not really a webp" {
		t.Error("saved bytes do not round-trip")
	}
}

func TestSaveTempUploadKeepsOriginalName(t *testing.T) {
	s := newTestStore(t)

	path, err := s.SaveTempUpload(strings.NewReader("upload body"), "photo.jpg")
	if err != nil {
		t.Fatalf("SaveTempUpload: %v", err)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "temp_") || !strings.HasSuffix(name, "photo.jpg") {
		t.Errorf("unexpected temp file name %q", name)
	}
	if filepath.Dir(path) != s.TempDir {
		t.Errorf("temp upload saved in %s, want %s", filepath.Dir(path), s.TempDir)
	}
}

func TestListGeneratedOrderAndFiltering(t *testing.T) {
	s := newTestStore(t)

	older := filepath.Join(s.ImagesDir, "image_a.png")
	newer := filepath.Join(s.ImagesDir, "image_b.png")
	video := filepath.Join(s.VideosDir, "video_a.mp4")
	for _, p := range []string{older, newer, video} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("writing %s: %v", p, err)
		}
	}

	now := time.Now()
	if err := os.Chtimes(older, now.Add(-2*time.Hour), now.Add(-2*time.Hour)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(video, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	images, err := s.ListGenerated(KindImages)
	if err != nil {
		t.Fatalf("ListGenerated(images): %v", err)
	}
	if len(images) != 2 || images[0] != newer || images[1] != older {
		t.Errorf("ListGenerated(images) = %v, want [%s %s]", images, newer, older)
	}

	videos, err := s.ListGenerated(KindVideos)
	if err != nil {
		t.Fatalf("ListGenerated(videos): %v", err)
	}
	if len(videos) != 1 || videos[0] != video {
		t.Errorf("ListGenerated(videos) = %v, want [%s]", videos, video)
	}

	all, err := s.ListGenerated(KindAll)
	if err != nil {
		t.Fatalf("ListGenerated(all): %v", err)
	}
	if len(all) != 3 || all[0] != newer || all[1] != video || all[2] != older {
		t.Errorf("ListGenerated(all) = %v, want newest first across both kinds", all)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	path := filepath.Join(s.ImagesDir, "image_x.png")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if !s.Delete(path) {
		t.Error("deleting an existing file should report true")
	}
	if s.Delete(path) {
		t.Error("deleting a missing file should report false")
	}
}

func TestCleanupTemp(t *testing.T) {
	s := newTestStore(t)

	old := filepath.Join(s.TempDir, "temp_old.jpg")
	fresh := filepath.Join(s.TempDir, "temp_fresh.jpg")
	for _, p := range []string{old, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("writing %s: %v", p, err)
		}
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if got := s.CleanupTemp(24 * time.Hour); got != 1 {
		t.Errorf("CleanupTemp(24h) = %d, want 1", got)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("stale temp file should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh temp file should survive: %v", err)
	}

	// Zero max age sweeps everything left.
	if got := s.CleanupTemp(0); got != 1 {
		t.Errorf("CleanupTemp(0) = %d, want 1", got)
	}
}
