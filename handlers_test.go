package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"mediagen/config"
	"mediagen/filestore"
	"mediagen/providers"
	"mediagen/video"
)

// newTestApp builds an App with no provider credentials, so only the
// placeholder registers.
func newTestApp(t *testing.T) *App {
	t.Helper()

	config.AppConfig = &config.Config{
		Settings: config.Settings{GeneratedDir: t.TempDir()},
		Generation: config.Generation{
			MaxImageSize:     2048,
			MaxImageCount:    4,
			MaxVideoDuration: 60,
			DefaultFPS:       24,
		},
	}

	store, err := filestore.NewStore(config.AppConfig.Settings.GeneratedDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	registry := providers.NewRegistry(config.AppConfig)
	return NewApp(store, registry, video.NewGenerator(store.VideosDir))
}

func TestGenerateImageUnconfiguredProviderFails(t *testing.T) {
	app := newTestApp(t)

	for _, provider := range []string{"openai", "stability", "local"} {
		t.Run(provider, func(t *testing.T) {
			body, _ := json.Marshal(map[string]interface{}{
				"prompt":   "a red cube",
				"provider": provider,
				"count":    2,
				"size":     "512x512",
			})
			r := httptest.NewRequest(http.MethodPost, "/api/generate/image", bytes.NewReader(body))
			w := httptest.NewRecorder()

			app.handleGenerateImage(w, r)

			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
			}
			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if !strings.Contains(resp["error"], "not configured") {
				t.Errorf("error = %q, want a configuration error", resp["error"])
			}
		})
	}
}

func TestGenerateImageUnknownProviderFallsBack(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(map[string]interface{}{
		"prompt":   "a red cube",
		"provider": "nonsense",
		"size":     "256x256",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/generate/image", bytes.NewReader(body))
	w := httptest.NewRecorder()

	app.handleGenerateImage(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp struct {
		Provider string   `json:"provider"`
		Paths    []string `json:"paths"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Provider != "Placeholder" {
		t.Errorf("provider = %q, want Placeholder", resp.Provider)
	}
	if len(resp.Paths) != 1 {
		t.Errorf("got %d paths, want 1", len(resp.Paths))
	}
}

func TestImageToVideoMissingMotionPromptLeavesNoTempFile(t *testing.T) {
	app := newTestApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if err := png.Encode(part, image.NewNRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encoding upload: %v", err)
	}
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/generate/image-to-video", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	app.handleImageToVideo(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	entries, err := os.ReadDir(app.store.TempDir)
	if err != nil {
		t.Fatalf("reading temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d file(s) in the temp directory", len(entries))
	}
}
