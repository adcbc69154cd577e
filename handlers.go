package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp" // WebP decoder registration

	"mediagen/config"
	"mediagen/filestore"
	"mediagen/middleware"
	"mediagen/providers"
	"mediagen/video"
)

// providerLabels maps provider kinds to the names shown in the form.
var providerLabels = map[providers.Kind]string{
	providers.KindOpenAI:    "OpenAI DALL-E",
	providers.KindStability: "Stable Diffusion",
	providers.KindLocal:     "Local Diffusion",
	providers.KindRunway:    "RunwayML",
	providers.KindFallback:  "Placeholder",
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Printf("Request failed: %v", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type providerOption struct {
	Kind  providers.Kind
	Label string
}

func (a *App) serveIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFiles("templates/index.html")
	if err != nil {
		http.Error(w, "Could not parse template", http.StatusInternalServerError)
		return
	}

	options := make([]providerOption, 0)
	for _, kind := range a.registry.Available() {
		options = append(options, providerOption{Kind: kind, Label: providerLabels[kind]})
	}
	options = append(options, providerOption{Kind: providers.KindRunway, Label: providerLabels[providers.KindRunway]})

	tmpl.Execute(w, map[string]interface{}{
		"Providers":   options,
		"AuthEnabled": config.AppConfig.Settings.WebPassword != "",
	})
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if config.AppConfig.Settings.WebPassword == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if r.Method == http.MethodGet {
		tmpl, err := template.ParseFiles("templates/login.html")
		if err != nil {
			http.Error(w, "Could not parse template", http.StatusInternalServerError)
			return
		}
		tmpl.Execute(w, nil)
		return
	}

	if r.FormValue("password") != config.AppConfig.Settings.WebPassword {
		http.Redirect(w, r, "/login?failed=1", http.StatusFound)
		return
	}

	session, _ := middleware.Store.Get(r, middleware.SessionName)
	session.Values[middleware.UserSessionKey] = true
	if err := session.Save(r, w); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.Store.Get(r, middleware.SessionName)
	session.Values[middleware.UserSessionKey] = false
	session.Options.MaxAge = -1
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

type imageGenerateRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Provider       string `json:"provider"`
	Count          int    `json:"count"`
	Seed           int64  `json:"seed"`
	Size           string `json:"size"`
	Quality        int    `json:"quality"`
}

func (a *App) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req imageGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("prompt is required"))
		return
	}

	if req.Size == "" {
		req.Size = "1024x1024"
	}
	if req.Quality == 0 {
		req.Quality = 80
	}
	if req.Count < 1 {
		req.Count = 1
	}
	if max := config.AppConfig.Generation.MaxImageCount; req.Count > max {
		req.Count = max
	}

	// A real back-end without credentials blocks the request; only unknown
	// provider names resolve to the placeholder.
	kind := providers.ParseKind(req.Provider)
	if kind.ImageCapable() && !a.registry.Has(kind) {
		writeError(w, http.StatusServiceUnavailable, &providers.ConfigurationError{Provider: kind})
		return
	}
	provider := a.registry.Image(kind)

	log.Printf("Generating %d image(s) via '%s': %s",
		req.Count, provider.GetName(), providers.TruncatePrompt(req.Prompt, 50))

	images, err := provider.Generate(providers.ImageRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Count:          req.Count,
		Seed:           req.Seed,
		Size:           req.Size,
		Quality:        req.Quality,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	paths := make([]string, 0, len(images))
	webPaths := make([]string, 0, len(images))
	for _, img := range images {
		path, err := a.store.SaveImage(img)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		paths = append(paths, path)
		webPaths = append(webPaths, a.webPath(path))
	}

	a.recordGeneration("Image", req.Prompt, provider.GetName(), paths)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"provider": provider.GetName(),
		"paths":    webPaths,
	})
}

type videoGenerateRequest struct {
	Prompt     string `json:"prompt"`
	Provider   string `json:"provider"`
	Duration   int    `json:"duration"`
	FPS        int    `json:"fps"`
	Resolution string `json:"resolution"`
	Style      string `json:"style"`
}

func (r *videoGenerateRequest) applyDefaults() {
	if r.Duration < 1 {
		r.Duration = 5
	}
	if max := config.AppConfig.Generation.MaxVideoDuration; r.Duration > max {
		r.Duration = max
	}
	if r.FPS < 1 {
		r.FPS = config.AppConfig.Generation.DefaultFPS
	}
	if r.Resolution == "" {
		r.Resolution = "1080p"
	}
	if r.Style == "" {
		r.Style = "Realistic"
	}
}

func (a *App) handleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req videoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("prompt is required"))
		return
	}
	req.applyDefaults()

	kind := providers.ParseKind(req.Provider)
	log.Printf("Generating %ds video at %d fps (%s) via '%s'",
		req.Duration, req.FPS, req.Resolution, req.Provider)

	path, err := a.videoGen.Generate(kind, video.Request{
		Prompt:     req.Prompt,
		Duration:   req.Duration,
		FPS:        req.FPS,
		Resolution: req.Resolution,
		Style:      req.Style,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	a.recordGeneration("Video", req.Prompt, req.Provider, []string{path})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path": a.webPath(path),
	})
}

func (a *App) handleImageToVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10 MB
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not parse multipart form: %w", err))
		return
	}

	motionPrompt := r.FormValue("motion_prompt")
	if motionPrompt == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("motion_prompt is required"))
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not retrieve image from form: %w", err))
		return
	}
	defer file.Close()

	imgBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("could not read image file: %w", err))
		return
	}

	processedBytes, err := processUpload(imgBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tempPath, err := a.store.SaveTempUpload(bytes.NewReader(processedBytes), handler.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	req := videoGenerateRequest{
		Prompt:     motionPrompt,
		Provider:   r.FormValue("provider"),
		Resolution: r.FormValue("resolution"),
	}
	req.Duration, _ = strconv.Atoi(r.FormValue("duration"))
	req.FPS, _ = strconv.Atoi(r.FormValue("fps"))
	req.applyDefaults()

	log.Printf("Animating %s (%d bytes) for %ds at %d fps (%s)",
		handler.Filename, len(processedBytes), req.Duration, req.FPS, req.Resolution)

	path, err := a.videoGen.ImageToVideo(tempPath, motionPrompt, req.Duration, req.FPS, req.Resolution)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	a.recordGeneration("Image to Video", motionPrompt, req.Provider, []string{path})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path": a.webPath(path),
	})
}

func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := a.recentHistory()
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		webPaths := make([]string, 0, len(e.Paths))
		for _, p := range e.Paths {
			webPaths = append(webPaths, a.webPath(p))
		}
		e.Paths = webPaths
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleGallery(w http.ResponseWriter, r *http.Request) {
	kind := filestoreKind(r.URL.Query().Get("kind"))
	paths, err := a.store.ListGenerated(kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	webPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		webPaths = append(webPaths, a.webPath(p))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kind":  kind,
		"paths": webPaths,
	})
}

type deleteRequest struct {
	Path string `json:"path"`
}

func (a *App) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	path, ok := a.diskPath(req.Path)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("path is outside the generated directory"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": a.store.Delete(path)})
}

// handleThumbnail serves a downscaled webp rendition of a generated image for
// the gallery grid.
func (a *App) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	path, ok := a.diskPath("/files/" + r.URL.Query().Get("file"))
	if !ok {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		http.Error(w, "Could not decode image", http.StatusUnsupportedMediaType)
		return
	}

	thumb := resize.Thumbnail(512, 512, img, resize.Lanczos3)

	rgba := image.NewRGBA(thumb.Bounds())
	draw.Draw(rgba, rgba.Bounds(), thumb, thumb.Bounds().Min, draw.Src)

	data, err := webp.EncodeRGBA(rgba, 80)
	if err != nil {
		http.Error(w, "Could not encode thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Write(data)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "mediagen",
	})
}

// processUpload checks if an uploaded image is larger than the configured
// maximum and resizes it if necessary. PNG and WebP uploads are converted to
// JPEG before temp storage.
func processUpload(imgBytes []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxSize := config.AppConfig.Generation.MaxImageSize
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	needsResize := width > maxSize || height > maxSize
	needsConversion := format == "png" || format == "webp"

	if !needsResize && !needsConversion {
		return imgBytes, nil
	}

	var processed image.Image
	if needsResize {
		log.Printf("Upload original size: %dx%d. Resizing to max %d.", width, height, maxSize)
		processed = resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Lanczos3)
	} else {
		processed = img
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode image to jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// filestoreKind maps a query parameter onto a gallery kind.
func filestoreKind(s string) filestore.Kind {
	switch s {
	case "images":
		return filestore.KindImages
	case "videos":
		return filestore.KindVideos
	default:
		return filestore.KindAll
	}
}
