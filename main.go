package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"mediagen/config"
	"mediagen/filestore"
	"mediagen/middleware"
	"mediagen/providers"
	"mediagen/video"
)

func main() {
	config.LoadConfig()

	if missing := config.AppConfig.ValidateAPIKeys(); len(missing) > 0 {
		log.Printf("Warning: Missing API keys: %s. The affected providers are disabled.",
			strings.Join(missing, ", "))
	}

	middleware.InitSessionStore()

	store, err := filestore.NewStore(config.AppConfig.Settings.GeneratedDir)
	if err != nil {
		log.Fatalf("Could not initialize file store: %v", err)
	}

	registry := providers.NewRegistry(config.AppConfig)
	videoGen := video.NewGenerator(store.VideosDir)

	app := NewApp(store, registry, videoGen)

	// Sweep stale temp uploads every hour.
	maxAge := time.Duration(config.AppConfig.Settings.TempMaxAgeHours) * time.Hour
	c := cron.New()
	c.AddFunc("@hourly", func() {
		if deleted := store.CleanupTemp(maxAge); deleted > 0 {
			log.Printf("Temp cleanup removed %d file(s)", deleted)
		}
	})
	c.Start()
	defer c.Stop()

	r := mux.NewRouter()
	r.Use(middleware.CORSMiddleware)

	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/login", app.handleLogin).Methods("GET", "POST")
	r.HandleFunc("/logout", app.handleLogout).Methods("GET")

	// Everything below requires the web session when a password is configured.
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.WebAuthMiddleware)

	protected.HandleFunc("/", app.serveIndex).Methods("GET")
	protected.HandleFunc("/api/generate/image", app.handleGenerateImage).Methods("POST")
	protected.HandleFunc("/api/generate/video", app.handleGenerateVideo).Methods("POST")
	protected.HandleFunc("/api/generate/image-to-video", app.handleImageToVideo).Methods("POST")
	protected.HandleFunc("/api/history", app.handleHistory).Methods("GET")
	protected.HandleFunc("/api/gallery", app.handleGallery).Methods("GET")
	protected.HandleFunc("/api/delete", app.handleDelete).Methods("POST")
	protected.HandleFunc("/api/thumbnail", app.handleThumbnail).Methods("GET")
	protected.PathPrefix("/files/").Handler(
		http.StripPrefix("/files/", http.FileServer(http.Dir(store.Root))))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on :%s...", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
