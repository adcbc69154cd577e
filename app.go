package main

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mediagen/filestore"
	"mediagen/providers"
	"mediagen/video"
)

const historyDisplayLimit = 10

// HistoryEntry records one finished generation. Entries are append-only and
// never mutated after creation.
type HistoryEntry struct {
	Kind      string    `json:"kind"`
	Prompt    string    `json:"prompt"`
	Provider  string    `json:"provider"`
	Timestamp time.Time `json:"timestamp"`
	Paths     []string  `json:"paths"`
}

// App carries all mutable session state explicitly: the generation history and
// the gallery lists live here, scoped to one running instance, with no
// persistence past the process lifetime.
type App struct {
	store    *filestore.Store
	registry *providers.Registry
	videoGen *video.Generator

	// The interface is single-user, but handlers still run on per-connection
	// goroutines, so appends are serialized.
	mu      sync.Mutex
	history []HistoryEntry
	images  []string
	videos  []string
}

// NewApp wires the application state together.
func NewApp(store *filestore.Store, registry *providers.Registry, videoGen *video.Generator) *App {
	return &App{
		store:    store,
		registry: registry,
		videoGen: videoGen,
	}
}

// recordGeneration appends a history entry and updates the gallery lists.
func (a *App) recordGeneration(kind, prompt, provider string, paths []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, HistoryEntry{
		Kind:      kind,
		Prompt:    prompt,
		Provider:  provider,
		Timestamp: time.Now(),
		Paths:     paths,
	})

	switch kind {
	case "Image":
		a.images = append(a.images, paths...)
	default:
		a.videos = append(a.videos, paths...)
	}
}

// recentHistory returns up to historyDisplayLimit entries, newest first.
func (a *App) recentHistory() []HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.history)
	limit := historyDisplayLimit
	if n < limit {
		limit = n
	}

	out := make([]HistoryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, a.history[i])
	}
	return out
}

// webPath converts a stored file path into its /files/ URL.
func (a *App) webPath(diskPath string) string {
	rel, err := filepath.Rel(a.store.Root, diskPath)
	if err != nil {
		return ""
	}
	return "/files/" + filepath.ToSlash(rel)
}

// diskPath resolves a /files/ URL back to a path inside the store root, or
// returns false when the path escapes the generated tree.
func (a *App) diskPath(webPath string) (string, bool) {
	rel := strings.TrimPrefix(webPath, "/files/")
	full := filepath.Join(a.store.Root, filepath.FromSlash(rel))

	rootAbs, err := filepath.Abs(a.store.Root)
	if err != nil {
		return "", false
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", false
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(filepath.Separator)) {
		return "", false
	}
	return fullAbs, true
}
