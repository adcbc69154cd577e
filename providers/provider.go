package providers

import "image"

// Kind identifies one of the closed set of generation back-ends.
type Kind string

const (
	KindOpenAI    Kind = "openai"
	KindStability Kind = "stability"
	KindLocal     Kind = "local"
	KindRunway    Kind = "runway"
	KindFallback  Kind = "fallback"
)

// ImageKinds lists every kind selectable for image generation, in display order.
var ImageKinds = []Kind{KindOpenAI, KindStability, KindLocal, KindFallback}

// ImageCapable reports whether the kind names a real image back-end, as
// opposed to the fallback or a video-only kind.
func (k Kind) ImageCapable() bool {
	switch k {
	case KindOpenAI, KindStability, KindLocal:
		return true
	}
	return false
}

// ParseKind maps a request string onto the closed kind set.
// Unknown names resolve to the fallback kind.
func ParseKind(name string) Kind {
	switch Kind(name) {
	case KindOpenAI, KindStability, KindLocal, KindRunway, KindFallback:
		return Kind(name)
	default:
		return KindFallback
	}
}

// ImageRequest defines the standardized input for all image providers.
// A request is immutable once submitted.
type ImageRequest struct {
	Prompt         string
	NegativePrompt string
	Count          int
	Seed           int64  // 0 means random
	Size           string // "WxH", e.g. "1024x1024"
	Quality        int    // 1-100
}

// ImageProvider is the interface that all image generation back-ends implement.
// Generate returns in-memory images only; persisting them is the caller's job.
type ImageProvider interface {
	Generate(input ImageRequest) ([]image.Image, error)
	// GetName returns the display name of the provider (e.g., "OpenAI DALL-E").
	GetName() string
}
