package providers

import (
	"log"

	"mediagen/config"
)

// Registry holds the set of providers whose back-ends were actually reachable
// at startup. Availability is decided once, here, instead of being discovered
// through dispatch-time failures. Dispatch consults the registry: unknown
// names resolve to the placeholder fallback, while callers treat a real but
// unregistered back-end as a configuration error.
type Registry struct {
	image    map[Kind]ImageProvider
	fallback *PlaceholderProvider
}

// NewRegistry registers every provider whose credentials or endpoint are
// configured. A missing key disables that provider with a warning.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{
		image:    make(map[Kind]ImageProvider),
		fallback: NewPlaceholderProvider(),
	}

	if p := NewOpenAIProvider(cfg.APIKeys.OpenAI); p != nil {
		r.image[KindOpenAI] = p
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set. OpenAI provider is disabled.")
	}

	if p := NewStabilityProvider(cfg.APIKeys.Stability); p != nil {
		r.image[KindStability] = p
	} else {
		log.Println("Warning: STABILITY_API_KEY is not set. Stability provider is disabled.")
	}

	if p := NewLocalSDProvider(cfg.Settings.SDWebUIURL); p != nil {
		r.image[KindLocal] = p
	} else {
		log.Println("Warning: no local diffusion endpoint available. Local provider is disabled.")
	}

	r.image[KindFallback] = r.fallback

	log.Printf("Provider registry initialized with %d image provider(s)", len(r.image))
	return r
}

// Register installs a provider for a kind. Mainly useful in tests.
func (r *Registry) Register(kind Kind, p ImageProvider) {
	r.image[kind] = p
}

// Image returns the provider for a kind, or the placeholder fallback when the
// kind is unknown or its back-end was unavailable at startup.
func (r *Registry) Image(kind Kind) ImageProvider {
	if p, ok := r.image[kind]; ok {
		return p
	}
	return r.fallback
}

// Has reports whether a kind registered successfully.
func (r *Registry) Has(kind Kind) bool {
	_, ok := r.image[kind]
	return ok
}

// Available returns the registered kinds in display order.
func (r *Registry) Available() []Kind {
	kinds := make([]Kind, 0, len(r.image))
	for _, k := range ImageKinds {
		if _, ok := r.image[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
