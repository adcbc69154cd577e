package providers

import "fmt"

// GenerationError wraps any failure from a provider call, a local model, or a codec.
// Failures never propagate past the presentation boundary; handlers render the
// message and keep the process alive.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports an invocation of a provider whose credentials or
// endpoint were absent at startup. Missing credentials are a warning until the
// provider is actually asked to generate; then they block the request.
type ConfigurationError struct {
	Provider Kind
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider '%s' is not configured: missing credentials or endpoint", e.Provider)
}
