package providers_test

import (
	"image"
	"testing"

	"mediagen/config"
	"mediagen/providers"
)

// stubProvider is a minimal ImageProvider for registry tests.
type stubProvider struct{ name string }

func (s *stubProvider) Generate(input providers.ImageRequest) ([]image.Image, error) {
	return nil, nil
}

func (s *stubProvider) GetName() string { return s.name }

// TestRegistry_NoCredentials verifies that with no keys configured only the
// fallback registers, and every kind still resolves to a working provider.
func TestRegistry_NoCredentials(t *testing.T) {
	r := providers.NewRegistry(&config.Config{})

	available := r.Available()
	if len(available) != 1 || available[0] != providers.KindFallback {
		t.Fatalf("got available kinds %v, want only fallback", available)
	}

	for _, kind := range []providers.Kind{
		providers.KindOpenAI,
		providers.KindStability,
		providers.KindLocal,
		providers.Kind("nonsense"),
	} {
		p := r.Image(kind)
		if p == nil {
			t.Fatalf("Image(%q) returned nil", kind)
		}
		if p.GetName() != "Placeholder" {
			t.Errorf("Image(%q) = %q, want the placeholder fallback", kind, p.GetName())
		}
	}
}

// TestRegistry_RegisteredProviderIsDispatched verifies an explicitly
// registered provider is returned for its kind.
func TestRegistry_RegisteredProviderIsDispatched(t *testing.T) {
	r := providers.NewRegistry(&config.Config{})
	stub := &stubProvider{name: "stub"}
	r.Register(providers.KindOpenAI, stub)

	if !r.Has(providers.KindOpenAI) {
		t.Fatal("registered kind should report as available")
	}
	if got := r.Image(providers.KindOpenAI); got != stub {
		t.Errorf("Image(openai) = %v, want the registered stub", got)
	}
}

// TestKindImageCapable verifies only real image back-ends report as capable.
func TestKindImageCapable(t *testing.T) {
	capable := []providers.Kind{providers.KindOpenAI, providers.KindStability, providers.KindLocal}
	for _, k := range capable {
		if !k.ImageCapable() {
			t.Errorf("%q should be image-capable", k)
		}
	}
	for _, k := range []providers.Kind{providers.KindRunway, providers.KindFallback, providers.Kind("nonsense")} {
		if k.ImageCapable() {
			t.Errorf("%q should not be image-capable", k)
		}
	}
}

// TestParseKind verifies unknown provider names resolve to the fallback kind.
func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want providers.Kind
	}{
		{"openai", providers.KindOpenAI},
		{"stability", providers.KindStability},
		{"local", providers.KindLocal},
		{"runway", providers.KindRunway},
		{"fallback", providers.KindFallback},
		{"", providers.KindFallback},
		{"dall-e", providers.KindFallback},
	}

	for _, tt := range tests {
		if got := providers.ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
