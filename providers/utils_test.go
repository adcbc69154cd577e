package providers_test

import (
	"testing"

	"mediagen/providers"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name       string
		size       string
		wantWidth  int
		wantHeight int
		wantErr    bool
	}{
		{name: "square", size: "512x512", wantWidth: 512, wantHeight: 512},
		{name: "portrait", size: "1024x1792", wantWidth: 1024, wantHeight: 1792},
		{name: "capital separator", size: "640X480", wantWidth: 640, wantHeight: 480},
		{name: "missing separator", size: "1024", wantErr: true},
		{name: "non-numeric width", size: "widex512", wantErr: true},
		{name: "zero dimension", size: "0x512", wantErr: true},
		{name: "empty", size: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height, err := providers.ParseSize(tt.size)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSize(%q) expected error, got %dx%d", tt.size, width, height)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) unexpected error: %v", tt.size, err)
			}
			if width != tt.wantWidth || height != tt.wantHeight {
				t.Errorf("ParseSize(%q) = %dx%d, want %dx%d",
					tt.size, width, height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestTruncatePrompt(t *testing.T) {
	if got := providers.TruncatePrompt("short", 50); got != "short" {
		t.Errorf("short prompt should be unchanged, got %q", got)
	}

	long := "a very long prompt that keeps going and going and going"
	got := providers.TruncatePrompt(long, 10)
	if got != long[:10]+"..." {
		t.Errorf("TruncatePrompt = %q, want %q", got, long[:10]+"...")
	}
}
