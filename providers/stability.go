package providers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"log"
	"net/http"
)

const stabilityAPIURL = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"

// StabilityProvider implements the ImageProvider for the Stability AI API.
type StabilityProvider struct {
	APIKey string
	Client *http.Client
}

// NewStabilityProvider creates a new Stability AI client if a key is provided.
func NewStabilityProvider(apiKey string) *StabilityProvider {
	if apiKey == "" {
		return nil
	}
	return &StabilityProvider{
		APIKey: apiKey,
		Client: &http.Client{},
	}
}

// GetName returns the name of the provider.
func (p *StabilityProvider) GetName() string {
	return "Stable Diffusion"
}

type stabilityTextPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// stabilityAPIPayload matches the structure for the Stability text-to-image endpoint.
type stabilityAPIPayload struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	CfgScale    float64               `json:"cfg_scale"`
	Height      int                   `json:"height"`
	Width       int                   `json:"width"`
	Samples     int                   `json:"samples"`
	Steps       int                   `json:"steps"`
}

// stabilityAPIResponse matches the JSON response with base64 image artifacts.
type stabilityAPIResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// Generate sends a request to the Stability AI API. A negative prompt is posted
// as an additional text prompt with a negative weight.
func (p *StabilityProvider) Generate(input ImageRequest) ([]image.Image, error) {
	width, height, err := ParseSize(input.Size)
	if err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: err}
	}

	payload := stabilityAPIPayload{
		TextPrompts: []stabilityTextPrompt{
			{Text: input.Prompt, Weight: 1.0},
		},
		CfgScale: 7,
		Height:   height,
		Width:    width,
		Samples:  input.Count,
		Steps:    30,
	}
	if input.NegativePrompt != "" {
		payload.TextPrompts = append(payload.TextPrompts, stabilityTextPrompt{
			Text:   input.NegativePrompt,
			Weight: -1.0,
		})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	log.Printf("Calling provider '%s' at %dx%d, samples=%d", p.GetName(), width, height, input.Count)

	req, err := http.NewRequest("POST", stabilityAPIURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to call external API: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &GenerationError{
			Provider: p.GetName(),
			Err:      fmt.Errorf("API returned non-200 status: %d, body: %s", resp.StatusCode, string(body)),
		}
	}

	var apiResp stabilityAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(apiResp.Artifacts) == 0 {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("no artifacts returned in response")}
	}

	images := make([]image.Image, 0, len(apiResp.Artifacts))
	for _, artifact := range apiResp.Artifacts {
		data, err := base64.StdEncoding.DecodeString(artifact.Base64)
		if err != nil {
			return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to decode base64 image data: %w", err)}
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to decode image artifact: %w", err)}
		}
		images = append(images, img)
	}

	return images, nil
}
