package providers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// LocalSDProvider implements the ImageProvider against a locally running
// Stable Diffusion WebUI-compatible endpoint. The endpoint is probed once at
// construction; an unreachable endpoint keeps the provider out of the registry.
type LocalSDProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewLocalSDProvider creates a local diffusion client if the endpoint responds.
func NewLocalSDProvider(baseURL string) *LocalSDProvider {
	if baseURL == "" {
		return nil
	}
	p := &LocalSDProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Minute},
	}
	if err := p.ping(); err != nil {
		log.Printf("Warning: local diffusion endpoint %s is unreachable: %v", p.BaseURL, err)
		return nil
	}
	return p
}

// GetName returns the name of the provider.
func (p *LocalSDProvider) GetName() string {
	return "Local Diffusion"
}

// ping checks that the WebUI API is up before the provider is registered.
func (p *LocalSDProvider) ping() error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(p.BaseURL + "/sdapi/v1/sd-models")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// localSDAPIPayload matches the structure for the WebUI txt2img endpoint.
type localSDAPIPayload struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	BatchSize      int     `json:"batch_size"`
	Seed           int64   `json:"seed"`
	Steps          int     `json:"steps"`
	CfgScale       float64 `json:"cfg_scale"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
}

// localSDAPIResponse matches the JSON response with base64 image payloads.
type localSDAPIResponse struct {
	Images []string `json:"images"`
}

// Generate sends a request to the local diffusion endpoint. A non-zero seed is
// forwarded so a generation can be reproduced exactly; zero requests a random one.
func (p *LocalSDProvider) Generate(input ImageRequest) ([]image.Image, error) {
	width, height, err := ParseSize(input.Size)
	if err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: err}
	}

	seed := input.Seed
	if seed == 0 {
		seed = -1 // WebUI convention for a random seed
	}

	payload := localSDAPIPayload{
		Prompt:         input.Prompt,
		NegativePrompt: input.NegativePrompt,
		BatchSize:      input.Count,
		Seed:           seed,
		Steps:          30,
		CfgScale:       7.5,
		Width:          width,
		Height:         height,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	log.Printf("Calling provider '%s' at %s, seed=%d", p.GetName(), p.BaseURL, seed)

	resp, err := p.Client.Post(p.BaseURL+"/sdapi/v1/txt2img", "application/json", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to call local endpoint: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &GenerationError{
			Provider: p.GetName(),
			Err:      fmt.Errorf("endpoint returned non-200 status: %d, body: %s", resp.StatusCode, string(body)),
		}
	}

	var apiResp localSDAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(apiResp.Images) == 0 {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("no images returned in response")}
	}

	images := make([]image.Image, 0, len(apiResp.Images))
	for _, encoded := range apiResp.Images {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to decode base64 image data: %w", err)}
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to decode image: %w", err)}
		}
		images = append(images, img)
	}

	return images, nil
}
