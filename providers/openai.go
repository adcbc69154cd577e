package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
)

const openAIAPIURL = "https://api.openai.com/v1/images/generations"

// OpenAIProvider implements the ImageProvider for the OpenAI DALL-E API.
type OpenAIProvider struct {
	APIKey string
	Client *http.Client
}

// NewOpenAIProvider creates a new OpenAI client if a key is provided.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	if apiKey == "" {
		return nil
	}
	return &OpenAIProvider{
		APIKey: apiKey,
		Client: &http.Client{},
	}
}

// GetName returns the name of the provider.
func (p *OpenAIProvider) GetName() string {
	return "OpenAI DALL-E"
}

// openAIAPIPayload matches the structure for the OpenAI images endpoint.
type openAIAPIPayload struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

// openAIAPIResponse matches the JSON response carrying generated image URLs.
type openAIAPIResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends a request to the OpenAI images API.
// DALL-E 3 only generates one image per call, so Count beyond 1 is ignored.
// The 1-100 quality slider maps onto the API's binary hd/standard flag.
func (p *OpenAIProvider) Generate(input ImageRequest) ([]image.Image, error) {
	quality := "standard"
	if input.Quality > 70 {
		quality = "hd"
	}

	payload := openAIAPIPayload{
		Model:   "dall-e-3",
		Prompt:  input.Prompt,
		N:       1,
		Size:    input.Size,
		Quality: quality,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	log.Printf("Calling provider '%s' with quality '%s'", p.GetName(), quality)

	req, err := http.NewRequest("POST", openAIAPIURL, bytes.NewBuffer(payloadBytes))
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

	var apiResp openAIAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(apiResp.Data) == 0 {
		if apiResp.Error.Message != "" {
			return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("API error: %s", apiResp.Error.Message)}
		}
		return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("no images returned in response")}
	}

	// The response carries URLs. Download and decode each image.
	images := make([]image.Image, 0, len(apiResp.Data))
	for _, item := range apiResp.Data {
		data, _, err := DownloadFile(item.URL)
		if err != nil {
			return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to download generated image: %w", err)}
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &GenerationError{Provider: p.GetName(), Err: fmt.Errorf("failed to decode generated image: %w", err)}
		}
		images = append(images, img)
	}

	return images, nil
}
