package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the OpenAI-compatible embeddings endpoint.
const DefaultEndpoint = "https://api.openai.com/v1/embeddings"

// HTTPEmbedderArgs holds the arguments for creating an [HTTPEmbedder].
type HTTPEmbedderArgs struct {
	// Endpoint is the full URL of an OpenAI-compatible /v1/embeddings API.
	Endpoint string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Model is the embedding model identifier, e.g. "text-embedding-3-small".
	Model string
	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration
	// Client overrides the HTTP client (tests).
	Client *http.Client
}

// HTTPEmbedder calls an OpenAI-compatible embeddings API.
type HTTPEmbedder struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewHTTPEmbedder creates an [HTTPEmbedder].
func NewHTTPEmbedder(args HTTPEmbedderArgs) (*HTTPEmbedder, error) {
	if args.Model == "" {
		return nil, errors.New("embedding model is required")
	}
	endpoint := args.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := args.Client
	if client == nil {
		timeout := args.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPEmbedder{
		endpoint: endpoint,
		apiKey:   args.APIKey,
		model:    args.Model,
		client:   client,
	}, nil
}

// Name returns the provider name.
func (h *HTTPEmbedder) Name() string { return "http" }

// Model returns the configured model identifier.
func (h *HTTPEmbedder) Model() string { return h.model }

// Embed sends text to the embeddings API and returns its vector.
func (h *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: h.model, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embeddings API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result embeddingResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, errors.New("embeddings API returned no vectors")
	}

	return result.Data[0].Embedding, nil
}
