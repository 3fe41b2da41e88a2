// Package client provides a Go client for the Umekomi embedding API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client talks to a running embedding server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type textRequest struct {
	Text string `json:"text"`
}

type textsRequest struct {
	Texts []string `json:"texts"`
}

type imagePathsRequest struct {
	Paths []string `json:"paths"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

type embeddingsResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// EmbedText returns the text model's embedding for a single text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.postEmbedding(ctx, "/embed/text", "application/json", bytes.NewReader(body))
}

// EmbedTexts returns the text model's embeddings for a batch of texts, in order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(textsRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.postEmbeddings(ctx, "/embed/texts", bytes.NewReader(body))
}

// EmbedImage uploads image bytes and returns the image model's embedding.
func (c *Client) EmbedImage(ctx context.Context, imageData io.Reader, filename string) ([]float32, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, imageData); err != nil {
		return nil, fmt.Errorf("failed to copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return c.postEmbedding(ctx, "/embed/image", writer.FormDataContentType(), &buf)
}

// EmbedImagePaths returns image embeddings for server-local file paths.
// Paths that do not exist on the server are silently dropped.
func (c *Client) EmbedImagePaths(ctx context.Context, paths []string) ([][]float32, error) {
	body, err := json.Marshal(imagePathsRequest{Paths: paths})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.postEmbeddings(ctx, "/embed/image-paths", bytes.NewReader(body))
}

// WaitReady polls the health endpoint every interval until the server responds
// or ctx is done.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
		if err != nil {
			return fmt.Errorf("failed to create health request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (c *Client) postEmbedding(ctx context.Context, path, contentType string, body io.Reader) ([]float32, error) {
	var result embeddingResponse
	if err := c.post(ctx, path, contentType, body, &result); err != nil {
		return nil, err
	}
	return result.Embedding, nil
}

func (c *Client) postEmbeddings(ctx context.Context, path string, body io.Reader) ([][]float32, error) {
	var result embeddingsResponse
	if err := c.post(ctx, path, "application/json", body, &result); err != nil {
		return nil, err
	}
	return result.Embeddings, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return fmt.Errorf("server returned status %d: %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
