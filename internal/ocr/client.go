// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package ocr is the client for the Mistral OCR API. It submits a
// document (inline as a data URI, or by URL) and returns the provider's
// ordered page list. Transient failures are retried with exponential
// backoff; authentication and quota errors fail immediately.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/neuromechanist/markit-mistral/internal/fileproc"
	"github.com/neuromechanist/markit-mistral/internal/httputil"
	"github.com/neuromechanist/markit-mistral/pkg/types"
)

const (
	defaultEndpoint = "https://api.mistral.ai/v1/ocr"
	defaultModel    = "mistral-ocr-latest"
)

// Client talks to the Mistral OCR endpoint. Construct one per process;
// it is safe for sequential reuse across conversions.
type Client struct {
	// Endpoint is overridable for tests.
	Endpoint string

	apiKey     string
	model      string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
}

// NewClient builds a client from configuration. Missing optional
// settings fall back to provider defaults.
func NewClient(cfg types.OCRConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		Endpoint:   defaultEndpoint,
		apiKey:     cfg.APIKey,
		model:      model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// document is the request payload's document descriptor. Exactly one of
// DocumentURL or ImageURL is set, depending on input type.
type document struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ocrRequest is the JSON body for the OCR endpoint.
type ocrRequest struct {
	Model              string   `json:"model"`
	Document           document `json:"document"`
	IncludeImageBase64 bool     `json:"include_image_base64"`
}

// ProcessFile OCRs a local PDF or image file, inlining its bytes as a
// data URI. includeImages requests embedded image bytes in the
// response.
func (c *Client) ProcessFile(ctx context.Context, path string, includeImages bool) (*types.OCRResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	uri := "data:" + fileproc.MIMEType(path) + ";base64," + base64.StdEncoding.EncodeToString(data)
	doc := document{Type: "document_url", DocumentURL: uri}
	if fileproc.DetectType(path) == fileproc.TypeImage {
		doc = document{Type: "image_url", ImageURL: uri}
	}
	return c.process(ctx, doc, includeImages)
}

// ProcessURL OCRs a remotely hosted document. Image URLs (by extension)
// are submitted as image_url, everything else as document_url.
func (c *Client) ProcessURL(ctx context.Context, url string, includeImages bool) (*types.OCRResponse, error) {
	doc := document{Type: "document_url", DocumentURL: url}
	if fileproc.DetectType(url) == fileproc.TypeImage {
		doc = document{Type: "image_url", ImageURL: url}
	}
	return c.process(ctx, doc, includeImages)
}

func (c *Client) process(ctx context.Context, doc document, includeImages bool) (*types.OCRResponse, error) {
	payload, err := json.Marshal(ocrRequest{
		Model:              c.model,
		Document:           doc,
		IncludeImageBase64: includeImages,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building OCR request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries, c.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading OCR response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, string(body))
	}

	var result types.OCRResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding OCR response: %w", err)
	}
	return &result, nil
}
