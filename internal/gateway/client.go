package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UpstreamResponse carries the store's status and raw body back to the
// relay layer, which decides what the client gets to see.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// StoreClient talks to the store service. It never interprets
// payloads: the relay forwards bodies byte-for-byte.
type StoreClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewStoreClient(baseURL, apiKey string, timeout time.Duration) *StoreClient {
	return &StoreClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Forward posts the given body to the store at path and returns the
// store's status code and body unmodified. A non-nil error means the
// store could not be reached or did not answer in time.
func (c *StoreClient) Forward(ctx context.Context, path string, body []byte) (*UpstreamResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	return &UpstreamResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// Health probes the store's health endpoint.
func (c *StoreClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store health returned %d", resp.StatusCode)
	}
	return nil
}
