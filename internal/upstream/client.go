// Package upstream is the HTTP client for the certificate authority that
// signs admitted CSRs. Issuance is asynchronous: the CA answers requests with
// an acknowledgement and later reports certificates through the relay's
// callback endpoints.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"tls-constraints/internal/config"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds the upstream CA client. A nil config or empty URL yields a
// disconnected client: admission events will be deferred until one is
// configured.
func NewClient(cfg *config.UpstreamConfig, logger *slog.Logger) *Client {
	client := &Client{logger: logger}
	if cfg == nil || cfg.URL == "" {
		return client
	}

	client.baseURL = cfg.URL
	client.httpClient = &http.Client{
		Timeout: cfg.Timeout,
	}

	if cfg.BasicAuth != nil {
		client.httpClient.Transport = &BasicAuthTransport{
			Username: cfg.BasicAuth.Username,
			Password: cfg.BasicAuth.Password,
			Proxied:  http.DefaultTransport,
		}
	}

	return client
}

func (c *Client) Connected() bool {
	return c.baseURL != ""
}

func (c *Client) RequestCreation(ctx context.Context, csrPEM []byte, isCA bool) error {
	payload := struct {
		CSR  []byte `json:"csr"`
		IsCA bool   `json:"is_ca"`
	}{
		CSR:  csrPEM,
		IsCA: isCA,
	}
	return c.post(ctx, "/requests", payload)
}

func (c *Client) RequestRevocation(ctx context.Context, csrPEM []byte) error {
	payload := struct {
		CSR []byte `json:"csr"`
	}{
		CSR: csrPEM,
	}
	return c.post(ctx, "/revocations", payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	if !c.Connected() {
		return fmt.Errorf("upstream CA is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("error closing upstream response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, path)
	}

	return nil
}

type BasicAuthTransport struct {
	Username string
	Password string
	Proxied  http.RoundTripper
}

func (b *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.Username != "" && b.Password != "" {
		req.SetBasicAuth(b.Username, b.Password)
	}
	return b.Proxied.RoundTrip(req)
}
