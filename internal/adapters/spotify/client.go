// Package spotify implements the catalog port against the Spotify Web API.
// Every request funnels through a single retry gateway that honors
// rate-limit signals and backs off exponentially on transient failures.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	// pageSize is the catalog's maximum page for listener-library endpoints.
	pageSize = 50
	// featureBatchSize is the catalog's per-call cap for audio features.
	featureBatchSize = 100
)

// Config tunes the client beyond its defaults.
type Config struct {
	BaseURL     string
	MaxRetries  int
	BaseBackoff time.Duration
}

// Client is the HTTP client for the Spotify catalog.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
	log         zerolog.Logger
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a catalog client. httpClient is expected to carry
// authentication (an oauth2 transport); nil falls back to the default client.
func NewClient(httpClient *http.Client, cfg Config, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.BaseBackoff,
		log:         log.With().Str("component", "spotify").Logger(),
	}
}

// getJSON performs a GET through the retry gateway and decodes the body.
func (c *Client) getJSON(ctx context.Context, rawURL string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: build request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spotify adapter: status %d for %s", resp.StatusCode, req.URL.Path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("spotify adapter: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// postJSON performs a POST through the retry gateway. dest may be nil when
// the response body is irrelevant.
func (c *Client) postJSON(ctx context.Context, rawURL string, body, dest any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("spotify adapter: marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("spotify adapter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("spotify adapter: status %d for %s", resp.StatusCode, req.URL.Path)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("spotify adapter: decode %s: %w", req.URL.Path, err)
	}
	return nil
}
