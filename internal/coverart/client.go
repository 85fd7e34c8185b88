// Package coverart fetches release artwork from the Cover Art Archive.
package coverart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"crate/internal/catalog"
	"crate/internal/ratelimit"
)

type coverResponse struct {
	Images []coverImage `json:"images"`
}

type coverImage struct {
	Front      bool              `json:"front"`
	Image      string            `json:"image"`
	Thumbnails map[string]string `json:"thumbnails"`
}

// Client provides access to the Cover Art Archive keyed by MusicBrainz
// release IDs.
type Client struct {
	baseURL    string
	userAgent  string
	limiter    *ratelimit.Limiter
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Cover Art Archive client.
func New(baseURL, userAgent string, limiter *ratelimit.Limiter, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("coverart base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  strings.TrimSpace(userAgent),
		limiter:    limiter,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ReleaseArtwork fetches artwork info for a MusicBrainz release. It returns
// nil with no error when the release has no usable artwork or the archive
// cannot be reached.
func (c *Client) ReleaseArtwork(ctx context.Context, releaseID string) (*catalog.ArtworkInfo, error) {
	releaseID = strings.TrimSpace(releaseID)
	if releaseID == "" {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/release/"+releaseID, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var payload coverResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil
	}
	if len(payload.Images) == 0 {
		return nil, nil
	}

	best := payload.Images[0]
	for _, img := range payload.Images {
		if img.Front {
			best = img
			break
		}
	}

	// Prefer the 1200 thumbnail, then large, then the original upload.
	imageURL := best.Thumbnails["1200"]
	width := 1200
	if imageURL == "" {
		imageURL = best.Thumbnails["large"]
		width = 500
	}
	if imageURL == "" {
		imageURL = best.Image
		width = 500
	}
	if imageURL == "" {
		return nil, nil
	}

	artType := "unknown"
	if best.Front {
		artType = "front"
	}

	format := "png"
	if strings.HasSuffix(imageURL, ".jpg") || strings.HasSuffix(imageURL, ".jpeg") {
		format = "jpeg"
	}

	return &catalog.ArtworkInfo{
		URL:    imageURL,
		Width:  width,
		Type:   artType,
		Format: format,
		Source: "coverartarchive",
	}, nil
}

// Download fetches artwork from url and writes it to destination.
func (c *Client) Download(ctx context.Context, url, destination string) error {
	return download(ctx, c.httpClient, c.userAgent, url, destination)
}

func download(ctx context.Context, httpClient *http.Client, userAgent, url, destination string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	client := httpClient
	if client.Timeout < 30*time.Second {
		clone := *client
		clone.Timeout = 30 * time.Second
		client = &clone
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download artwork returned %d", resp.StatusCode)
	}

	tmp := destination + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create artwork file: %w", err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write artwork file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close artwork file: %w", err)
	}
	if err := os.Rename(tmp, destination); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize artwork file: %w", err)
	}
	return nil
}
