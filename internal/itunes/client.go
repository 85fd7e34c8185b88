// Package itunes uses the iTunes Search API as a fallback artwork source for
// tracks whose releases carry no Cover Art Archive images.
package itunes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"crate/internal/catalog"
	"crate/internal/ratelimit"
	"crate/internal/textutil"
)

// artistSimilarityFloor rejects search hits whose artist clearly does not
// match the track being enriched.
const artistSimilarityFloor = 0.5

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ArtistName    string `json:"artistName"`
	ArtworkURL100 string `json:"artworkUrl100"`
}

// Client provides access to the iTunes Search API.
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

// New creates an iTunes Search client.
func New(baseURL, userAgent string, limiter *ratelimit.Limiter, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("itunes base url required")
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

// SearchArtwork looks up front-cover artwork for an artist and title. Hits
// whose artist scores below the similarity floor are skipped. The 100x100
// thumbnail URL is rewritten to the 1200x1200 variant. Returns nil with no
// error when nothing usable is found or the service cannot be reached.
func (c *Client) SearchArtwork(ctx context.Context, artist, title string) (*catalog.ArtworkInfo, error) {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" || title == "" {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse itunes url: %w", err)
	}
	params := url.Values{}
	params.Set("term", artist+" "+title)
	params.Set("media", "music")
	params.Set("limit", "3")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
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

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil
	}

	for _, result := range payload.Results {
		if result.ArtistName == "" || result.ArtworkURL100 == "" {
			continue
		}
		if textutil.Similarity(artist, result.ArtistName) < artistSimilarityFloor {
			continue
		}
		return &catalog.ArtworkInfo{
			URL:    strings.Replace(result.ArtworkURL100, "100x100", "1200x1200", 1),
			Width:  1200,
			Type:   "front",
			Format: "jpeg",
			Source: "itunes",
		}, nil
	}

	return nil, nil
}

// Download fetches artwork from url and writes it to destination.
func (c *Client) Download(ctx context.Context, artworkURL, destination string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	client := c.httpClient
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
