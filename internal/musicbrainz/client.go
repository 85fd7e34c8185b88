// Package musicbrainz provides access to the MusicBrainz recording search
// API for candidate lookups.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crate/internal/catalog"
	"crate/internal/ratelimit"
	"crate/internal/services"
)

// recordingsResponse models the MusicBrainz recording search payload.
type recordingsResponse struct {
	Recordings []recordingResult `json:"recordings"`
}

type recordingResult struct {
	ID           string         `json:"id"`
	Score        int            `json:"score"`
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	Releases     []releaseRef   `json:"releases"`
}

type artistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type releaseRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Client provides access to the MusicBrainz API for recording searches.
type Client struct {
	baseURL        string
	userAgent      string
	candidateLimit int
	limiter        *ratelimit.Limiter
	httpClient     *http.Client
	logger         *slog.Logger
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

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a MusicBrainz client.
func New(baseURL, userAgent string, candidateLimit int, limiter *ratelimit.Limiter, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("musicbrainz base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	if candidateLimit <= 0 {
		candidateLimit = 5
	}
	client := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		userAgent:      userAgent,
		candidateLimit: candidateLimit,
		limiter:        limiter,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Ping checks whether the MusicBrainz API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint, err := url.Parse(c.baseURL + "/recording")
	if err != nil {
		return fmt.Errorf("parse musicbrainz url: %w", err)
	}
	params := url.Values{}
	params.Set("query", "test")
	params.Set("limit", "1")
	params.Set("fmt", "json")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrUnreachable, "musicbrainz", "ping",
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrUnreachable, "musicbrainz", "ping",
			fmt.Sprintf("ping returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}
	return nil
}

// Search looks up recording candidates for the given fields. It tries
// progressively looser queries until one returns results: artist plus title,
// then artist plus album, then title alone. Transient HTTP and decode
// failures on a tier yield no results for that tier rather than an error.
func (c *Client) Search(ctx context.Context, artist, title, album string) ([]catalog.Candidate, error) {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	album = strings.TrimSpace(album)

	if artist != "" && title != "" {
		candidates, err := c.query(ctx, fmt.Sprintf("artist:%s AND recording:%s", quote(artist), quote(title)))
		if err != nil || len(candidates) > 0 {
			return candidates, err
		}
	}

	if artist != "" && album != "" {
		candidates, err := c.query(ctx, fmt.Sprintf("artist:%s AND release:%s", quote(artist), quote(album)))
		if err != nil || len(candidates) > 0 {
			return candidates, err
		}
	}

	if title != "" {
		candidates, err := c.query(ctx, fmt.Sprintf("recording:%s", quote(title)))
		if err != nil || len(candidates) > 0 {
			return candidates, err
		}
	}

	return nil, nil
}

func (c *Client) query(ctx context.Context, query string) ([]catalog.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(c.baseURL + "/recording")
	if err != nil {
		return nil, fmt.Errorf("parse musicbrainz url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(c.candidateLimit))
	params.Set("fmt", "json")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debug("musicbrainz query failed",
			slog.String("query", query),
			slog.Duration("latency", latency),
			slog.Any("error", err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("musicbrainz query returned non-200",
			slog.String("query", query),
			slog.Int("status", resp.StatusCode),
			slog.Duration("latency", latency))
		return nil, nil
	}

	var payload recordingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Debug("musicbrainz decode failed",
			slog.String("query", query),
			slog.Any("error", err))
		return nil, nil
	}

	candidates := make([]catalog.Candidate, 0, len(payload.Recordings))
	for _, rec := range payload.Recordings {
		candidates = append(candidates, mapRecording(rec))
	}
	return candidates, nil
}

func mapRecording(rec recordingResult) catalog.Candidate {
	candidate := catalog.Candidate{
		Title:       rec.Title,
		RecordingID: rec.ID,
		RawScore:    rec.Score,
		Source:      "musicbrainz",
	}

	if len(rec.ArtistCredit) > 0 {
		credit := rec.ArtistCredit[0]
		if credit.Name != "" {
			candidate.Artist = credit.Name
		} else {
			candidate.Artist = credit.Artist.Name
		}
	}

	if rec.Length > 0 {
		candidate.Duration = rec.Length / 1000
	}

	if len(rec.Releases) > 0 {
		rel := rec.Releases[0]
		candidate.Album = rel.Title
		candidate.ReleaseID = rel.ID
		if len(rel.Date) >= 4 {
			if year, err := strconv.Atoi(rel.Date[:4]); err == nil {
				candidate.Year = year
			}
		}
	}

	return candidate
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}
