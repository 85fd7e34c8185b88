package musicbrainz_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crate/internal/musicbrainz"
	"crate/internal/ratelimit"
	"crate/internal/services"
)

const recordingPayload = `{
  "recordings": [
    {
      "id": "rec-1",
      "score": 97,
      "title": "Heroes",
      "length": 371000,
      "artist-credit": [{"name": "David Bowie"}],
      "releases": [{"id": "rel-1", "title": "Heroes", "date": "1977-10-14"}]
    }
  ]
}`

func newClient(t *testing.T, baseURL string) *musicbrainz.Client {
	t.Helper()
	client, err := musicbrainz.New(baseURL, "crate-test/1.0", 5, ratelimit.New(1000))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := musicbrainz.New("", "agent", 5, ratelimit.New(1)); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestNewRequiresUserAgent(t *testing.T) {
	if _, err := musicbrainz.New("https://example.com", "  ", 5, ratelimit.New(1)); err == nil {
		t.Fatal("expected error when user agent missing")
	}
}

func TestSearchMapsRecordings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if !strings.Contains(query, `artist:"David Bowie"`) || !strings.Contains(query, `recording:"Heroes"`) {
			t.Fatalf("unexpected query: %q", query)
		}
		if r.Header.Get("User-Agent") != "crate-test/1.0" {
			t.Fatalf("unexpected user agent: %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(recordingPayload))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	candidates, err := client.Search(context.Background(), "David Bowie", "Heroes", "")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}

	got := candidates[0]
	if got.Artist != "David Bowie" || got.Title != "Heroes" {
		t.Fatalf("unexpected candidate: %#v", got)
	}
	if got.Album != "Heroes" || got.ReleaseID != "rel-1" {
		t.Fatalf("unexpected release mapping: %#v", got)
	}
	if got.Year != 1977 {
		t.Fatalf("year = %d, want 1977", got.Year)
	}
	if got.Duration != 371 {
		t.Fatalf("duration = %d, want 371", got.Duration)
	}
	if got.RecordingID != "rec-1" || got.Source != "musicbrainz" {
		t.Fatalf("unexpected identity fields: %#v", got)
	}
}

func TestSearchFallsBackToLooserQueries(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		queries = append(queries, query)
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(query, "recording:") {
			_, _ = w.Write([]byte(recordingPayload))
			return
		}
		_, _ = w.Write([]byte(`{"recordings": []}`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	candidates, err := client.Search(context.Background(), "David Bowie", "Heroes", "Heroes")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if len(queries) != 3 {
		t.Fatalf("got %d queries, want 3: %v", len(queries), queries)
	}
	if !strings.Contains(queries[1], "release:") {
		t.Fatalf("second query should target release: %q", queries[1])
	}
}

func TestSearchTreatsServerErrorAsNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	candidates, err := client.Search(context.Background(), "David Bowie", "Heroes", "")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("got %d candidates, want 0", len(candidates))
	}
}

func TestPingReportsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	err := client.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error from failing ping")
	}
	if !services.IsUnreachable(err) {
		t.Fatalf("expected unreachable marker, got %v", err)
	}
}

func TestPingSucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recordings": []}`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}
