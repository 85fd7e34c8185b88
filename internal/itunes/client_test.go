package itunes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"crate/internal/itunes"
	"crate/internal/ratelimit"
)

func newClient(t *testing.T, baseURL string) *itunes.Client {
	t.Helper()
	client, err := itunes.New(baseURL, "crate-test/1.0", ratelimit.New(1000))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestSearchArtworkRewritesResolution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("term") != "David Bowie Heroes" {
			t.Fatalf("unexpected term: %q", query.Get("term"))
		}
		if query.Get("media") != "music" || query.Get("limit") != "3" {
			t.Fatalf("unexpected query: %v", query)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
          "results": [
            {"artistName": "David Bowie", "artworkUrl100": "https://img/cover/100x100bb.jpg"}
          ]
        }`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	art, err := client.SearchArtwork(context.Background(), "David Bowie", "Heroes")
	if err != nil {
		t.Fatalf("SearchArtwork returned error: %v", err)
	}
	if art == nil {
		t.Fatal("expected artwork info")
	}
	if art.URL != "https://img/cover/1200x1200bb.jpg" {
		t.Fatalf("url = %q", art.URL)
	}
	if art.Width != 1200 || art.Type != "front" || art.Format != "jpeg" || art.Source != "itunes" {
		t.Fatalf("unexpected artwork: %#v", art)
	}
}

func TestSearchArtworkRejectsMismatchedArtist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
          "results": [
            {"artistName": "Completely Unrelated Band", "artworkUrl100": "https://img/other/100x100bb.jpg"}
          ]
        }`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	art, err := client.SearchArtwork(context.Background(), "David Bowie", "Heroes")
	if err != nil {
		t.Fatalf("SearchArtwork returned error: %v", err)
	}
	if art != nil {
		t.Fatalf("expected nil artwork for mismatched artist, got %#v", art)
	}
}

func TestSearchArtworkSkipsToValidResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
          "results": [
            {"artistName": "Someone Else Entirely", "artworkUrl100": "https://img/wrong/100x100bb.jpg"},
            {"artistName": "David Bowie", "artworkUrl100": "https://img/right/100x100bb.jpg"}
          ]
        }`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	art, err := client.SearchArtwork(context.Background(), "David Bowie", "Heroes")
	if err != nil {
		t.Fatalf("SearchArtwork returned error: %v", err)
	}
	if art == nil {
		t.Fatal("expected artwork info")
	}
	if art.URL != "https://img/right/1200x1200bb.jpg" {
		t.Fatalf("url = %q", art.URL)
	}
}

func TestSearchArtworkEmptyFieldsReturnNil(t *testing.T) {
	client := newClient(t, "https://example.com")
	art, err := client.SearchArtwork(context.Background(), "", "Heroes")
	if err != nil {
		t.Fatalf("SearchArtwork returned error: %v", err)
	}
	if art != nil {
		t.Fatalf("expected nil artwork, got %#v", art)
	}
}

func TestSearchArtworkServerErrorReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	art, err := client.SearchArtwork(context.Background(), "David Bowie", "Heroes")
	if err != nil {
		t.Fatalf("SearchArtwork returned error: %v", err)
	}
	if art != nil {
		t.Fatalf("expected nil artwork, got %#v", art)
	}
}
