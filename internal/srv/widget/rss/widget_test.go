package rss

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jypelle/karuselo/internal/srv/config"
)

const feedDocument = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <item><title>First headline</title><link>https://example.org/1</link></item>
    <item><title>Second headline</title><link>https://example.org/2</link></item>
    <item><title>Third headline</title><link>https://example.org/3</link></item>
  </channel>
</rss>`

func TestBuildRequiresFeeds(t *testing.T) {
	_, err := Build(&config.GroupParam{Name: "news"})
	if !errors.Is(err, ErrNoFeeds) {
		t.Fatalf("build without feeds returned %v", err)
	}

	_, err = Build(&config.GroupParam{
		Name:  "news",
		Feeds: []*config.FeedParam{{Title: "no url"}},
	})
	if err == nil {
		t.Fatalf("build accepted a feed without url")
	}
}

func TestBuildOneSlotPerFeed(t *testing.T) {
	definition, err := Build(&config.GroupParam{
		Name: "news",
		Feeds: []*config.FeedParam{
			{Url: "https://example.org/a.xml"},
			{Url: "https://example.org/b.xml", Title: "B"},
		},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(definition.Slots) != 2 {
		t.Fatalf("slot count = %d, want 2", len(definition.Slots))
	}
	if definition.Slots[0].Identity != "https://example.org/a.xml" {
		t.Fatalf("slot identity = %s, want the feed url", definition.Slots[0].Identity)
	}
	if definition.Placeholder == nil {
		t.Fatalf("definition has no placeholder")
	}
}

func TestFetchFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedDocument))
	}))
	defer server.Close()

	raw, err := fetchFeed(server.URL, "", 2)(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	var payload feedPayload
	if err = json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("fetch produced invalid payload: %v", err)
	}
	if payload.Title != "Example News" {
		t.Fatalf("title = %q, want the parsed feed title", payload.Title)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("item count = %d, want the limit of 2", len(payload.Items))
	}
	if payload.Items[0].Title != "First headline" {
		t.Fatalf("first item = %q", payload.Items[0].Title)
	}
}

func TestFetchFeedTitleOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedDocument))
	}))
	defer server.Close()

	raw, err := fetchFeed(server.URL, "Tech", 0)(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	var payload feedPayload
	if err = json.Unmarshal(raw, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Title != "Tech" {
		t.Fatalf("title = %q, want the configured override", payload.Title)
	}
}

func TestDrawHeadline(t *testing.T) {
	img, err := drawHeadline(json.RawMessage(`{"title":"Example News","items":[{"title":"First headline"}]}`))
	if err != nil {
		t.Fatalf("drawHeadline failed: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != slideWidth || bounds.Dy() != slideHeight {
		t.Fatalf("line size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), slideWidth, slideHeight)
	}

	if _, err = drawHeadline(json.RawMessage(`{"title":"Empty","items":[]}`)); err == nil {
		t.Fatalf("drawHeadline accepted a feed with no items")
	}
}
