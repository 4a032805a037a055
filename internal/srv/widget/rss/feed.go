package rss

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// feedPayload is the JSON shape stored in the source cache for one
// feed: the resolved title and the newest items, capped by the
// configured limit.
type feedPayload struct {
	Title string     `json:"title"`
	Items []feedItem `json:"items"`
}

type feedItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published,omitempty"`
}

const defaultItemLimit = 10

// fetchFeed builds the fetch operation of one feed source.
func fetchFeed(url string, title string, limit int) func(ctx context.Context) (json.RawMessage, error) {
	if limit <= 0 {
		limit = defaultItemLimit
	}
	return func(ctx context.Context) (json.RawMessage, error) {
		parsed, err := gofeed.NewParser().ParseURLWithContext(url, ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching feed %s: %w", url, err)
		}

		payload := feedPayload{Title: title}
		if payload.Title == "" {
			payload.Title = parsed.Title
		}
		if payload.Title == "" {
			payload.Title = url
		}

		for _, item := range parsed.Items {
			if len(payload.Items) >= limit {
				break
			}
			payload.Items = append(payload.Items, feedItem{
				Title:     item.Title,
				Link:      item.Link,
				Published: item.Published,
			})
		}

		return json.Marshal(payload)
	}
}
