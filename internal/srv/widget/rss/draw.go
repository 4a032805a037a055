package rss

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/jypelle/karuselo/internal/screen"
)

// Ticker line geometry on the panel.
const (
	slideWidth  = 128
	slideHeight = 16
)

// drawHeadline renders the feed's newest headline as one ticker line.
func drawHeadline(payload json.RawMessage) (image.Image, error) {
	var feed feedPayload
	if err := json.Unmarshal(payload, &feed); err != nil {
		return nil, fmt.Errorf("feed payload: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed %s has no items", feed.Title)
	}

	img := screen.New(slideWidth, slideHeight)
	screen.AddLabel(img, 0, 12, screen.Truncate(feed.Title+": "+feed.Items[0].Title, slideWidth))
	return img, nil
}
