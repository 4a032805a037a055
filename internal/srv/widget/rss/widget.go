package rss

import (
	"errors"
	"fmt"

	"github.com/jypelle/karuselo/internal/images"
	"github.com/jypelle/karuselo/internal/srv/config"
	"github.com/jypelle/karuselo/internal/srv/rotation"
	"github.com/jypelle/karuselo/internal/srv/widget"
)

var ErrNoFeeds = errors.New("rss widget requires at least one feed")

// Build is the widget factory for news ticker groups: one slot per
// configured feed, rotating through their newest headlines. The source
// identity is the feed URL, so the side-cache survives title changes.
func Build(group *config.GroupParam) (widget.Definition, error) {
	if len(group.Feeds) == 0 {
		return widget.Definition{}, ErrNoFeeds
	}

	slots := make([]rotation.Slot, 0, len(group.Feeds))
	for i, feed := range group.Feeds {
		if feed.Url == "" {
			return widget.Definition{}, fmt.Errorf("feed %d has no url", i)
		}
		slots = append(slots, rotation.Slot{
			Key:      feed.Url,
			Identity: feed.Url,
			Fetch:    fetchFeed(feed.Url, feed.Title, feed.Limit),
			Render:   drawHeadline,
		})
	}

	return widget.Definition{
		Slots:       slots,
		Placeholder: images.Loading(slideWidth, slideHeight),
	}, nil
}
