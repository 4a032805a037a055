package rotation

import (
	"encoding/json"
	"image"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSlotTTL applies when a slot does not override its artifact
// lifetime.
const DefaultSlotTTL = 30 * time.Minute

// RenderFunc turns a source payload into a drawable artifact.
type RenderFunc func(payload json.RawMessage) (image.Image, error)

// Slot is one rotating content item: where its data comes from and how
// it becomes an artifact.
type Slot struct {
	Key      string
	Identity string
	Fetch    FetchFunc
	Render   RenderFunc
	TTL      time.Duration
}

func (s Slot) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSlotTTL
	}
	return s.TTL
}

// RenderCache memoizes rendered artifacts per slot key. It belongs to
// a single rotation group and is only touched from the polling loop,
// so it carries no lock of its own.
type RenderCache struct {
	sources *SourceStore
	entries map[string]*renderEntry
}

type renderEntry struct {
	artifact   image.Image
	renderedAt time.Time
}

func NewRenderCache(sources *SourceStore) *RenderCache {
	return &RenderCache{
		sources: sources,
		entries: make(map[string]*renderEntry),
	}
}

// Get returns the artifact of slot at the given instant. A fresh cache
// entry is returned untouched. Otherwise the slot is re-rendered from
// whatever payload the source currently has, stale or not, and a
// background refresh is requested for stale or missing data. Get never
// blocks on I/O; ok is false only when no artifact exists at all yet.
func (c *RenderCache) Get(slot Slot, now time.Time) (artifact image.Image, ok bool) {
	ttl := slot.ttl()

	entry := c.entries[slot.Key]
	if entry != nil && now.Sub(entry.renderedAt) <= ttl {
		return entry.artifact, true
	}

	payload, lastFetch, hasPayload := c.sources.Read(slot.Identity)
	if !hasPayload || now.Sub(lastFetch) > ttl {
		c.sources.RequestRefresh(slot.Identity, slot.Fetch)
	}

	if !hasPayload {
		// Nothing to render from yet. Keep showing the expired
		// artifact if there is one.
		if entry != nil {
			return entry.artifact, true
		}
		return nil, false
	}

	img, err := slot.Render(payload)
	if err != nil {
		logrus.Errorf("Unable to render slot %s: %v", slot.Key, err)
		if entry != nil {
			return entry.artifact, true
		}
		return nil, false
	}

	// renderedAt is bucketed down to a multiple of the TTL so that
	// refresh boundaries of independent widgets line up on shared
	// wall-clock instants instead of drifting per instance.
	ttlSeconds := int64(ttl / time.Second)
	renderedAt := time.Unix(now.Unix()/ttlSeconds*ttlSeconds, 0)
	c.entries[slot.Key] = &renderEntry{artifact: img, renderedAt: renderedAt}
	logrus.Debugf("Rendered slot %s (bucket %s)", slot.Key, renderedAt.Format(time.RFC3339))

	return img, true
}
