package rotation

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"testing"
	"time"
)

func seededStore(t *testing.T, identity string, payload string) *SourceStore {
	t.Helper()
	store := NewSourceStore("")
	store.RequestRefresh(identity, func(ctx context.Context) (json.RawMessage, error) {
		return json.RawMessage(payload), nil
	})
	waitFor(t, func() bool {
		_, _, ok := store.Read(identity)
		return ok
	})
	return store
}

func TestRenderCacheHit(t *testing.T) {
	store := seededStore(t, "weather/current", `{"temp":"12"}`)
	cache := NewRenderCache(store)

	renders := 0
	slot := Slot{
		Key:      "current_weather",
		Identity: "weather/current",
		TTL:      600 * time.Second,
		Render: func(payload json.RawMessage) (image.Image, error) {
			renders++
			return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
		},
	}

	if _, ok := cache.Get(slot, time.Unix(1205, 0)); !ok {
		t.Fatalf("first get returned no artifact")
	}
	if renders != 1 {
		t.Fatalf("renders = %d, want 1", renders)
	}

	// 1205 lands in the 1200 bucket, so the entry stays fresh up to
	// 1800 even though 600s have not elapsed since the render itself.
	if _, ok := cache.Get(slot, time.Unix(1790, 0)); !ok {
		t.Fatalf("get within ttl returned no artifact")
	}
	if renders != 1 {
		t.Fatalf("fresh entry was re-rendered, renders = %d", renders)
	}

	if _, ok := cache.Get(slot, time.Unix(1810, 0)); !ok {
		t.Fatalf("get past ttl returned no artifact")
	}
	if renders != 2 {
		t.Fatalf("expired entry was not re-rendered, renders = %d", renders)
	}
}

func TestRenderCacheNoPayload(t *testing.T) {
	store := NewSourceStore("")
	cache := NewRenderCache(store)

	fetched := make(chan struct{}, 1)
	slot := Slot{
		Key:      "current_weather",
		Identity: "weather/current",
		Fetch: func(ctx context.Context) (json.RawMessage, error) {
			fetched <- struct{}{}
			return nil, errors.New("no network")
		},
		Render: func(payload json.RawMessage) (image.Image, error) {
			t.Fatalf("render called without a payload")
			return nil, nil
		},
	}

	if _, ok := cache.Get(slot, time.Unix(1000, 0)); ok {
		t.Fatalf("got an artifact for a source with no data")
	}

	// The miss must have triggered a background fetch.
	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatalf("no fetch requested for a payload-less source")
	}
}

func TestRenderCacheKeepsArtifactOnRenderFailure(t *testing.T) {
	store := seededStore(t, "weather/current", `{"temp":"12"}`)
	cache := NewRenderCache(store)

	good := image.NewRGBA(image.Rect(0, 0, 8, 8))
	renders := 0
	slot := Slot{
		Key:      "current_weather",
		Identity: "weather/current",
		TTL:      600 * time.Second,
		Render: func(payload json.RawMessage) (image.Image, error) {
			renders++
			if renders > 1 {
				return nil, errors.New("bad payload shape")
			}
			return good, nil
		},
	}

	if _, ok := cache.Get(slot, time.Unix(1205, 0)); !ok {
		t.Fatalf("first get returned no artifact")
	}

	// Past the ttl the render fails; the expired artifact must keep
	// being served instead of going blank.
	artifact, ok := cache.Get(slot, time.Unix(1900, 0))
	if !ok {
		t.Fatalf("render failure dropped the previous artifact")
	}
	if artifact != good {
		t.Fatalf("render failure served a different artifact")
	}
}

func TestSlotDefaultTtl(t *testing.T) {
	if got := (Slot{}).ttl(); got != DefaultSlotTTL {
		t.Fatalf("default ttl = %s, want %s", got, DefaultSlotTTL)
	}
	if got := (Slot{TTL: time.Minute}).ttl(); got != time.Minute {
		t.Fatalf("ttl override = %s, want 1m", got)
	}
}
