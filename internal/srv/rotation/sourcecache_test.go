package rotation

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// waitFor polls condition until it holds or the test deadline expires.
func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached within 2s")
}

func TestSourceStoreReadUnknown(t *testing.T) {
	store := NewSourceStore("")

	if _, _, ok := store.Read("rss/unknown"); ok {
		t.Fatalf("unknown source reported a payload")
	}
}

func TestSourceStoreRefresh(t *testing.T) {
	store := NewSourceStore("")

	started := store.RequestRefresh("rss/feed", func(ctx context.Context) (json.RawMessage, error) {
		return json.RawMessage(`{"title":"ok"}`), nil
	})
	if !started {
		t.Fatalf("first refresh request refused")
	}

	waitFor(t, func() bool {
		_, _, ok := store.Read("rss/feed")
		return ok
	})

	payload, lastFetch, _ := store.Read("rss/feed")
	if string(payload) != `{"title":"ok"}` {
		t.Fatalf("unexpected payload: %s", payload)
	}
	if lastFetch.IsZero() {
		t.Fatalf("lastFetch not set after successful refresh")
	}
}

func TestSourceStoreSingleInFlightRefresh(t *testing.T) {
	store := NewSourceStore("")

	release := make(chan struct{})
	blocking := func(ctx context.Context) (json.RawMessage, error) {
		<-release
		return json.RawMessage(`1`), nil
	}

	if !store.RequestRefresh("slow", blocking) {
		t.Fatalf("first refresh request refused")
	}
	if store.RequestRefresh("slow", blocking) {
		t.Fatalf("second refresh request accepted while one is in flight")
	}

	// Another source is independent.
	if !store.RequestRefresh("other", func(ctx context.Context) (json.RawMessage, error) {
		return json.RawMessage(`2`), nil
	}) {
		t.Fatalf("refresh of an independent source refused")
	}

	close(release)
	waitFor(t, func() bool {
		_, _, ok := store.Read("slow")
		return ok
	})

	// Once settled, a new refresh is accepted again.
	close2 := make(chan struct{})
	defer close(close2)
	if !store.RequestRefresh("slow", func(ctx context.Context) (json.RawMessage, error) {
		<-close2
		return json.RawMessage(`3`), nil
	}) {
		t.Fatalf("refresh request refused after previous one settled")
	}
}

func TestSourceStoreFailedRefreshKeepsPayload(t *testing.T) {
	store := NewSourceStore("")

	store.RequestRefresh("flaky", func(ctx context.Context) (json.RawMessage, error) {
		return json.RawMessage(`"good"`), nil
	})
	waitFor(t, func() bool {
		_, _, ok := store.Read("flaky")
		return ok
	})

	failed := make(chan struct{})
	store.RequestRefresh("flaky", func(ctx context.Context) (json.RawMessage, error) {
		defer close(failed)
		return nil, errors.New("network down")
	})
	<-failed

	waitFor(t, func() bool {
		for _, status := range store.Statuses() {
			if status.Identity == "flaky" {
				return !status.Refreshing
			}
		}
		return false
	})

	payload, _, ok := store.Read("flaky")
	if !ok || string(payload) != `"good"` {
		t.Fatalf("failed refresh lost the previous payload, got %q", payload)
	}
}

func TestSourceStoreSideCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	first := NewSourceStore(dir)
	first.RequestRefresh("https://example.org/feed.xml", func(ctx context.Context) (json.RawMessage, error) {
		return json.RawMessage(`{"items":[]}`), nil
	})
	waitFor(t, func() bool {
		_, _, ok := first.Read("https://example.org/feed.xml")
		return ok
	})

	// A fresh store, as after a restart, seeds from the file.
	second := NewSourceStore(dir)
	payload, lastFetch, ok := second.Read("https://example.org/feed.xml")
	if !ok {
		t.Fatalf("restarted store did not seed from side-cache")
	}
	if string(payload) != `{"items":[]}` {
		t.Fatalf("unexpected seeded payload: %s", payload)
	}
	if lastFetch.IsZero() {
		t.Fatalf("seeded lastFetch is zero")
	}
}

func TestSourceStoreIgnoresCorruptSideCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0660); err != nil {
		t.Fatal(err)
	}

	store := NewSourceStore(dir)
	if _, _, ok := store.Read("bad"); ok {
		t.Fatalf("corrupt side-cache file was used as a payload")
	}
}

func TestFlattenIdentity(t *testing.T) {
	got := flattenIdentity("https://example.org/feed.xml?x=1")
	want := "https___example.org_feed.xml_x_1"
	if got != want {
		t.Fatalf("flattenIdentity = %q, want %q", got, want)
	}
}
