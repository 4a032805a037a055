package srv

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/jypelle/karuselo/internal/srv/rotation"
)

type discardSink struct{}

func (discardSink) Present(img image.Image, x, y int) {}

func testGroup(name string, enabled bool) *rotation.Group {
	return rotation.NewGroup(rotation.GroupConfig{
		Name:         name,
		Enabled:      enabled,
		SlotDuration: 10 * time.Second,
		Sink:         discardSink{},
	})
}

func TestApplyTtlOverrides(t *testing.T) {
	slots := []rotation.Slot{
		{Key: "current_weather", TTL: 600 * time.Second},
		{Key: "hourly_forecast"},
	}

	applyTtlOverrides(slots, map[string]int64{
		"current_weather": 120,
		"hourly_forecast": -1,
		"no_such_slot":    60,
	})

	if slots[0].TTL != 120*time.Second {
		t.Fatalf("override not applied: %s", slots[0].TTL)
	}
	// A non-positive override is ignored.
	if slots[1].TTL != 0 {
		t.Fatalf("invalid override applied: %s", slots[1].TTL)
	}
}

func TestRefreshGroup(t *testing.T) {
	app := &ServerApp{
		groups: []*rotation.Group{testGroup("weather", false), testGroup("news", false)},
	}

	if err := app.refreshGroup("news"); err != nil {
		t.Fatalf("refresh of a known group failed: %v", err)
	}
	err := app.refreshGroup("stocks")
	if err == nil {
		t.Fatalf("refresh of an unknown group succeeded")
	}
	if !strings.Contains(err.Error(), "stocks") {
		t.Fatalf("error does not name the group: %v", err)
	}
}

func TestGroupStatuses(t *testing.T) {
	app := &ServerApp{
		groups: []*rotation.Group{testGroup("weather", false), testGroup("news", false)},
	}

	statuses := app.groupStatuses(time.Unix(0, 0))
	if len(statuses) != 2 {
		t.Fatalf("status count = %d, want 2", len(statuses))
	}
	if statuses[0].Name != "weather" || statuses[1].Name != "news" {
		t.Fatalf("unexpected status order: %+v", statuses)
	}
}
