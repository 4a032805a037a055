package widget

import (
	"errors"
	"testing"

	"github.com/jypelle/karuselo/internal/srv/config"
)

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	registry.Register("rss", func(group *config.GroupParam) (Definition, error) {
		return Definition{}, nil
	})

	if _, err := registry.Lookup("rss"); err != nil {
		t.Fatalf("lookup of a registered kind failed: %v", err)
	}

	_, err := registry.Lookup("stocks")
	if err == nil {
		t.Fatalf("lookup of an unregistered kind succeeded")
	}
	var unknown *UnknownWidgetError
	if !errors.As(err, &unknown) {
		t.Fatalf("lookup error is %T, want *UnknownWidgetError", err)
	}
	if unknown.Kind != "stocks" {
		t.Fatalf("error kind = %s, want stocks", unknown.Kind)
	}
}
