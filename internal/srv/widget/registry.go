package widget

import (
	"fmt"
	"image"

	"github.com/jypelle/karuselo/internal/srv/config"
	"github.com/jypelle/karuselo/internal/srv/rotation"
)

// Definition is what a widget factory produces for one rotation group.
type Definition struct {
	Slots []rotation.Slot
	// Placeholder is shown until the first refresh of the group lands.
	Placeholder image.Image
}

// Factory builds the slots of a rotation group from its configuration.
// A factory returns an error when the group configuration is unusable
// (missing credentials, empty feed list); the group is then disabled
// for the process lifetime.
type Factory func(group *config.GroupParam) (Definition, error)

// UnknownWidgetError reports a group configured with a widget kind
// that no factory was registered for.
type UnknownWidgetError struct {
	Kind string
}

func (e *UnknownWidgetError) Error() string {
	return fmt.Sprintf("unknown widget kind: %s", e.Kind)
}

// Registry maps widget kinds to their factories. It is populated once
// at startup and read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

func (r *Registry) Register(kind string, factory Factory) {
	r.factories[kind] = factory
}

func (r *Registry) Lookup(kind string) (Factory, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, &UnknownWidgetError{Kind: kind}
	}
	return factory, nil
}
