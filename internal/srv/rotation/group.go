package rotation

import (
	"image"
	"time"

	"github.com/jypelle/karuselo/apimodel"
	"github.com/sirupsen/logrus"
)

// Sink receives finished frames. The display device implements it.
type Sink interface {
	Present(img image.Image, x, y int)
}

type groupState int

const (
	groupUninitialized groupState = iota
	groupActive
	groupDisabled
)

func (s groupState) String() string {
	switch s {
	case groupUninitialized:
		return "uninitialized"
	case groupActive:
		return "active"
	case groupDisabled:
		return "disabled"
	}
	return "unknown"
}

// GroupConfig describes one rotation group.
type GroupConfig struct {
	Name         string
	Enabled      bool
	SlotDuration time.Duration
	Animation    bool
	X, Y         int
	Slots        []Slot
	Placeholder  image.Image
	CacheDir     string
	Sink         Sink
}

// Group is the rotation state of one widget: its slots, caches and
// transition controller. One instance exists per configured group for
// the whole process lifetime; all methods except status reads are
// called from the single polling loop.
type Group struct {
	name         string
	slotDuration time.Duration
	slots        []Slot
	x, y         int
	placeholder  image.Image

	sources    *SourceStore
	renders    *RenderCache
	transition *Transition
	sink       Sink

	state           groupState
	drewPlaceholder bool
}

// NewGroup builds a group. A group without slots, or one disabled by
// configuration, enters a terminal disabled state and ignores every
// tick for the rest of the process lifetime.
func NewGroup(cfg GroupConfig) *Group {
	sources := NewSourceStore(cfg.CacheDir)
	group := &Group{
		name:         cfg.Name,
		slotDuration: ClampSlotDuration(cfg.SlotDuration),
		slots:        cfg.Slots,
		x:            cfg.X,
		y:            cfg.Y,
		placeholder:  cfg.Placeholder,
		sources:      sources,
		renders:      NewRenderCache(sources),
		transition:   NewTransition(cfg.Animation),
		sink:         cfg.Sink,
	}

	if !cfg.Enabled {
		logrus.Infof("Rotation group %s is disabled by configuration", cfg.Name)
		group.state = groupDisabled
	} else if len(cfg.Slots) == 0 {
		logrus.Warnf("Rotation group %s has no slots, disabling", cfg.Name)
		group.state = groupDisabled
	}

	return group
}

func (g *Group) Name() string {
	return g.name
}

// Tick is the single entry point driven by the host tick loop. It
// computes the active slot, obtains its artifact without blocking, and
// lets the transition controller decide whether a frame goes out.
func (g *Group) Tick(now time.Time) {
	switch g.state {
	case groupDisabled:
		return
	case groupUninitialized:
		logrus.Debugf("Rotation group %s active (%d slots, %s per slot)", g.name, len(g.slots), g.slotDuration)
		g.state = groupActive
	}

	index := ActiveIndex(now, g.slotDuration, len(g.slots))
	artifact, ok := g.renders.Get(g.slots[index], now)
	if !ok {
		// No data has ever arrived for this slot. Show the loading
		// placeholder once and wait for a refresh to land.
		if !g.drewPlaceholder && g.placeholder != nil {
			g.sink.Present(g.placeholder, g.x, g.y)
			g.drewPlaceholder = true
		}
		return
	}

	if frame, draw := g.transition.Frame(index, artifact, now); draw {
		g.sink.Present(frame, g.x, g.y)
	}
}

// ForceRefresh requests a refresh of every source of the group,
// regardless of staleness. In-flight refreshes are not doubled.
func (g *Group) ForceRefresh() {
	if g.state == groupDisabled {
		return
	}
	for _, slot := range g.slots {
		g.sources.RequestRefresh(slot.Identity, slot.Fetch)
	}
}

// Status reports the group for the control API.
func (g *Group) Status(now time.Time) apimodel.GroupStatus {
	status := apimodel.GroupStatus{
		Name:        g.name,
		State:       g.state.String(),
		ActiveIndex: -1,
		SlotCount:   len(g.slots),
		Sources:     g.sources.Statuses(),
	}
	if g.state != groupDisabled && len(g.slots) > 0 {
		status.ActiveIndex = ActiveIndex(now, g.slotDuration, len(g.slots))
	}
	return status
}
