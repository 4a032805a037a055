package rotation

import (
	"image"
	"image/color"
	imgdraw "image/draw"
	"time"
)

// crossfadeWindow is how long a slot change keeps blending before the
// new artifact is shown plainly.
const crossfadeWindow = time.Second

type transitionState int

const (
	transitionIdle transitionState = iota
	transitionRunning
)

// Transition decides, tick by tick, whether a frame must be emitted
// and what it looks like. While idle it suppresses redraws of an
// unchanged slot; on a slot change it either swaps immediately or runs
// a one-second crossfade from the previous artifact.
type Transition struct {
	animate bool

	state        transitionState
	startedAt    time.Time
	lastIndex    int
	lastArtifact image.Image
}

func NewTransition(animate bool) *Transition {
	return &Transition{
		animate:   animate,
		lastIndex: -1,
	}
}

// Frame returns the image to present for the active slot, or ok=false
// when nothing should be drawn this tick.
func (t *Transition) Frame(index int, artifact image.Image, now time.Time) (frame image.Image, ok bool) {
	switch t.state {
	case transitionIdle:
		if index == t.lastIndex {
			// Same slot as last tick, repainting would only flicker.
			return nil, false
		}
		if !t.animate || t.lastArtifact == nil {
			t.lastIndex = index
			t.lastArtifact = artifact
			return artifact, true
		}
		t.state = transitionRunning
		t.startedAt = now
		return blend(t.lastArtifact, artifact, subSecondAlpha(now)), true

	case transitionRunning:
		if now.Sub(t.startedAt) >= crossfadeWindow {
			t.state = transitionIdle
			t.lastIndex = index
			t.lastArtifact = artifact
			return artifact, true
		}
		return blend(t.lastArtifact, artifact, subSecondAlpha(now)), true
	}

	return nil, false
}

// subSecondAlpha maps the fractional second of now to 0..255.
func subSecondAlpha(now time.Time) uint8 {
	return uint8(int64(now.Nanosecond()) * 256 / 1_000_000_000)
}

// blend paints next over prev with a uniform alpha.
func blend(prev, next image.Image, alpha uint8) image.Image {
	bounds := prev.Bounds()
	out := image.NewRGBA(bounds)
	imgdraw.Draw(out, bounds, prev, bounds.Min, imgdraw.Src)
	imgdraw.DrawMask(
		out,
		next.Bounds().Sub(next.Bounds().Min).Add(bounds.Min),
		next,
		next.Bounds().Min,
		image.NewUniform(color.Alpha{A: alpha}),
		image.Point{},
		imgdraw.Over)
	return out
}
