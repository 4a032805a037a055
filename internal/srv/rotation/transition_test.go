package rotation

import (
	"image"
	"image/color"
	"testing"
	"time"
)

func uniformArtifact(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestTransitionSuppressesRedraw(t *testing.T) {
	transition := NewTransition(false)
	artifact := uniformArtifact(color.RGBA{R: 255, A: 255})

	if _, ok := transition.Frame(0, artifact, time.Unix(100, 0)); !ok {
		t.Fatalf("first frame of a slot not emitted")
	}

	// Same slot, same artifact: nothing to draw.
	if _, ok := transition.Frame(0, artifact, time.Unix(101, 0)); ok {
		t.Fatalf("unchanged slot re-emitted a frame")
	}
	if _, ok := transition.Frame(0, artifact, time.Unix(102, 0)); ok {
		t.Fatalf("unchanged slot re-emitted a frame")
	}
}

func TestTransitionImmediateSwap(t *testing.T) {
	transition := NewTransition(false)
	red := uniformArtifact(color.RGBA{R: 255, A: 255})
	blue := uniformArtifact(color.RGBA{B: 255, A: 255})

	transition.Frame(0, red, time.Unix(100, 0))

	frame, ok := transition.Frame(1, blue, time.Unix(110, 0))
	if !ok {
		t.Fatalf("slot change emitted no frame")
	}
	if frame != blue {
		t.Fatalf("animation disabled but frame is not the new artifact")
	}

	// And the new slot settles immediately.
	if _, ok := transition.Frame(1, blue, time.Unix(111, 0)); ok {
		t.Fatalf("settled slot re-emitted a frame")
	}
}

func TestTransitionCrossfade(t *testing.T) {
	transition := NewTransition(true)
	red := uniformArtifact(color.RGBA{R: 255, A: 255})
	blue := uniformArtifact(color.RGBA{B: 255, A: 255})

	// Very first artifact swaps in plainly, there is nothing to fade
	// from.
	frame, ok := transition.Frame(0, red, time.Unix(100, 0))
	if !ok || frame != red {
		t.Fatalf("first artifact was not shown plainly")
	}

	// Slot change mid-second: a blended frame, not the raw artifact.
	frame, ok = transition.Frame(1, blue, time.Unix(110, 500_000_000))
	if !ok {
		t.Fatalf("crossfade emitted no frame")
	}
	if frame == blue || frame == red {
		t.Fatalf("crossfade emitted a raw artifact instead of a blend")
	}
	blended, isRGBA := frame.(*image.RGBA)
	if !isRGBA {
		t.Fatalf("blend is not an RGBA image")
	}
	mid := blended.RGBAAt(2, 2)
	if mid.R == 0 || mid.B == 0 {
		t.Fatalf("blend at alpha 128 lost one side: %+v", mid)
	}

	// One second later the crossfade window has elapsed and the new
	// artifact is shown plainly.
	frame, ok = transition.Frame(1, blue, time.Unix(111, 500_000_000))
	if !ok || frame != blue {
		t.Fatalf("crossfade did not finish with the new artifact")
	}

	// Settled.
	if _, ok = transition.Frame(1, blue, time.Unix(112, 0)); ok {
		t.Fatalf("settled slot re-emitted a frame")
	}
}

func TestSubSecondAlpha(t *testing.T) {
	if got := subSecondAlpha(time.Unix(0, 0)); got != 0 {
		t.Fatalf("alpha at .0 = %d, want 0", got)
	}
	if got := subSecondAlpha(time.Unix(0, 500_000_000)); got != 128 {
		t.Fatalf("alpha at .5 = %d, want 128", got)
	}
	if got := subSecondAlpha(time.Unix(0, 999_999_999)); got != 255 {
		t.Fatalf("alpha at .999 = %d, want 255", got)
	}
}
