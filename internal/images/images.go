package images

import (
	"image"

	"github.com/jypelle/karuselo/internal/screen"
	"github.com/jypelle/karuselo/internal/version"
)

// IntroImage is the startup splash, sized for the whole panel.
var IntroImage image.Image

func init() {
	img := screen.New(128, 64)
	screen.AddCenteredLabel(img, 28, "karuselo")
	screen.AddCenteredLabel(img, 44, "v"+version.AppVersion.String())
	IntroImage = img
}

// Loading returns the placeholder shown in a widget area until its
// first data arrives.
func Loading(width, height int) image.Image {
	img := screen.New(width, height)
	screen.AddCenteredLabel(img, height/2+4, "Loading...")
	return img
}
