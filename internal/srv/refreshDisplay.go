package srv

import (
	"github.com/jypelle/karuselo/internal/images"
	"github.com/jypelle/karuselo/internal/screen"
	"github.com/jypelle/karuselo/internal/srv/device"
)

func (s *ServerApp) refreshDisplay() {
	switch s.currentMode {
	case SPLASH_MODE:
		s.displayDevice.ShowImage(images.IntroImage)
	case RUNNING_MODE:
		// Rotation groups draw themselves on clock ticks.
	case END_MODE:
		img := screen.New(device.PanelWidth, device.PanelHeight)
		screen.AddCenteredLabel(img, 36, "See you!")
		s.displayDevice.ShowImage(img)
	}
}
