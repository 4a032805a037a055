package device

import (
	"image"
	imgdraw "image/draw"
	"log"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// Panel geometry of the SSD1306.
const (
	PanelWidth  = 128
	PanelHeight = 64
)

func NewDisplay(simulationMode bool) *Display {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	device := Display{
		simulationMode: simulationMode,
		frame:          image.NewRGBA(image.Rect(0, 0, PanelWidth, PanelHeight)),
		askDone:        make(chan bool),
		askImg:         make(chan image.Image),
		done:           make(chan bool),
	}

	return &device
}

func (d *Display) Start() {
	logrus.Infof("Start display device")

	d.on = true

	if d.simulationMode {
		d.startSimulation()
	} else {
		var err error
		// Open a handle to the first available I²C bus:
		d.i2cBus, err = i2creg.Open("")
		if err != nil {
			logrus.Fatalf("Unable to open i2c bus: %v\n", err)
		}

		// Open a handle to a ssd1306 connected on the I²C bus:
		d.oledDisplay, err = ssd1306.NewI2C(d.i2cBus, &ssd1306.DefaultOpts)
		if err != nil {
			logrus.Fatalf("Unable to initialize oled display: %v\n", err)
		}

		d.oledDisplay.SetContrast(1)

		go func() {
			for loop := true; loop; {
				select {
				case <-d.askDone:
					loop = false
				case newImg := <-d.askImg:
					d.oledLock.Lock()
					d.oledDisplay.Draw(d.oledDisplay.Bounds(), newImg, image.Point{})
					d.oledLock.Unlock()
				}
			}
			d.oledLock.Lock()
			d.i2cBus.Close()
			d.oledLock.Unlock()
			d.done <- true
		}()
	}
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	if d.simulationMode {
		d.closeSimulationWindow()
	} else {
		d.askDone <- true
		<-d.done
	}

}

func (d *Display) SetOff() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.setOff()
}

func (d *Display) setOff() {
	d.on = false
	if !d.simulationMode {
		d.oledLock.Lock()
		d.oledDisplay.Halt()
		d.oledLock.Unlock()
	}
}

func (d *Display) SetOn() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.setOn()
}

func (d *Display) setOn() {
	d.on = true
	if d.simulationMode {
		d.invalidateSimulationWindow()
	} else {
		d.oledLock.Lock()
		d.oledDisplay.SetContrast(1) // Hack to force display on (calling Draw() is not enough)
		d.oledLock.Unlock()
		d.askImg <- d.lastImg
	}

}

func (d *Display) Switch() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.on {
		d.setOff()
	} else {
		d.setOn()
	}

	return d.on
}

func (d *Display) IsOn() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.on
}

// ShowImage replaces the whole panel content (splash and end screens).
func (d *Display) ShowImage(img image.Image) {
	d.lock.Lock()
	defer d.lock.Unlock()

	bounds := img.Bounds()
	imgdraw.Draw(d.frame, d.frame.Bounds(), img, bounds.Min, imgdraw.Src)
	d.push()
}

// Present composites the artifact of a rotation group onto the panel
// frame at its placement coordinates and pushes the result. This is
// the display sink handed to the rotation groups.
func (d *Display) Present(img image.Image, x, y int) {
	d.lock.Lock()
	defer d.lock.Unlock()

	bounds := img.Bounds()
	target := bounds.Sub(bounds.Min).Add(image.Pt(x, y))
	imgdraw.Draw(d.frame, target, img, bounds.Min, imgdraw.Src)
	d.push()
}

// push hands the current frame to the display. Caller must hold the
// lock.
func (d *Display) push() {
	d.lastImg = d.frame
	if d.on {
		if d.simulationMode {
			d.invalidateSimulationWindow()
		} else {
			d.askImg <- d.frame
		}
	}
}
