package srv

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/jypelle/karuselo/apimodel"
	"github.com/jypelle/karuselo/internal/srv/config"
	"github.com/jypelle/karuselo/internal/srv/device"
	"github.com/jypelle/karuselo/internal/srv/rotation"
	"github.com/jypelle/karuselo/internal/srv/widget"
	"github.com/jypelle/karuselo/internal/srv/widget/rss"
	"github.com/jypelle/karuselo/internal/srv/widget/weather"
	"github.com/jypelle/karuselo/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig
	displayDevice *device.Display
	clockDevice   *device.Clock
	buttonsDevice *device.Buttons
	apiDevice     *device.Api

	registry *widget.Registry
	groups   []*rotation.Group

	currentMode Mode

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

type Mode int64

const (
	SPLASH_MODE Mode = iota
	RUNNING_MODE
	END_MODE
)

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of karuselo server %s ...", version.AppVersion.String())

	app := &ServerApp{
		currentMode:      SPLASH_MODE,
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
		ServerConfig:     config.NewServerConfig(configDir, debugMode, simulationMode),
	}

	app.displayDevice = device.NewDisplay(app.SimulationMode)
	app.clockDevice = device.NewClock()
	app.buttonsDevice = device.NewButtons(app.SimulationMode)
	app.apiDevice = device.NewApi(app.ServerConfig)

	app.registry = widget.NewRegistry()
	app.registry.Register("weather", weather.Build)
	app.registry.Register("rss", rss.Build)

	app.buildGroups()

	logrus.Debugln("Server created")

	return app
}

// buildGroups turns each configured rotation group into an owned
// rotation.Group. Unusable groups become disabled instances instead of
// stopping the server.
func (s *ServerApp) buildGroups() {
	for _, groupParam := range s.Groups {
		var definition widget.Definition
		enabled := groupParam.Enabled

		if enabled {
			factory, err := s.registry.Lookup(groupParam.Widget)
			if err == nil {
				definition, err = factory(groupParam)
			}
			if err != nil {
				logrus.Warnf("Disabling rotation group %s: %v", groupParam.Name, err)
				enabled = false
				definition = widget.Definition{}
			}
		}

		applyTtlOverrides(definition.Slots, groupParam.SlotTtls)

		s.groups = append(s.groups, rotation.NewGroup(rotation.GroupConfig{
			Name:         groupParam.Name,
			Enabled:      enabled,
			SlotDuration: time.Duration(groupParam.Duration) * time.Second,
			Animation:    groupParam.Animation,
			X:            groupParam.X,
			Y:            groupParam.Y,
			Slots:        definition.Slots,
			Placeholder:  definition.Placeholder,
			CacheDir:     s.GetCompleteCacheFolder(groupParam.Name),
			Sink:         s.displayDevice,
		}))
	}
}

func applyTtlOverrides(slots []rotation.Slot, overrides map[string]int64) {
	for i := range slots {
		if seconds, ok := overrides[slots[i].Key]; ok && seconds > 0 {
			slots[i].TTL = time.Duration(seconds) * time.Second
		}
	}
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting karuselo server ...")

	logrus.Printf("Starting devices ...")

	// Start display device
	s.displayDevice.Start()
	if !s.DisplayOn() {
		s.displayDevice.SetOff()
	}

	// Display startup screen
	s.refreshDisplay()
	time.Sleep(2 * time.Second)

	// Start event loop
	go s.eventLoop()

	// Start clock device
	s.clockDevice.Start()

	// Start buttons device
	s.buttonsDevice.Start()

	// Start api device
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.Start()
	}

	// Start rotating
	s.currentMode = RUNNING_MODE
	s.refreshDisplay()
}

func (s *ServerApp) Stop(halt bool) {
	logrus.Printf("Stopping karuselo server ...")

	// Stop api
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.StopSendingEvent()
	}

	// Stop buttons device
	s.buttonsDevice.StopSendingEvent()

	// Stop clock device
	s.clockDevice.StopSendingEvent()

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	// Display end mode image
	s.currentMode = END_MODE
	s.refreshDisplay()

	// Stop display device
	s.displayDevice.Stop()

	// Flush config backup
	s.ServerConfig.ServerState.FlushSave()

	logrus.Printf("Server stopped")

	if halt {
		logrus.Printf("System halt")
		haltCmd := exec.Command("sudo", "halt")
		err := haltCmd.Run()
		if err != nil {
			logrus.Panicf("Unable to halt the system: %v", err)
		}
	}
	os.Exit(0)
}

// refreshGroup force-refreshes the sources of one group by name.
func (s *ServerApp) refreshGroup(name string) error {
	for _, group := range s.groups {
		if group.Name() == name {
			group.ForceRefresh()
			return nil
		}
	}
	return fmt.Errorf("unknown rotation group: %s", name)
}

func (s *ServerApp) refreshAllGroups() {
	logrus.Infof("Force refresh of all rotation groups")
	for _, group := range s.groups {
		group.ForceRefresh()
	}
}

func (s *ServerApp) groupStatuses(now time.Time) []apimodel.GroupStatus {
	statuses := make([]apimodel.GroupStatus, 0, len(s.groups))
	for _, group := range s.groups {
		statuses = append(statuses, group.Status(now))
	}
	return statuses
}
