package srv

import (
	"syscall"
	"time"

	"github.com/jypelle/karuselo/internal/srv/event"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) eventLoop() {
	for loop := true; loop; {
		select {
		case ev := <-s.clockDevice.EventChannel():
			switch data := ev.Data.(type) {
			case event.TickerEventTickData:
				if s.currentMode == RUNNING_MODE && s.displayDevice.IsOn() {
					for _, group := range s.groups {
						group.Tick(data.Now)
					}
				}
			}
		case ev := <-s.apiDevice.EventChannel():
			switch data := ev.Data.(type) {
			case event.ApiEventGroupRefreshData:
				logrus.Infof("Receive api refresh event for group %s", data.GroupName)
				ev.Result <- s.refreshGroup(data.GroupName)
			case event.ApiEventDisplaySwitchData:
				logrus.Infof("Receive api display switch event")
				on := s.displayDevice.Switch()
				s.SetDisplayOn(on)
				ev.Result <- nil
			case event.ApiEventStatusData:
				data.Reply <- s.groupStatuses(time.Now())
			}
		case ev := <-s.buttonsDevice.EventChannel():
			logrus.Debugf("Receive button event: %d, %d, %d", ev.ButtonId, ev.ButtonEventType, ev.PressStepCount)
			switch ev.ButtonId {
			case event.DISPLAY_BUTTON:
				if ev.ButtonEventType == event.RELEASE_EVENT_TYPE && ev.PressStepCount < 5 {
					logrus.Debugf("Switch display on/off")
					on := s.displayDevice.Switch()
					s.SetDisplayOn(on)
				}
			case event.REFRESH_BUTTON:
				if ev.ButtonEventType == event.PRESS_EVENT_TYPE && ev.PressStepCount == 1 {
					s.refreshAllGroups()
				}
			case event.POWEROFF_BUTTON:
				if ev.ButtonEventType == event.PRESS_EVENT_TYPE && ev.PressStepCount == 20 {
					logrus.Debugf("See you!")
					syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)
				}
			}
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.eventLoopDone <- true
}
