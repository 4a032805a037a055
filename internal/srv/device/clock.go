package device

import (
	"sync"
	"time"

	"github.com/jypelle/karuselo/internal/srv/event"
	"github.com/sirupsen/logrus"
)

// Clock is the panel tick source: one event per second carrying the
// wall-clock time. The rotation groups derive everything else from
// that instant.
type Clock struct {
	lock         sync.RWMutex
	eventChannel chan event.TickerEvent

	tickTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewClock() *Clock {
	ticker := Clock{
		eventChannel: make(chan event.TickerEvent),
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
	return &ticker
}

func (d *Clock) Start() {
	logrus.Infof("Start ticker device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.tickTicker = time.NewTicker(time.Second)

	go func() {
		for loop := true; loop; {
			select {
			case <-d.tickTicker.C:
				d.eventChannel <- event.TickerEvent{Data: event.TickerEventTickData{Now: time.Now()}}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Clock) StopSendingEvent() {
	logrus.Infof("Stop ticker device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.tickTicker.Stop()
	d.askDone <- true
	<-d.done
	//close(d.eventChannel)
}

func (d *Clock) EventChannel() chan event.TickerEvent {
	return d.eventChannel
}
