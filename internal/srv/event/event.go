package event

import (
	"time"

	"github.com/jypelle/karuselo/apimodel"
)

// Ticker
type TickerEvent struct {
	Data interface{}
}

type TickerEventTickData struct {
	Now time.Time
}

// Buttons
type ButtonId int

const (
	DISPLAY_BUTTON ButtonId = iota
	REFRESH_BUTTON
	POWEROFF_BUTTON
)

type ButtonEventType int

const (
	PRESS_EVENT_TYPE ButtonEventType = iota
	RELEASE_EVENT_TYPE
)

type ButtonEvent struct {
	ButtonId        ButtonId
	ButtonEventType ButtonEventType
	PressStepCount  int64
}

// Api
type ApiEvent struct {
	Result chan error
	Data   interface{}
}

type ApiEventGroupRefreshData struct {
	GroupName string
}

type ApiEventDisplaySwitchData struct{}

type ApiEventStatusData struct {
	Reply chan []apimodel.GroupStatus
}
