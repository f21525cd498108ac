// Package logic contains the control loop of the pattern generator: button
// debouncing, selection state, and the indicator refresh.
// This package has NO hardware dependencies (no GPIO, MQTT, or OS access).
// Time and blocking waits are injected through Config.
package logic

import (
	"time"

	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

// Button identifies one of the four push-buttons.
type Button uint8

const (
	ButtonPower Button = iota
	ButtonPattern
	ButtonSpeed
	ButtonRange
)

// ButtonCount is the number of physical buttons.
const ButtonCount = 4

func (b Button) String() string {
	switch b {
	case ButtonPower:
		return "power"
	case ButtonPattern:
		return "pattern"
	case ButtonSpeed:
		return "speed"
	case ButtonRange:
		return "range"
	}
	return "unknown"
}

// State is the user-selected configuration of the generator.
type State struct {
	Active  bool
	Range   sweep.Range
	Pattern sweep.Pattern
	Speed   int
}

// EventType represents a selection state transition.
type EventType string

const (
	EventPowerOn  EventType = "POWER_ON"
	EventPowerOff EventType = "POWER_OFF"
	EventPattern  EventType = "PATTERN"
	EventSpeed    EventType = "SPEED"
	EventRange    EventType = "RANGE"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State  // state after the transition
	Delay     uint16 // half-period delay after the transition
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	PowerOn  int
	PowerOff int
	Pattern  int
	Speed    int
	Range    int
}

func (c *EventCounts) add(t EventType) {
	switch t {
	case EventPowerOn:
		c.PowerOn++
	case EventPowerOff:
		c.PowerOff++
	case EventPattern:
		c.Pattern++
	case EventSpeed:
		c.Speed++
	case EventRange:
		c.Range++
	}
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
