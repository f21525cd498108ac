// Package status provides a thread-safe status tracker for the buzzer-sweep daemon.
// It is written by the event reporter and read by HTTP handlers and MQTT
// lifecycle messages.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/buzzer-sweep/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Chip        string
	SettleMs    int64
	TickUs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         logic.State
	Delay         uint16
	Counts        logic.EventCounts
	Iterations    uint64
	Ticks         uint64
	WriteErrors   uint64
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Indicators returns the indicator state matching the snapshot's selection.
func (s Snapshot) Indicators() logic.Indicators {
	return logic.Refresh(s.State)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the selection state and event counts after a transition.
func (t *Tracker) Update(state logic.State, delay uint16, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Delay = delay
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetProgress records loop progress sampled from the running loop: the live
// delay, iteration and tick counts, and failed output writes.
func (t *Tracker) SetProgress(delay uint16, iterations, ticks, writeErrors uint64) {
	t.mu.Lock()
	t.snap.Delay = delay
	t.snap.Iterations = iterations
	t.snap.Ticks = ticks
	t.snap.WriteErrors = writeErrors
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
