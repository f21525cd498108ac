package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Active        bool         `json:"active"`
	Range         string       `json:"range"`
	Pattern       string       `json:"pattern"`
	PatternIndex  int          `json:"pattern_index"`
	Speed         int          `json:"speed"`
	Step          uint16       `json:"step"`
	Delay         uint16       `json:"delay"`
	DelayMin      uint16       `json:"delay_min"`
	DelayMax      uint16       `json:"delay_max"`
	Iterations    uint64       `json:"iterations"`
	Ticks         uint64       `json:"ticks"`
	WriteErrors   uint64       `json:"write_errors"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	PowerOn  int `json:"power_on"`
	PowerOff int `json:"power_off"`
	Pattern  int `json:"pattern"`
	Speed    int `json:"speed"`
	Range    int `json:"range"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip        string `json:"chip,omitempty"`
	SettleMs    int64  `json:"settle_ms"`
	TickUs      int64  `json:"tick_us"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
}

func buildInner(snap Snapshot) StatusInner {
	lim := sweep.Ranges[snap.State.Range]

	inner := StatusInner{
		Active:        snap.State.Active,
		Range:         snap.State.Range.String(),
		Pattern:       snap.State.Pattern.String(),
		PatternIndex:  int(snap.State.Pattern),
		Speed:         snap.State.Speed,
		Step:          sweep.Step(snap.State.Speed),
		Delay:         snap.Delay,
		DelayMin:      lim.Min,
		DelayMax:      lim.Max,
		Iterations:    snap.Iterations,
		Ticks:         snap.Ticks,
		WriteErrors:   snap.WriteErrors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			PowerOn:  snap.Counts.PowerOn,
			PowerOff: snap.Counts.PowerOff,
			Pattern:  snap.Counts.Pattern,
			Speed:    snap.Counts.Speed,
			Range:    snap.Counts.Range,
		},
		Config: ConfigJSON{
			Chip:        snap.Config.Chip,
			SettleMs:    snap.Config.SettleMs,
			TickUs:      snap.Config.TickUs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
		},
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
