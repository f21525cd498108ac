package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/status"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"patternName": func(i int) string {
		return sweep.Pattern(i).String()
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Buzzer Sweep</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.led { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 6px; background: #ccc; }
.led.lit { background: red; }
</style>
</head>
<body>
<h1>Buzzer Sweep</h1>

<h2>State</h2>
<table>
<tr><th>Power</th><td id="power" class="{{if .State.Active}}on{{else}}off{{end}}">{{if .State.Active}}ON{{else}}OFF{{end}}</td></tr>
<tr><th>Range</th><td id="range">{{.State.Range}} ({{.Limits.Min}}-{{.Limits.Max}})</td></tr>
<tr><th>Pattern</th><td id="pattern">{{.State.Pattern}}</td></tr>
<tr><th>Speed</th><td id="speed">{{.State.Speed}} (step {{.Step}})</td></tr>
<tr><th>Delay</th><td id="delay">{{.Delay}}</td></tr>
<tr><th>Pitch</th><td id="pitch">{{if .Tone.PitchHz}}{{printf "%.0f" .Tone.PitchHz}} Hz{{else}}-{{end}}</td></tr>
</table>

<h2>Indicators</h2>
<table>
{{range $i, $lit := .Indicators.Pattern}}<tr><th>{{patternName $i}}</th><td><span class="led{{if $lit}} lit{{end}}"></span></td></tr>
{{end}}<tr><th>HIGH range</th><td><span class="led{{if .Indicators.RangeHigh}} lit{{end}}"></span></td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Power on</th><td>{{.Counts.PowerOn}}</td></tr>
<tr><th>Power off</th><td>{{.Counts.PowerOff}}</td></tr>
<tr><th>Pattern</th><td>{{.Counts.Pattern}}</td></tr>
<tr><th>Speed</th><td>{{.Counts.Speed}}</td></tr>
<tr><th>Range</th><td>{{.Counts.Range}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Iterations</th><td>{{.Iterations}}</td></tr>
<tr><th>Ticks</th><td>{{.Ticks}}</td></tr>
<tr><th>Write errors</th><td>{{.WriteErrors}}</td></tr>
<tr><th>Settle</th><td>{{.Config.SettleMs}}ms</td></tr>
<tr><th>Tick</th><td>{{.Config.TickUs}}us</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/tone.json">Tone</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot methods are flattened into fields for the template.
	data := struct {
		status.Snapshot
		Uptime     time.Duration
		Limits     sweep.Limits
		Step       uint16
		Indicators logic.Indicators
		Tone       Tone
	}{
		Snapshot:   snap,
		Uptime:     snap.Uptime(),
		Limits:     sweep.Ranges[snap.State.Range],
		Step:       sweep.Step(snap.State.Speed),
		Indicators: snap.Indicators(),
		Tone:       toneOf(snap),
	}
	indexTmpl.Execute(w, data)
}
