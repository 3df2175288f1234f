package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/beacon-scanner/internal/status"
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
	"orUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"when": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format("2006-01-02T15:04:05Z")
	},
	"angle": func(f float64) string { return fmt.Sprintf("%.1f°", f) },
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>{{orUnknown .Config.ScannerName}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.scanning { color: green; font-weight: bold; }
.idle { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>{{orUnknown .Config.ScannerName}}</h1>

<h2>Scanner</h2>
<table>
<tr><th>State</th><td id="scanner-state" class="{{if eq .Scanner.Phase "Scanning"}}scanning{{else}}idle{{end}}">{{orUnknown .Scanner.Phase}}</td></tr>
<tr><th>Scans</th><td>{{.Scanner.Scans}}</td></tr>
<tr><th>Last scan</th><td>{{when .Scanner.LastScan}}</td></tr>
<tr><th>Interval</th><td>{{.Scanner.IntervalMs}}ms</td></tr>
</table>

<h2>Reports</h2>
<table>
<tr><th>Server</th><td>{{.Config.ServerURL}}</td></tr>
<tr><th>Last report</th><td>{{when .Reports.Last}}</td></tr>
<tr><th>Last HTTP status</th><td id="http-status">{{if .Uplink.LastStatus}}{{.Uplink.LastStatus}}{{else}}none{{end}}</td></tr>
<tr><th>Sent / failed</th><td>{{.Uplink.Sent}} / {{.Uplink.Failed}}</td></tr>
{{if .Reports.LastDisconnect}}<tr><th>Last failure</th><td>{{.Reports.LastDisconnect}}</td></tr>{{end}}
</table>

<h2>Outputs</h2>
<table>
<tr><th>LED</th><td id="led">{{orUnknown .LED}}</td></tr>
<tr><th>Vibration</th><td id="vibration">{{orUnknown .Vibration}}</td></tr>
</table>

<h2>Movement</h2>
<table>
<tr><th>Angle XZ</th><td>{{angle .Movement.AvgAngleXZ}}</td></tr>
<tr><th>Angle YZ</th><td>{{angle .Movement.AvgAngleYZ}}</td></tr>
<tr><th>Total movement</th><td>{{printf "%.3f" .Movement.TotalMovement}}</td></tr>
<tr><th>Samples</th><td>{{.Movement.Samples}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Network</th><td class="{{if .Connected}}connected{{else}}disconnected{{end}}">{{if .Connected}}connected{{else}}disconnected{{end}}</td></tr>
{{if .Network}}<tr><th>Link</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Device</th><td>{{.Config.DeviceID}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{when .StartTime}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
