package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/button-stopwatch/internal/status"
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
	"onOff": func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Button Stopwatch</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
pre.lcd { background: #2a3b1f; color: #b6e35a; padding: 8px 12px; font-size: 1.6em; display: inline-block; margin: 0; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Button Stopwatch</h1>

<pre class="lcd" id="lcd">{{index .Status.Display 0}}
{{index .Status.Display 1}}</pre>

<h2>State</h2>
<table>
<tr><th>Phase</th><td id="phase">{{.Status.Status.Phase}}</td></tr>
<tr><th>Elapsed</th><td id="elapsed">{{.Status.Status.Elapsed}}</td></tr>
<tr><th>Laps</th><td id="laps">{{.Status.Status.Laps}}</td></tr>
<tr><th>Last lap</th><td id="last-lap">{{if .Status.Status.LastLap}}{{.Status.Status.LastLap}}{{else}}-{{end}}</td></tr>
<tr><th>Last action</th><td>{{if .Status.Status.LastAction}}{{.Status.Status.LastAction}}{{else}}-{{end}}</td></tr>
<tr><th>LED 0</th><td id="led0" class="{{onOff .Status.Indicators.LED0}}">{{onOff .Status.Indicators.LED0}}</td></tr>
<tr><th>LED 1</th><td id="led1" class="{{onOff .Status.Indicators.LED1}}">{{onOff .Status.Indicators.LED1}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .Status.Status.MQTT.Connected}}connected{{else}}disconnected{{end}}">{{if .Status.Status.MQTT.Connected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Status.Status.MQTT.Broker}}{{.Status.Status.MQTT.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>Press Counts</h2>
<table>
<tr><th>Tap</th><td>{{.Status.Status.Counts.Tap}}</td></tr>
<tr><th>Medium hold</th><td>{{.Status.Status.Counts.MediumHold}}</td></tr>
<tr><th>Long hold</th><td>{{.Status.Status.Counts.LongHold}}</td></tr>
<tr><th>Spurious release</th><td>{{.Status.Status.Counts.Spurious}}</td></tr>
<tr><th>Edges dropped</th><td>{{.Status.Status.Counts.EdgesDropped}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.Status.Status.StartTime}}</td></tr>
<tr><th>Medium hold</th><td>{{.Status.Status.Config.MediumHoldMs}}ms</td></tr>
<tr><th>Long hold</th><td>{{.Status.Status.Config.LongHoldMs}}ms</td></tr>
<tr><th>Display tick</th><td>{{.Status.Status.Config.DisplayTickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Status.Status.Config.HeartbeatMs 0}}disabled{{else}}{{.Status.Status.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Status.Status.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
<script>
(function() {
  function set(id, text) {
    var el = document.getElementById(id);
    if (el) el.textContent = text;
  }
  function led(id, on) {
    var el = document.getElementById(id);
    if (!el) return;
    el.textContent = on ? "on" : "off";
    el.className = on ? "on" : "off";
  }
  function refresh() {
    fetch("/index.json").then(function(r) { return r.json(); }).then(function(s) {
      set("lcd", s.display.join("\n"));
      set("phase", s.status.phase);
      set("elapsed", s.status.elapsed);
      set("laps", s.status.laps);
      set("last-lap", s.status.last_lap || "-");
      led("led0", s.indicators.led0);
      led("led1", s.indicators.led1);
    }).catch(function() {});
  }
  setInterval(refresh, 250);
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		Status StatusJSON
		Uptime time.Duration
	}{
		Status: buildJSON(snap),
		Uptime: snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
