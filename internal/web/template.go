package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/sensor-gateway/internal/record"
	"github.com/sweeney/sensor-gateway/internal/status"
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
	"floatOrDash": func(f record.Float) string {
		if f.IsNaN() {
			return "—"
		}
		return fmt.Sprintf("%.2f", float64(f))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sensor Gateway</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.warn { color: orange; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Sensor Gateway<span id="live-dot" class="live-dot pending" title="connecting"></span></h1>

<h2>Latest Reading</h2>
{{if .HasLatest}}
<table>
<tr><th>Received</th><td id="r-ts">{{.Latest.Timestamp}}</td></tr>
<tr><th>Methane</th><td id="r-methane" class="{{if .Latest.MethaneOK}}ok{{else}}warn{{end}}">{{if .Latest.MethaneOK}}{{.Latest.MethanePercent}} %vol ({{.Latest.MethaneTemperature}} °C){{else}}{{.Latest.MethaneError}}{{end}}</td></tr>
{{if .Latest.MethaneFaults}}<tr><th>Faults</th><td id="r-faults">{{range .Latest.MethaneFaults}}{{.}}<br>{{end}}</td></tr>{{end}}
<tr><th>pH</th><td>{{floatOrDash .Latest.PH}}</td></tr>
<tr><th>Temp 1 / Temp 2</th><td>{{floatOrDash .Latest.Temp1}} / {{floatOrDash .Latest.Temp2}} °C</td></tr>
<tr><th>BME680</th><td>{{floatOrDash .Latest.BMETemperature}} °C, {{floatOrDash .Latest.BMEHumidity}} %RH, {{floatOrDash .Latest.BMEPressure}} hPa</td></tr>
</table>
{{else}}
<p>No data received yet.</p>
{{end}}

<h2>Connectivity</h2>
<table>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
<tr><th>Store</th><td>{{if .Config.StoreConfigured}}configured ({{.Config.StoreTable}}){{else}}not configured{{end}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Received</th><td>{{.Counts.Received}}</td></tr>
<tr><th>Decoded</th><td>{{.Counts.Decoded}}</td></tr>
<tr><th>Warnings</th><td>{{.Counts.Warnings}}</td></tr>
<tr><th>Uploads</th><td>{{.Counts.Uploads}}</td></tr>
<tr><th>Upload failures</th><td>{{.Counts.UploadFailures}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Upload interval</th><td>{{.Config.UploadIntervalMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var dot = document.getElementById("live-dot");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/live");

    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() {
      setDot("err", "disconnected");
      setTimeout(connect, 5000);
    };
    ws.onmessage = function(ev) {
      try {
        var r = JSON.parse(ev.data);
        var ts = document.getElementById("r-ts");
        if (ts) { ts.textContent = r.timestamp; }
        var m = document.getElementById("r-methane");
        if (m) {
          if (r.methane_error) {
            m.textContent = r.methane_error;
            m.className = "warn";
          } else {
            m.textContent = r.methane_percent + " %vol (" + r.methane_temperature + " °C)";
            m.className = "ok";
          }
        }
      } catch (e) {}
    };
  }
  connect();
})();
</script>
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
	indexTmpl.Execute(w, data)
}
