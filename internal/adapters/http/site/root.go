// Package site serves the landing page.
package site

import (
	"context"
	"html/template"
	"net/http"

	"github.com/okian/xgmap/internal/domain/scoring"
)

// Register attaches the landing page to mux at /. Unknown paths get 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler renders the landing page.
type RootHandler struct {
	presets []scoring.Preset
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{presets: scoring.Presets()}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, h.presets)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>xgmap</title>
    <style>
      body{font-family:system-ui,sans-serif;margin:2rem;max-width:60rem}
      img{image-rendering:pixelated;border:1px solid #ccc}
      code{background:#f4f4f4;padding:0 .2rem}
    </style>
  </head>
  <body>
    <h1>xgmap</h1>
    <p>Expected-goals probabilities for shot positions. Full reference at <a href="/api-docs">/api-docs</a>.</p>
    {{range .}}
    <h2>{{.Name}}</h2>
    <p>{{.Description}}</p>
    <img class="pitch" alt="{{.Name}} heatmap" src="/v1/heatmap.png?preset={{.Name}}&amp;cell=8"
         data-preset="{{.Name}}" data-length="{{.Geometry.FieldLength}}" data-width="{{.Geometry.FieldWidth}}">
    <p class="readout" id="readout-{{.Name}}">hover the pitch</p>
    <p>
      <a href="/v1/model?preset={{.Name}}">model</a> ·
      <a href="/v1/series/distance?preset={{.Name}}&amp;format=csv">distance.csv</a> ·
      <a href="/v1/series/angle?preset={{.Name}}&amp;format=csv">angle.csv</a> ·
      <a href="/v1/series/scatter?preset={{.Name}}&amp;format=csv">scatter.csv</a>
    </p>
    {{end}}
    <p>Previously generated samples stay available for a while at <a href="/v1/datasets">/v1/datasets</a>.</p>
    <script>
      (function () {
        var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/v1/live");
        ws.onmessage = function (ev) {
          var msg = JSON.parse(ev.data);
          var out = document.getElementById("readout-" + msg.id);
          if (!out) return;
          if (msg.error) { out.textContent = msg.error.message; return; }
          var e = msg.evaluation;
          out.textContent = "x " + e.position.x.toFixed(1) + ", y " + e.position.y.toFixed(1) + ": xG " + e.xg.toFixed(3);
          out.style.color = e.css;
        };
        document.querySelectorAll("img.pitch").forEach(function (img) {
          img.addEventListener("mousemove", function (ev) {
            if (ws.readyState !== WebSocket.OPEN) return;
            var length = parseFloat(img.dataset.length), width = parseFloat(img.dataset.width);
            ws.send(JSON.stringify({
              id: img.dataset.preset,
              preset: img.dataset.preset,
              x: length / 2 + ev.offsetX / img.clientWidth * length / 2,
              y: ev.offsetY / img.clientHeight * width
            }));
          });
        });
      })();
    </script>
  </body>
</html>
`))
