package server

import (
	"encoding/json"
	"html/template"
	"net/http"
)

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{if eq .View.Widget.Kind "swagger-ui"}}<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" defer></script>
{{else}}<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
{{end}}<style>
body { margin: 0; font-family: system-ui, sans-serif; display: flex; flex-direction: column; height: 100vh; }
header { padding: 0.5rem 1rem; border-bottom: 1px solid #ddd; }
main { flex: 1; display: flex; min-height: 0; }
.layout-sidebar #nav { width: 14rem; border-right: 1px solid #ddd; overflow-y: auto; }
.nav ul { list-style: none; margin: 0; padding: 0; }
.nav a { display: block; padding: 0.4rem 0.8rem; color: inherit; text-decoration: none; }
.nav .active, .nav a.active { font-weight: 600; background: #eef3fb; }
.nav-tabs { display: flex; gap: 0.25rem; }
.nav-tabs a { display: inline-block; }
#content { flex: 1; display: flex; flex-direction: column; min-width: 0; }
#doc { flex: 1; min-height: 0; }
#doc > * { width: 100%; height: 100%; }
.banner-error { background: #fdecea; color: #611a15; padding: 0.5rem 1rem; }
.hidden { display: none; }
</style>
</head>
<body class="layout-{{.Navigation}}">
<header>
<strong>{{.Title}}</strong>
{{if ne .Navigation "sidebar"}}<div id="nav">{{.Nav}}</div>{{end}}
</header>
<div id="error" class="banner-error{{if ne .View.Phase "failed"}} hidden{{end}}" role="alert">Could not load the API group list: <span id="error-text">{{.View.Err}}</span></div>
<main>
{{if eq .Navigation "sidebar"}}<aside id="nav">{{.Nav}}</aside>{{end}}
<section id="content">
{{if .Intro}}<div id="intro">{{.Intro}}</div>{{end}}
<div id="description">{{.Description}}</div>
<div id="doc">
{{if eq .View.Widget.Kind "swagger-ui"}}<div id="swagger-ui" data-spec-url="{{.View.SpecURL}}"></div>
{{else}}<rapi-doc id="rapidoc"
  spec-url="{{.View.SpecURL}}"
  server-url="{{.View.ServerURL}}"
  default-api-server="{{.View.ServerURL}}"
  theme="{{.View.Widget.Theme}}"
  layout="{{.View.Widget.Layout}}"
  render-style="{{.View.Widget.RenderStyle}}"
  schema-expand-level="{{.View.Widget.SchemaExpandLevel}}"
  default-schema-tab="{{.View.Widget.DefaultSchemaTab}}"
  allow-spec-url-load="{{.View.Widget.AllowSpecURLLoad}}"
  allow-spec-file-load="false"
  allow-server-selection="{{.View.Widget.AllowServerSelection}}"
  route-prefix="{{.View.Widget.RoutePrefix}}"
  show-header="false"></rapi-doc>
{{end}}</div>
</section>
</main>
<script>
(function () {
  var view = {{.View}};
  var livePath = {{.LivePath}};
  var socket = null;

  function render(v) {
    view = v;
    var err = document.getElementById("error");
    document.getElementById("error-text").textContent = v.error || "";
    err.classList.toggle("hidden", v.phase !== "failed");
    var rapidoc = document.getElementById("rapidoc");
    if (rapidoc && rapidoc.getAttribute("spec-url") !== v.spec_url) {
      rapidoc.setAttribute("spec-url", v.spec_url);
    }
    var swagger = document.getElementById("swagger-ui");
    if (swagger && window.SwaggerUIBundle && swagger.dataset.loaded !== v.spec_url) {
      swagger.dataset.loaded = v.spec_url;
      window.SwaggerUIBundle({ url: v.spec_url, dom_id: "#swagger-ui" });
    }
    if (window.location.search !== v.location) {
      window.history.replaceState(null, "", v.location + window.location.hash);
    }
  }

  function bindNav() {
    var select = document.querySelector("#nav select");
    if (select) {
      select.onchange = function () {
        if (!send(select.value)) { select.form.submit(); }
      };
    }
  }

  function send(id) {
    if (socket && socket.readyState === WebSocket.OPEN) {
      socket.send(JSON.stringify({ type: "select", id: id }));
      return true;
    }
    return false;
  }

  document.addEventListener("click", function (e) {
    var link = e.target.closest && e.target.closest("#nav a[data-group]");
    if (link && send(link.dataset.group)) {
      e.preventDefault();
    }
  });

  window.addEventListener("load", function () {
    render(view);
    bindNav();
    if (!window.WebSocket) { return; }
    var proto = window.location.protocol === "https:" ? "wss://" : "ws://";
    socket = new WebSocket(proto + window.location.host + livePath + window.location.search);
    socket.onmessage = function (e) {
      var msg = JSON.parse(e.data);
      if (msg.type === "state") {
        document.getElementById("nav").innerHTML = msg.nav;
        document.getElementById("description").innerHTML = msg.description || "";
        bindNav();
        render(msg.view);
      } else if (msg.type === "error") {
        console.warn("docviewer:", msg.message);
      }
    };
    socket.onclose = function () { socket = null; };
  });
})();
</script>
</body>
</html>
`

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
