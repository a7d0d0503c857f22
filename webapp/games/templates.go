package games

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strconv"
)

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{template "title" .}}</title>
<link rel="stylesheet" href="/static/css/main.css">
</head>
<body>
<nav><a href="/games/dashboard/">Dashboard</a> | <a href="/games/">Library</a></nav>
{{template "content" .}}
</body>
</html>{{end}}`

const dashboardTemplate = `{{define "title"}}Dashboard{{end}}
{{define "content"}}
<h1>Dashboard</h1>
<p>{{.GameCount}} games, {{printf "%.1f" .TotalPlaytime}} hours played.</p>
<form id="import-form" method="post" action="/games/import-start/">
<input type="hidden" name="csrfmiddlewaretoken" value="{{.CsrfToken}}">
{{if .TaskId}}<button id="import-button" type="submit" data-task-id="{{.TaskId}}" disabled>Importing...</button>
<span id="import-status">Import in progress...</span>
{{else}}<button id="import-button" type="submit" data-task-id="">Sync Steam</button>
<span id="import-status"></span>
{{end}}</form>
<h2>Most played</h2>
<ol>
{{range .TopGames}}<li><a href="/games/{{.AppId}}/">{{.Name}}</a> ({{printf "%.1f" .Playtime}} hours)</li>
{{end}}</ol>
<script>` + importStatusScript + `</script>
{{end}}`

//drives the import button from the browser: start, then poll until the import finishes
const importStatusScript = `
(function () {
  var form = document.getElementById("import-form");
  var button = document.getElementById("import-button");
  var statusText = document.getElementById("import-status");
  var token = form.elements["csrfmiddlewaretoken"].value;
  var taskId = button.getAttribute("data-task-id") || "";
  var generation = 0;
  var pollTimer = null;
  var states = {
    PENDING: ["Importing...", "Import in progress...", true],
    SUCCESS: ["Success", "Import completed.", true],
    FAILED: ["Retry", "Import Error.", false]
  };

  function render(gen, status) {
    if (gen !== generation) { return; }
    clearTimeout(pollTimer);
    var state = states[status] || ["Sync Steam", "", false];
    button.textContent = state[0];
    statusText.textContent = state[1];
    button.disabled = state[2];
    if (status === "PENDING" && taskId) {
      pollTimer = setTimeout(function () { check(gen); }, 3000);
    } else if (status === "SUCCESS") {
      setTimeout(function () { if (gen === generation) { window.location.reload(); } }, 1500);
    }
  }

  function check(gen) {
    fetch("/games/import-status/" + encodeURIComponent(taskId) + "/", {headers: {"Accept": "application/json"}})
      .then(function (r) { return r.json(); })
      .then(function (data) { render(gen, data.status); })
      .catch(function (err) {
        console.error("Checking import status error:", err);
        if (gen === generation) { pollTimer = setTimeout(function () { check(gen); }, 3000); }
      });
  }

  function fail(gen, message) {
    render(gen, "FAILED");
    if (gen === generation) { statusText.textContent = message; }
  }

  form.addEventListener("submit", function (event) {
    event.preventDefault();
    var gen = ++generation;
    taskId = "";
    render(gen, "PENDING");
    fetch(form.action, {method: "POST", headers: {"X-CSRFToken": token, "Content-Type": "application/json", "Accept": "application/json"}})
      .then(function (r) { return r.json(); })
      .then(function (data) {
        if (gen !== generation) { return; }
        if (!data.task_id) { fail(gen, "Error: server did not return task id."); return; }
        taskId = data.task_id;
        check(gen);
      })
      .catch(function () { fail(gen, "Network error."); });
  });

  if (taskId) {
    render(generation, "PENDING");
    check(generation);
  }
})();
`

const listTemplate = `{{define "title"}}Library{{end}}
{{define "content"}}
<h1>Library</h1>
<ul>
{{range .Games}}<li>{{if .IconUrl}}<img src="{{.IconUrl}}" alt=""> {{end}}<a href="/games/{{.AppId}}/">{{.Name}}</a> ({{printf "%.1f" .Playtime}} hours)</li>
{{end}}</ul>
<p>
{{if .HasPrevious}}<a href="?page={{.PreviousPage}}{{if .SortByName}}&sort=name{{end}}">previous</a>{{end}}
Page {{.Page}} of {{.PageCount}}
{{if .HasNext}}<a href="?page={{.NextPage}}{{if .SortByName}}&sort=name{{end}}">next</a>{{end}}
</p>
{{end}}`

const detailTemplate = `{{define "title"}}{{.Game.Name}}{{end}}
{{define "content"}}
<h1>{{.Game.Name}}</h1>
<img src="{{.HeaderImageUrl}}" alt="{{.Game.Name}}">
<p>{{printf "%.1f" .Game.Playtime}} hours played.{{if .LastPlayed}} Last played {{.LastPlayed.Format "2 Jan 2006"}}.{{end}}</p>
{{with .Game}}<dl>
{{if .Developers}}<dt>Developer</dt><dd>{{range $i, $d := .Developers}}{{if $i}}, {{end}}{{$d}}{{end}}</dd>{{end}}
{{if .Publishers}}<dt>Publisher</dt><dd>{{range $i, $p := .Publishers}}{{if $i}}, {{end}}{{$p}}{{end}}</dd>{{end}}
{{if .Genres}}<dt>Genres</dt><dd>{{range $i, $g := .Genres}}{{if $i}}, {{end}}{{$g}}{{end}}</dd>{{end}}
{{if .ReleaseDate}}<dt>Released</dt><dd>{{.ReleaseDate}}</dd>{{end}}
</dl>{{end}}
<h2>History</h2>
<table>
{{range .History}}<tr><td>{{.CreatedAt.Format "2006-01-02"}}</td><td>{{.Playtime}} minutes</td></tr>
{{end}}</table>
{{end}}`

var (
	dashboardPage = template.Must(template.Must(template.New("dashboard").Parse(layoutTemplate)).Parse(dashboardTemplate))
	listPage      = template.Must(template.Must(template.New("list").Parse(layoutTemplate)).Parse(listTemplate))
	detailPage    = template.Must(template.Must(template.New("detail").Parse(layoutTemplate)).Parse(detailTemplate))
)

/**
renders the page into a buffer first, so a template failure gives a clean 500 instead of half a page
*/
func writeHtmlContent(page *template.Template, data interface{}, w http.ResponseWriter, statusCode int) {
	var buf bytes.Buffer
	renderErr := page.ExecuteTemplate(&buf, "layout", data)
	if renderErr != nil {
		log.Printf("ERROR: Could not render %s page: %s", page.Name(), renderErr)
		w.WriteHeader(500)
		return
	}

	w.Header().Add("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(statusCode)
	_, writeErr := w.Write(buf.Bytes())
	if writeErr != nil {
		log.Printf("Could not write content to HTTP socket: %s", writeErr)
	}
}
