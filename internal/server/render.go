package server

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/elpatron68/task-web/internal/auth"
	applog "github.com/elpatron68/task-web/internal/log"
)

const layoutTpl = `<!doctype html><html lang="en"><head><meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if eq .PageTitle .AppTitle}}{{.AppTitle}}{{else}}{{.PageTitle}} - {{.AppTitle}}{{end}}</title><link rel="icon" href="/favicon.svg" type="image/svg+xml">
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,Helvetica,Arial,sans-serif;margin:0;color:#0b0c0c}
header{background:#0b0c0c;color:#fff;padding:10px 16px}
header a.brand{color:#fff;font-weight:700;text-decoration:none;margin-right:16px}
nav a{padding:6px 10px;text-decoration:none;color:#fff;border-radius:4px}
nav a.active{background:#1d70b8}
nav .user{float:right;color:#b1b4b6}
main{max-width:1100px;margin:16px auto;padding:0 16px}
.banner{margin:10px 0;padding:10px;border:1px solid #b1b4b6;border-left-width:5px;background:#fff}
.banner.success{border-left-color:#00703c}
.banner.error{border-left-color:#d4351c}
table{border-collapse:collapse;width:100%}
th,td{text-align:left;padding:6px 8px;border-bottom:1px solid #b1b4b6;vertical-align:top}
thead th{background:#f3f2f1}
.muted{color:#505a5f;font-size:0.9em}
.badge{display:inline-block;padding:2px 8px;border-radius:12px;font-size:0.85em;line-height:1.4}
.badge.status.pending{background:#e0e7ff;color:#3730a3}
.badge.status.in-progress{background:#fef3c7;color:#92400e}
.badge.status.completed{background:#dcfce7;color:#166534}
.badge.status.cancelled{background:#e5e7eb;color:#374151}
.badge.overdue{background:#fee2e2;color:#991b1b}
.due.overdue{color:#991b1b;font-weight:600}
.summary{display:flex;gap:12px;flex-wrap:wrap;margin:12px 0}
.summary .card{border:1px solid #b1b4b6;padding:10px 14px;min-width:110px}
.summary .card strong{display:block;font-size:1.6em}
.field{margin-bottom:14px}
.field label{display:block;font-weight:600;margin-bottom:4px}
.field input,.field textarea,.field select{width:100%;max-width:560px;padding:6px;font:inherit}
.field.has-error{border-left:4px solid #d4351c;padding-left:10px}
.field-error{color:#d4351c;font-weight:600;margin:2px 0 6px}
.button,button{background:#00703c;color:#fff;border:none;padding:8px 14px;border-radius:3px;cursor:pointer;text-decoration:none;font:inherit}
button.danger{background:#d4351c}
.markdown pre{background:#f6f8fa;border:1px solid #d0d7de;padding:8px;overflow-x:auto}
.markdown code{background:#f6f8fa;padding:2px 4px}
dl.details dt{font-weight:600;margin-top:10px}
dl.details dd{margin:2px 0 0 0}
footer{max-width:1100px;margin:24px auto;padding:8px 16px;border-top:1px solid #b1b4b6;color:#505a5f;font-size:0.85em}
</style>
</head><body>
<header>
  <a class="brand" href="/">{{.AppTitle}}</a>
  <nav style="display:inline">
    <a href="/" class="{{if eq .Active "home"}}active{{end}}">Home</a>
    <a href="/tasks" class="{{if eq .Active "tasks"}}active{{end}}">Tasks</a>
    <a href="/tasks/new" class="{{if eq .Active "new"}}active{{end}}">New task</a>
    {{if .User}}<span class="user">Signed in as {{.User}}</span>{{end}}
  </nav>
</header>
<main>
{{if .SuccessMessage}}<div class="banner success" role="status">{{.SuccessMessage}}</div>{{end}}
{{if .ErrorMessage}}<div class="banner error" role="alert">{{.ErrorMessage}}</div>{{end}}
{{template "content" .}}
</main>
<footer>{{.AppTitle}} &middot; {{(now).Year}}</footer>
</body></html>`

const homeTpl = `
<h1>{{.AppTitle}}</h1>
{{with .Summary}}
<h2>Task summary</h2>
<div class="summary">
  <div class="card"><strong>{{.Total}}</strong>Total</div>
  <div class="card"><strong>{{.Pending}}</strong>Pending</div>
  <div class="card"><strong>{{.InProgress}}</strong>In progress</div>
  <div class="card"><strong>{{.Completed}}</strong>Completed</div>
  <div class="card"><strong>{{.Cancelled}}</strong>Cancelled</div>
  <div class="card"><strong class="{{if .Overdue}}due overdue{{end}}">{{.Overdue}}</strong>Overdue</div>
</div>
{{end}}
{{with .Example}}
<h2>Example case</h2>
<table class="example">
  <tbody>{{range $k, $v := .}}<tr><th>{{$k}}</th><td>{{$v}}</td></tr>{{end}}</tbody>
</table>
{{end}}
<p><a href="/tasks">View all tasks</a> &middot; <a href="/tasks/new">Create a new task</a></p>
`

const indexTpl = `
<h2>{{.PageTitle}}</h2>
<p><a class="button" href="/tasks/new">Create new task</a></p>
{{if .Tasks}}
<table>
  <thead><tr><th style="width:56px;">ID</th><th>Title</th><th style="width:110px;">Status</th><th style="width:150px;">Due date</th><th style="width:150px;">Created</th></tr></thead>
  <tbody>
  {{range .Tasks}}
    <tr>
      <td>{{.ID}}</td>
      <td><a href="/tasks/{{.ID}}">{{truncate .Title 60}}</a>{{if .Description}}<div class="muted">{{truncate .Description 100}}</div>{{end}}</td>
      <td><span class="badge status {{.Status.Class}}">{{.Status.Label}}</span></td>
      <td>{{if .DueDate}}<span class="due{{if taskOverdue .}} overdue{{end}}">{{formatDate .DueDate}}</span>{{else}}<span class="muted">None</span>{{end}}</td>
      <td>{{formatDate .CreatedDate "DD/MM/YYYY HH:mm"}}</td>
    </tr>
  {{end}}
  </tbody>
</table>
{{else}}
<p class="muted">No tasks found.</p>
{{end}}
`

const newTpl = `
<h2>{{.PageTitle}}</h2>
{{with .Errors.general}}<div class="banner error" role="alert">{{.}}</div>{{end}}
<form method="post" action="/tasks" novalidate>
  <div class="field{{if .Errors.title}} has-error{{end}}">
    <label for="title">Title</label>
    {{with .Errors.title}}<p class="field-error" id="title-error">{{.}}</p>{{end}}
    <input id="title" name="title" value="{{.Task.Title}}">
  </div>
  <div class="field{{if .Errors.description}} has-error{{end}}">
    <label for="description">Description (optional)</label>
    {{with .Errors.description}}<p class="field-error" id="description-error">{{.}}</p>{{end}}
    <textarea id="description" name="description" rows="5">{{.Task.Description}}</textarea>
  </div>
  <div class="field{{if .Errors.status}} has-error{{end}}">
    <label for="status">Status</label>
    {{with .Errors.status}}<p class="field-error" id="status-error">{{.}}</p>{{end}}
    <select id="status" name="status">
      {{range .Statuses}}<option value="{{.}}"{{if eq (print .) $.SelectedStatus}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
  </div>
  <div class="field">
    <label for="dueDate">Due date (optional)</label>
    <input id="dueDate" name="dueDate" type="datetime-local" value="{{.Task.DueDate}}">
  </div>
  <button type="submit">Create task</button>
  <a href="/tasks" style="margin-left:8px;">Cancel</a>
</form>
`

const showTpl = `
<p><a href="/tasks">&larr; Back to tasks</a></p>
{{with .Task}}
<h2>{{.Title}}</h2>
<dl class="details">
  <dt>Status</dt>
  <dd><span class="badge status {{.Status.Class}}">{{.Status.Label}}</span></dd>
  <dt>Description</dt>
  <dd>{{if .Description}}{{if $.Markdown}}<div class="markdown">{{markdown .Description}}</div>{{else}}{{nl2br .Description}}{{end}}{{else}}<span class="muted">No description provided</span>{{end}}</dd>
  <dt>Due date</dt>
  <dd>{{if .DueDate}}<time data-unix="{{formatDate .DueDate "X"}}">{{formatDate .DueDate "DD MMMM YYYY [at] HH:mm"}}</time>{{if taskOverdue .}} <span class="badge overdue">Overdue</span>{{end}}{{else}}<span class="muted">Not set</span>{{end}}</dd>
  <dt>Created</dt>
  <dd>{{formatDate .CreatedDate "DD MMMM YYYY [at] HH:mm"}}</dd>
  <dt>Last updated</dt>
  <dd>{{formatDate .UpdatedDate "DD MMMM YYYY [at] HH:mm"}}</dd>
</dl>
<h3>Update status</h3>
<form method="post" action="/tasks/{{.ID}}/status">
  <div class="field">
    <label for="status">New status</label>
    <select id="status" name="status">
      {{range $.Statuses}}<option value="{{.}}"{{if eq . $.Task.Status}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
  </div>
  <button type="submit">Update status</button>
</form>
<h3>Delete task</h3>
<form method="post" action="/tasks/{{.ID}}/delete" onsubmit="return confirm('Are you sure you want to delete this task?');">
  <button type="submit" class="danger">Delete task</button>
</form>
{{end}}
`

const errorTpl = `
<h2>{{.Message}}</h2>
<p class="muted">Status {{.Status}}</p>
<p><a href="/tasks">Return to the task list</a></p>
`

const faviconSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
  <rect rx="12" width="64" height="64" fill="#1d70b8"/>
  <path d="M26 44L14 32l4-4 8 8 20-20 4 4-24 24z" fill="#fff"/>
</svg>`

var pageSources = map[string]string{
	"home":  homeTpl,
	"index": indexTpl,
	"new":   newTpl,
	"show":  showTpl,
	"error": errorTpl,
}

// parsePages clones the layout once per page and attaches that page's
// content template.
func parsePages(funcs template.FuncMap) (map[string]*template.Template, error) {
	layout, err := template.New("layout").Funcs(funcs).Parse(layoutTpl)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageSources))
	for name, src := range pageSources {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.New("content").Parse(src); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// page fills the fields every template expects.
func (s *Server) page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["PageTitle"] = title
	data["AppTitle"] = s.cfg.UI.AppTitle
	data["Active"] = activeFromPath(c.Request.URL.Path)
	if _, ok := data["SuccessMessage"]; !ok {
		data["SuccessMessage"] = c.Query("success")
	}
	if _, ok := data["ErrorMessage"]; !ok {
		data["ErrorMessage"] = c.Query("error")
	}
	user, _ := auth.UsernameFromRequest(c.Request)
	data["User"] = user
	return data
}

func (s *Server) render(c *gin.Context, code int, name string, data gin.H) {
	t, ok := s.pages[name]
	if !ok {
		applog.Errorf("render: unknown page %q", name)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Render(code, render.HTML{Template: t, Name: "layout", Data: data})
}

func (s *Server) renderError(c *gin.Context, code int, message string) {
	s.render(c, code, "error", s.page(c, message, gin.H{
		"Message":        message,
		"Status":         code,
		"SuccessMessage": "",
		"ErrorMessage":   "",
	}))
}
