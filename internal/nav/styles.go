package nav

import (
	"html/template"

	"github.com/ziadkadry99/docviewer/internal/viewer"
)

var sidebarTemplate = template.Must(template.New("sidebar").Parse(
	`<nav class="nav nav-sidebar" data-nav="sidebar" aria-label="API groups"><ul>` +
		`{{range .Entries}}<li{{if .Active}} class="active"{{end}}>` +
		`<a href="{{.Href}}" data-group="{{.ID}}"{{if .Description}} title="{{.Description}}"{{end}}{{if .Active}} aria-current="page"{{end}}>{{.Title}}</a>` +
		`</li>{{end}}</ul></nav>`))

var tabsTemplate = template.Must(template.New("tabs").Parse(
	`<div class="nav nav-tabs" data-nav="tabs" role="tablist">` +
		`{{range .Entries}}<a role="tab" href="{{.Href}}" data-group="{{.ID}}" aria-selected="{{if .Active}}true{{else}}false{{end}}"` +
		`{{if .Active}} class="active"{{end}}>{{.Title}}</a>{{end}}</div>`))

var dropdownTemplate = template.Must(template.New("dropdown").Parse(
	`<form class="nav nav-dropdown" data-nav="dropdown" method="get">` +
		`<select name="{{.QueryParam}}" aria-label="API group" onchange="this.form.submit()">` +
		`{{if and (not .Known) .SelectedKey}}<option value="{{.SelectedKey}}" selected>{{.SelectedKey}}</option>{{end}}` +
		`{{range .Entries}}<option value="{{.ID}}"{{if .Active}} selected{{end}}>{{.Title}}</option>{{end}}` +
		`</select><noscript><button type="submit">Show</button></noscript></form>`))

// Sidebar renders the groups as a vertical menu.
type Sidebar struct{}

func (Sidebar) Name() string { return NameSidebar }

func (Sidebar) Render(view viewer.View) (template.HTML, error) {
	return execute(sidebarTemplate, view)
}

// Tabs renders the groups as a horizontal tab strip.
type Tabs struct{}

func (Tabs) Name() string { return NameTabs }

func (Tabs) Render(view viewer.View) (template.HTML, error) {
	return execute(tabsTemplate, view)
}

// Dropdown renders the groups as a select box. Without scripting the
// surrounding form submits the selection as the query parameter. A selected
// group missing from the list gets its own leading option so the box never
// shows a different group than the widget.
type Dropdown struct{}

func (Dropdown) Name() string { return NameDropdown }

func (Dropdown) Render(view viewer.View) (template.HTML, error) {
	return execute(dropdownTemplate, view)
}
