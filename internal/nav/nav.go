// Package nav renders the API group navigation control. The sidebar, tab
// strip and dropdown are interchangeable: each lists the groups by title,
// marks the selected one and links every entry to its ?api=<id> location.
package nav

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// Navigator renders a navigation control for a view.
type Navigator interface {
	Name() string
	Render(view viewer.View) (template.HTML, error)
}

// Names of the built-in navigators.
const (
	NameSidebar  = "sidebar"
	NameTabs     = "tabs"
	NameDropdown = "dropdown"
)

var registry = map[string]Navigator{
	NameSidebar:  Sidebar{},
	NameTabs:     Tabs{},
	NameDropdown: Dropdown{},
}

// ByName returns the navigator registered under name. An empty name
// selects the sidebar.
func ByName(name string) (Navigator, error) {
	if name == "" {
		name = NameSidebar
	}
	n, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown navigation %q: must be one of %v", name, Names())
	}
	return n, nil
}

// Names lists the registered navigator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func execute(tmpl *template.Template, view viewer.View) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering %s navigation: %w", tmpl.Name(), err)
	}
	return template.HTML(buf.String()), nil
}
