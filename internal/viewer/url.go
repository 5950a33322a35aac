package viewer

import (
	"net/url"
	"strings"
)

// Spec URL templates. {server} expands to the backend base URL and {group}
// to the selected group id.
const (
	TemplatePath  = "{server}/api-docs/{group}"
	TemplateQuery = "{server}/api-docs?group={group}"
)

// TemplateFor maps the preset names "path" and "query" to their templates.
// Any other non-empty value is returned unchanged as a custom template.
func TemplateFor(name string) string {
	switch strings.TrimSpace(name) {
	case "", "path":
		return TemplatePath
	case "query":
		return TemplateQuery
	default:
		return name
	}
}

// ExpandSpecURL builds the specification URL for group. The group id is
// path-escaped where it appears before the query separator and
// query-escaped after it.
func ExpandSpecURL(tmpl, serverURL, group string) string {
	tmpl = TemplateFor(tmpl)
	server := strings.TrimRight(serverURL, "/")

	path, query := tmpl, ""
	if i := strings.Index(tmpl, "?"); i >= 0 {
		path, query = tmpl[:i], tmpl[i:]
	}
	path = strings.ReplaceAll(path, "{group}", url.PathEscape(group))
	query = strings.ReplaceAll(query, "{group}", url.QueryEscape(group))

	return strings.ReplaceAll(path, "{server}", server) + strings.ReplaceAll(query, "{server}", url.QueryEscape(server))
}

// ResolveServerURL applies the base URL precedence: an explicit configured
// value wins, otherwise the page's own origin joined with its base path.
func ResolveServerURL(explicit, origin, basePath string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return strings.TrimRight(s, "/")
	}
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	base := strings.Trim(strings.TrimSpace(basePath), "/")
	if base == "" {
		return origin
	}
	return origin + "/" + base
}

// Location returns the query string that selects group, e.g. "?api=snomed".
func Location(param, group string) string {
	if param == "" {
		param = DefaultQueryParam
	}
	return "?" + url.Values{param: {group}}.Encode()
}
