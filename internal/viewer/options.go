package viewer

import "strings"

// Widget kinds understood by the page renderer.
const (
	WidgetRapiDoc   = "rapidoc"
	WidgetSwaggerUI = "swagger-ui"
)

// Default values applied by Options when fields are left empty.
const (
	DefaultGroup      = "core"
	DefaultAdminGroup = "admin"
	DefaultListPath   = "/apis"
	AdminListPath     = "/admin/apis"
	DefaultQueryParam = "api"
)

// WidgetOptions are the static presentation flags handed to the
// documentation widget. They never depend on viewer state.
type WidgetOptions struct {
	Kind                 string `json:"kind" yaml:"kind" koanf:"kind"`
	Title                string `json:"title,omitempty" yaml:"title" koanf:"title"`
	Theme                string `json:"theme" yaml:"theme" koanf:"theme"`
	Layout               string `json:"layout" yaml:"layout" koanf:"layout"`
	RenderStyle          string `json:"render_style" yaml:"render_style" koanf:"render_style"`
	SchemaExpandLevel    int    `json:"schema_expand_level" yaml:"schema_expand_level" koanf:"schema_expand_level"`
	DefaultSchemaTab     string `json:"default_schema_tab" yaml:"default_schema_tab" koanf:"default_schema_tab"`
	AllowSpecURLLoad     bool   `json:"allow_spec_url_load" yaml:"allow_spec_url_load" koanf:"allow_spec_url_load"`
	AllowServerSelection bool   `json:"allow_server_selection" yaml:"allow_server_selection" koanf:"allow_server_selection"`
	RoutePrefix          string `json:"route_prefix" yaml:"route_prefix" koanf:"route_prefix"`
}

// DefaultWidgetOptions returns the presentation used when nothing is configured.
func DefaultWidgetOptions() WidgetOptions {
	return WidgetOptions{
		Kind:              WidgetRapiDoc,
		Theme:             "light",
		Layout:            "row",
		RenderStyle:       "read",
		SchemaExpandLevel: 1,
		DefaultSchemaTab:  "schema",
		RoutePrefix:       "#",
	}
}

// Options configure a Viewer. ServerURL is fixed for the lifetime of the
// viewer; everything else is static presentation or URL templating.
type Options struct {
	ServerURL       string
	DefaultGroup    string
	ListPath        string
	SpecURLTemplate string
	QueryParam      string
	Widget          WidgetOptions
}

// withDefaults fills empty fields and normalizes the server URL.
func (o Options) withDefaults() Options {
	o.ServerURL = strings.TrimRight(strings.TrimSpace(o.ServerURL), "/")
	if o.DefaultGroup == "" {
		o.DefaultGroup = DefaultGroup
	}
	if o.ListPath == "" {
		o.ListPath = DefaultListPath
	}
	if o.SpecURLTemplate == "" {
		o.SpecURLTemplate = TemplatePath
	}
	if o.QueryParam == "" {
		o.QueryParam = DefaultQueryParam
	}
	o.Widget = o.Widget.withDefaults()
	return o
}

// withDefaults fills the empty presentation fields one by one. A zero
// SchemaExpandLevel is kept unless nothing at all was set.
func (w WidgetOptions) withDefaults() WidgetOptions {
	d := DefaultWidgetOptions()
	if w == (WidgetOptions{}) {
		return d
	}
	if w.Kind == "" {
		w.Kind = d.Kind
	}
	if w.Theme == "" {
		w.Theme = d.Theme
	}
	if w.Layout == "" {
		w.Layout = d.Layout
	}
	if w.RenderStyle == "" {
		w.RenderStyle = d.RenderStyle
	}
	if w.DefaultSchemaTab == "" {
		w.DefaultSchemaTab = d.DefaultSchemaTab
	}
	if w.RoutePrefix == "" {
		w.RoutePrefix = d.RoutePrefix
	}
	return w
}

// WithServerURL returns a copy of o bound to a different backend base URL.
func (o Options) WithServerURL(serverURL string) Options {
	o.ServerURL = serverURL
	return o.withDefaults()
}
