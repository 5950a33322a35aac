package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCVIEWER_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCVIEWER_*). A double underscore
// separates nested keys: DOCVIEWER_CATALOG__DIR -> catalog.dir.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps DOCVIEWER_WIDGET__THEME to widget.theme.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validNavigations = map[string]bool{
	"sidebar":  true,
	"tabs":     true,
	"dropdown": true,
}

var validWidgets = map[string]bool{
	viewer.WidgetRapiDoc:   true,
	viewer.WidgetSwaggerUI: true,
}

var validLogFormats = map[LogFormat]bool{
	LogFormatJSON:    true,
	LogFormatConsole: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid server_url %q: must be an absolute http(s) URL", c.ServerURL)
		}
	}

	if strings.TrimSpace(c.DefaultGroup) == "" {
		return fmt.Errorf("default_group is required")
	}

	if !strings.HasPrefix(c.ListPath, "/") {
		return fmt.Errorf("invalid list_path %q: must start with /", c.ListPath)
	}

	if !strings.Contains(viewer.TemplateFor(c.SpecURLTemplate), "{group}") {
		return fmt.Errorf("invalid spec_url_template %q: must be path, query or contain {group}", c.SpecURLTemplate)
	}

	if c.QueryParam == "" {
		return fmt.Errorf("query_param is required")
	}

	if !validNavigations[c.Navigation] {
		return fmt.Errorf("invalid navigation %q: must be one of sidebar, tabs, dropdown", c.Navigation)
	}

	if !validWidgets[c.Widget.Kind] {
		return fmt.Errorf("invalid widget.kind %q: must be one of rapidoc, swagger-ui", c.Widget.Kind)
	}

	if c.Widget.SchemaExpandLevel < 0 {
		return fmt.Errorf("widget.schema_expand_level must be non-negative")
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}

	if c.LoadWait < 0 {
		return fmt.Errorf("load_wait must be non-negative")
	}

	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q: must be json or console", c.LogFormat)
	}

	return nil
}

// ViewerOptions maps the configuration onto viewer options. ServerURL may
// be empty here; the portal resolves it per request.
func (c *Config) ViewerOptions() viewer.Options {
	return viewer.Options{
		ServerURL:       c.ServerURL,
		DefaultGroup:    c.DefaultGroup,
		ListPath:        c.ListPath,
		SpecURLTemplate: c.SpecURLTemplate,
		QueryParam:      c.QueryParam,
		Widget:          c.Widget,
	}
}
