package config

import (
	"time"

	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// LogFormat selects the log encoding.
type LogFormat string

const (
	LogFormatJSON    LogFormat = "json"
	LogFormatConsole LogFormat = "console"
)

// Config is the top-level docviewer configuration, corresponding to .docviewer.yml.
type Config struct {
	// ServerURL is the backend base URL. Empty means same origin as the
	// portal page (origin + BasePath).
	ServerURL       string               `yaml:"server_url" koanf:"server_url"`
	BasePath        string               `yaml:"base_path" koanf:"base_path"`
	Listen          string               `yaml:"listen" koanf:"listen"`
	MetricsListen   string               `yaml:"metrics_listen" koanf:"metrics_listen"`
	DefaultGroup    string               `yaml:"default_group" koanf:"default_group"`
	ListPath        string               `yaml:"list_path" koanf:"list_path"`
	SpecURLTemplate string               `yaml:"spec_url_template" koanf:"spec_url_template"`
	QueryParam      string               `yaml:"query_param" koanf:"query_param"`
	Navigation      string               `yaml:"navigation" koanf:"navigation"`
	Widget          viewer.WidgetOptions `yaml:"widget" koanf:"widget"`
	FetchTimeout    time.Duration        `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	LoadWait        time.Duration        `yaml:"load_wait" koanf:"load_wait"`
	LogLevel        string               `yaml:"log_level" koanf:"log_level"`
	LogFormat       LogFormat            `yaml:"log_format" koanf:"log_format"`
	IntroFile       string               `yaml:"intro_file" koanf:"intro_file"`
	CORSOrigins     []string             `yaml:"cors_origins" koanf:"cors_origins"`
	Catalog         CatalogConfig        `yaml:"catalog" koanf:"catalog"`
}

// CatalogConfig configures the reference API group backend.
type CatalogConfig struct {
	Dir         string   `yaml:"dir" koanf:"dir"`
	DBPath      string   `yaml:"db_path" koanf:"db_path"`
	Include     []string `yaml:"include" koanf:"include"`
	Exclude     []string `yaml:"exclude" koanf:"exclude"`
	AdminGroups []string `yaml:"admin_groups" koanf:"admin_groups"`
	IncludeSelf bool     `yaml:"include_self" koanf:"include_self"`
}
