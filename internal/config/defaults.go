package config

import (
	"time"

	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// DefaultIncludes are glob patterns selecting specification documents in a catalog directory.
var DefaultIncludes = []string{
	"**/*.json",
	"**/*.yaml",
	"**/*.yml",
}

// DefaultExcludes are glob patterns skipped during catalog import.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/package.json",
	"**/package-lock.json",
	"**/tsconfig.json",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:          ":8080",
		DefaultGroup:    viewer.DefaultGroup,
		ListPath:        viewer.DefaultListPath,
		SpecURLTemplate: "path",
		QueryParam:      viewer.DefaultQueryParam,
		Navigation:      "sidebar",
		Widget:          viewer.DefaultWidgetOptions(),
		FetchTimeout:    10 * time.Second,
		LoadWait:        3 * time.Second,
		LogLevel:        "info",
		LogFormat:       LogFormatJSON,
		Catalog: CatalogConfig{
			DBPath:      ".docviewer/catalog.db",
			Include:     append([]string(nil), DefaultIncludes...),
			Exclude:     append([]string(nil), DefaultExcludes...),
			AdminGroups: []string{viewer.DefaultAdminGroup},
			IncludeSelf: true,
		},
	}
}

// AdminPreset switches the configuration to the admin-only variant: the
// admin group list endpoint and the admin default group.
func (c *Config) AdminPreset() {
	c.ListPath = viewer.AdminListPath
	c.DefaultGroup = viewer.DefaultAdminGroup
}
