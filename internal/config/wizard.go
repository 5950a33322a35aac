package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docviewer! Let's point it at your API documentation.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend base URL.
	serverPrompt := promptui.Prompt{
		Label:    "Backend base URL (blank = same origin as the portal)",
		Default:  "",
		Validate: validateOptionalURL,
	}
	serverURL, err := serverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	cfg.ServerURL = strings.TrimSpace(serverURL)

	// 2. Variant.
	variantPrompt := promptui.Select{
		Label: "Which group list should be shown",
		Items: []string{
			"all groups   — GET /apis, default group core",
			"admin only   — GET /admin/apis, default group admin",
		},
	}
	variantIdx, _, err := variantPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("variant selection: %w", err)
	}
	if variantIdx == 1 {
		cfg.AdminPreset()
	}

	// 3. Spec URL style.
	stylePrompt := promptui.Select{
		Label: "Specification URL style",
		Items: []string{
			"path  — {server}/api-docs/{group}",
			"query — {server}/api-docs?group={group}",
		},
	}
	styleIdx, _, err := stylePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("url style selection: %w", err)
	}
	cfg.SpecURLTemplate = []string{"path", "query"}[styleIdx]

	// 4. Navigation.
	navPrompt := promptui.Select{
		Label: "Navigation",
		Items: []string{"sidebar", "tabs", "dropdown"},
	}
	_, navigation, err := navPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("navigation selection: %w", err)
	}
	cfg.Navigation = navigation

	// 5. Widget.
	widgetPrompt := promptui.Select{
		Label: "Documentation widget",
		Items: []string{viewer.WidgetRapiDoc, viewer.WidgetSwaggerUI},
	}
	_, widget, err := widgetPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("widget selection: %w", err)
	}
	cfg.Widget.Kind = widget

	// 6. CORS origins.
	corsPrompt := promptui.Prompt{
		Label:   "Allowed CORS origins (comma-separated, blank for localhost only)",
		Default: "",
	}
	corsStr, err := corsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cors origins: %w", err)
	}
	cfg.CORSOrigins = splitAndTrim(corsStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateOptionalURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter an absolute URL such as https://api.example.com/snowowl")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
