package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotOpenAPI is returned for documents without an openapi or swagger
// version field.
var ErrNotOpenAPI = errors.New("not an OpenAPI or Swagger document")

// Document is the part of an OpenAPI/Swagger document the catalog uses.
type Document struct {
	Format      Format     `json:"format"`
	Version     string     `json:"version"` // openapi/swagger version
	Title       string     `json:"title"`
	Description string     `json:"description"`
	APIVersion  string     `json:"api_version"`
	Endpoints   []Endpoint `json:"endpoints"`
}

// Endpoint is one operation declared in a document.
type Endpoint struct {
	Path        string            `json:"path"`
	Method      string            `json:"method"`
	Summary     string            `json:"summary"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags,omitempty"`
	Parameters  []string          `json:"parameters,omitempty"`
	Responses   map[string]string `json:"responses,omitempty"`
}

var methods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// ParseDocument parses an OpenAPI 3 or Swagger 2 document in JSON or YAML.
func ParseDocument(data []byte) (*Document, error) {
	var spec map[string]interface{}
	format := FormatJSON

	// Try JSON first, then YAML.
	if err := json.Unmarshal(data, &spec); err != nil {
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			return nil, fmt.Errorf("parsing document: %w", err)
		}
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing document: not valid JSON or YAML")
		}
		m, ok := asMap(raw)
		if !ok {
			return nil, ErrNotOpenAPI
		}
		spec = m
		format = FormatYAML
	}

	doc := &Document{Format: format}
	if v, ok := spec["openapi"]; ok {
		doc.Version = fmt.Sprint(v)
	} else if v, ok := spec["swagger"]; ok {
		doc.Version = fmt.Sprint(v)
	} else {
		return nil, ErrNotOpenAPI
	}

	if info, ok := asMap(spec["info"]); ok {
		doc.Title, _ = info["title"].(string)
		doc.Description, _ = info["description"].(string)
		if v, ok := info["version"]; ok && v != nil {
			doc.APIVersion = fmt.Sprint(v)
		}
	}

	paths, _ := asMap(spec["paths"])

	// Sort paths for deterministic output.
	pathKeys := make([]string, 0, len(paths))
	for k := range paths {
		pathKeys = append(pathKeys, k)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		pathItem, ok := asMap(paths[path])
		if !ok {
			continue
		}

		for _, method := range methods {
			op, ok := asMap(pathItem[method])
			if !ok {
				continue
			}
			doc.Endpoints = append(doc.Endpoints, parseOperation(path, method, op))
		}
	}

	return doc, nil
}

func parseOperation(path, method string, op map[string]interface{}) Endpoint {
	ep := Endpoint{
		Path:   path,
		Method: strings.ToUpper(method),
	}
	ep.Summary, _ = op["summary"].(string)
	ep.Description, _ = op["description"].(string)

	if tags, ok := op["tags"].([]interface{}); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				ep.Tags = append(ep.Tags, s)
			}
		}
	}

	if params, ok := op["parameters"].([]interface{}); ok {
		for _, p := range params {
			pm, ok := asMap(p)
			if !ok {
				continue
			}
			name, _ := pm["name"].(string)
			in, _ := pm["in"].(string)
			if name != "" {
				ep.Parameters = append(ep.Parameters, fmt.Sprintf("%s (in %s)", name, in))
			}
		}
	}

	if responses, ok := asMap(op["responses"]); ok {
		ep.Responses = make(map[string]string, len(responses))
		for code, resp := range responses {
			desc := ""
			if rm, ok := asMap(resp); ok {
				desc, _ = rm["description"].(string)
			}
			ep.Responses[code] = desc
		}
	}
	return ep
}

// asMap normalizes decoded YAML mappings, whose keys may be non-strings
// (e.g. unquoted response codes).
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// FormatEndpointsMarkdown formats endpoints as a markdown table.
func FormatEndpointsMarkdown(endpoints []Endpoint) string {
	if len(endpoints) == 0 {
		return "No endpoints found."
	}

	var sb strings.Builder
	sb.WriteString("| Method | Path | Summary |\n")
	sb.WriteString("|--------|------|---------|\n")

	for _, ep := range endpoints {
		summary := ep.Summary
		if summary == "" {
			summary = ep.Description
		}
		summary = strings.ReplaceAll(strings.TrimSpace(summary), "\n", " ")
		summary = strings.ReplaceAll(summary, "|", `\|`)
		if len(summary) > 80 {
			summary = summary[:77] + "..."
		}
		fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", ep.Method, ep.Path, summary)
	}

	return sb.String()
}
