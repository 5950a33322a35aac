package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/groups"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

const coreSpec = `{
  "openapi": "3.0.1",
  "info": {"title": "Core API", "version": "8.1.0", "description": "Terminology core resources."},
  "paths": {
    "/codesystems": {
      "get": {"summary": "List code systems", "tags": ["codesystems"]}
    },
    "/codesystems/{id}": {
      "get": {"summary": "Get a code system", "tags": ["codesystems"]},
      "delete": {"summary": "Delete a code system", "tags": ["admin"]}
    }
  }
}`

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/apis", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"core","title":"Core API","description":"Code systems\nand concepts"},{"id":"snomed"}]}`))
	})
	mux.HandleFunc("/api-docs/core", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(coreSpec))
	})
	mux.HandleFunc("/api-docs/notes", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"not a spec"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, baseURL string) *Server {
	t.Helper()
	client := groups.NewClient(baseURL, "", time.Second, zerolog.Nop())
	return NewServer(client, viewer.Options{ServerURL: baseURL})
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected non-empty result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, "http://backend")
	if srv.mcp == nil {
		t.Fatal("expected MCP server to be initialised")
	}
	if srv.opts.DefaultGroup != viewer.DefaultGroup {
		t.Errorf("expected options defaults to be applied, got default group %q", srv.opts.DefaultGroup)
	}
}

func TestHandleListAPIGroups(t *testing.T) {
	backend := newBackend(t)
	srv := newTestServer(t, backend.URL)

	result, err := srv.handleListAPIGroups(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "# API groups (2)") {
		t.Errorf("expected group count header, got:\n%s", text)
	}
	if !strings.Contains(text, "- `core`: Core API. Code systems and concepts") {
		t.Errorf("expected core entry with flattened description, got:\n%s", text)
	}
	if !strings.Contains(text, "- `snomed`: snomed") {
		t.Errorf("expected untitled group to fall back to its id, got:\n%s", text)
	}
}

func TestHandleListAPIGroupsBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer backend.Close()
	srv := newTestServer(t, backend.URL)

	result, err := srv.handleListAPIGroups(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected a tool error when the backend fails")
	}
}

func TestHandleResolveSpecURL(t *testing.T) {
	srv := newTestServer(t, "https://terminology.example.com/snowowl/")

	result, err := srv.handleResolveSpecURL(context.Background(), callRequest(map[string]any{"group": "fhir"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Specification URL: https://terminology.example.com/snowowl/api-docs/fhir") {
		t.Errorf("unexpected spec url in:\n%s", text)
	}
	if !strings.Contains(text, "Portal query: ?api=fhir") {
		t.Errorf("unexpected portal query in:\n%s", text)
	}
}

func TestHandleResolveSpecURLQueryTemplate(t *testing.T) {
	client := groups.NewClient("http://backend", "", time.Second, zerolog.Nop())
	srv := NewServer(client, viewer.Options{ServerURL: "http://backend", SpecURLTemplate: "query"})

	result, _ := srv.handleResolveSpecURL(context.Background(), callRequest(map[string]any{"group": "core"}))
	if text := resultText(t, result); !strings.Contains(text, "http://backend/api-docs?group=core") {
		t.Errorf("expected query style url, got:\n%s", text)
	}
}

func TestHandleResolveSpecURLMissingGroup(t *testing.T) {
	srv := newTestServer(t, "http://backend")

	for _, args := range []map[string]any{nil, {"group": "  "}} {
		result, err := srv.handleResolveSpecURL(context.Background(), callRequest(args))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !result.IsError {
			t.Errorf("expected error result for args %v", args)
		}
	}
}

func TestHandleSummarizeAPI(t *testing.T) {
	backend := newBackend(t)
	srv := newTestServer(t, backend.URL)

	result, err := srv.handleSummarizeAPI(context.Background(), callRequest(map[string]any{"group": "core"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	for _, want := range []string{
		"# Core API",
		"Version 8.1.0 (OpenAPI 3.0.1)",
		"Terminology core resources.",
		"Source: " + backend.URL + "/api-docs/core",
		"| GET | `/codesystems` | List code systems |",
		"| DELETE | `/codesystems/{id}` | Delete a code system |",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in summary:\n%s", want, text)
		}
	}
}

func TestHandleSummarizeAPIByTag(t *testing.T) {
	backend := newBackend(t)
	srv := newTestServer(t, backend.URL)

	result, _ := srv.handleSummarizeAPI(context.Background(), callRequest(map[string]any{"group": "core", "tag": "Admin"}))
	text := resultText(t, result)
	if !strings.Contains(text, "Delete a code system") {
		t.Errorf("expected admin operation in filtered summary:\n%s", text)
	}
	if strings.Contains(text, "List code systems") {
		t.Errorf("expected codesystems operations to be filtered out:\n%s", text)
	}
}

func TestHandleSummarizeAPIErrors(t *testing.T) {
	backend := newBackend(t)
	srv := newTestServer(t, backend.URL)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing group", nil},
		{"unknown group", map[string]any{"group": "missing"}},
		{"not a spec", map[string]any{"group": "notes"}},
	}
	for _, tt := range tests {
		result, err := srv.handleSummarizeAPI(context.Background(), callRequest(tt.args))
		if err != nil {
			t.Fatalf("%s: handler returned error: %v", tt.name, err)
		}
		if !result.IsError {
			t.Errorf("%s: expected error result", tt.name)
		}
	}
}

func TestSpecFamily(t *testing.T) {
	if got := specFamily("2.0"); got != "Swagger" {
		t.Errorf("specFamily(2.0) = %q", got)
	}
	if got := specFamily("3.1.0"); got != "OpenAPI" {
		t.Errorf("specFamily(3.1.0) = %q", got)
	}
}
