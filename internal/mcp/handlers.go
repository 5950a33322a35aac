package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docviewer/internal/catalog"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// handleListAPIGroups lists the groups returned by the backend.
func (s *Server) handleListAPIGroups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := s.client.FetchGroups(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading API groups failed: %v", err)), nil
	}
	if len(groups) == 0 {
		return mcp.NewToolResultText("The backend publishes no API groups."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# API groups (%d)\n\n", len(groups))
	for _, g := range groups {
		title := g.Title
		if title == "" {
			title = g.ID
		}
		fmt.Fprintf(&sb, "- `%s`: %s", g.ID, title)
		if g.Description != "" {
			fmt.Fprintf(&sb, ". %s", strings.ReplaceAll(strings.TrimSpace(g.Description), "\n", " "))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// view renders the viewer for a selected group without loading the list.
func (s *Server) view(group string) viewer.View {
	return viewer.Render(viewer.State{
		SelectedKey: group,
		ServerURL:   s.opts.ServerURL,
		Phase:       viewer.PhaseLoaded,
	}, s.opts)
}

// handleResolveSpecURL maps a group id to its specification URL.
func (s *Server) handleResolveSpecURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := request.RequireString("group")
	if err != nil || strings.TrimSpace(group) == "" {
		return mcp.NewToolResultError("missing required parameter: group"), nil
	}

	v := s.view(strings.TrimSpace(group))
	text := fmt.Sprintf("Specification URL: %s\nServer URL: %s\nPortal query: %s\n", v.SpecURL, v.ServerURL, v.Location)
	return mcp.NewToolResultText(text), nil
}

// handleSummarizeAPI fetches a group's document and lists its endpoints.
func (s *Server) handleSummarizeAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := request.RequireString("group")
	if err != nil || strings.TrimSpace(group) == "" {
		return mcp.NewToolResultError("missing required parameter: group"), nil
	}
	tag := request.GetString("tag", "")

	v := s.view(strings.TrimSpace(group))
	data, err := s.client.FetchSpec(ctx, v.SpecURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching %s failed: %v", v.SpecURL, err)), nil
	}

	doc, err := catalog.ParseDocument(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parsing %s failed: %v", v.SpecURL, err)), nil
	}

	endpoints := doc.Endpoints
	if tag != "" {
		endpoints = filterByTag(endpoints, tag)
	}

	var sb strings.Builder
	title := doc.Title
	if title == "" {
		title = v.SelectedKey
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if doc.APIVersion != "" {
		fmt.Fprintf(&sb, "Version %s (%s %s)\n\n", doc.APIVersion, specFamily(doc.Version), doc.Version)
	}
	if doc.Description != "" {
		sb.WriteString(strings.TrimSpace(doc.Description))
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Source: %s\n\n", v.SpecURL)
	sb.WriteString(catalog.FormatEndpointsMarkdown(endpoints))
	return mcp.NewToolResultText(sb.String()), nil
}

func filterByTag(endpoints []catalog.Endpoint, tag string) []catalog.Endpoint {
	var out []catalog.Endpoint
	for _, ep := range endpoints {
		for _, t := range ep.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, ep)
				break
			}
		}
	}
	return out
}

func specFamily(version string) string {
	if strings.HasPrefix(version, "2") {
		return "Swagger"
	}
	return "OpenAPI"
}
