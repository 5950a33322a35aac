package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listAPIGroupsTool defines the list_api_groups MCP tool.
var listAPIGroupsTool = mcp.NewTool("list_api_groups",
	mcp.WithDescription("List the API groups published by the documentation backend, with their ids, titles and descriptions."),
)

// resolveSpecURLTool defines the resolve_spec_url MCP tool.
var resolveSpecURLTool = mcp.NewTool("resolve_spec_url",
	mcp.WithDescription("Resolve an API group id to the URL of its OpenAPI/Swagger document and the portal link that selects it."),
	mcp.WithString("group",
		mcp.Required(),
		mcp.Description("API group id, e.g. core or snomed"),
	),
)

// summarizeAPITool defines the summarize_api MCP tool.
var summarizeAPITool = mcp.NewTool("summarize_api",
	mcp.WithDescription("Fetch an API group's specification document and summarize its endpoints as a markdown table."),
	mcp.WithString("group",
		mcp.Required(),
		mcp.Description("API group id"),
	),
	mcp.WithString("tag",
		mcp.Description("Only include operations carrying this tag"),
	),
)
