// Package apidoc describes the docviewer HTTP API itself. The catalog can
// import it as an API group so the portal documents its own endpoints.
package apidoc

import (
	"fmt"

	"github.com/swaggo/swag"
)

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/apis": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List API groups",
                "description": "Returns the non-admin API groups in display order.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GroupList"}}
                }
            }
        },
        "/admin/apis": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List admin API groups",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GroupList"}}
                }
            }
        },
        "/api-docs": {
            "get": {
                "produces": ["application/json", "application/yaml"],
                "tags": ["catalog"],
                "summary": "Get a group's specification document by query parameter",
                "parameters": [
                    {"type": "string", "description": "Group id", "name": "group", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "The OpenAPI document"},
                    "404": {"description": "Unknown group", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api-docs/{id}": {
            "get": {
                "produces": ["application/json", "application/yaml"],
                "tags": ["catalog"],
                "summary": "Get a group's specification document",
                "parameters": [
                    {"type": "string", "description": "Group id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "The OpenAPI document"},
                    "404": {"description": "Unknown group", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/catalog/groups/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Create or replace an API group",
                "parameters": [
                    {"type": "string", "description": "Group id", "name": "id", "in": "path", "required": true},
                    {"description": "Group upload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UploadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Group"}},
                    "400": {"description": "Invalid upload", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["catalog"],
                "summary": "Delete an API group",
                "parameters": [
                    {"type": "string", "description": "Group id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Unknown group", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/catalog/groups/{id}/endpoints": {
            "get": {
                "produces": ["application/json", "text/markdown"],
                "tags": ["catalog"],
                "summary": "List the endpoints declared by a group's document",
                "parameters": [
                    {"type": "string", "description": "Group id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "json or markdown", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Endpoint"}}},
                    "404": {"description": "Unknown group", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/catalog/imports": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List recent catalog imports",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ImportRun"}}}
                }
            }
        },
        "/api/viewer": {
            "get": {
                "produces": ["application/json"],
                "tags": ["viewer"],
                "summary": "Render the viewer for a selection",
                "parameters": [
                    {"type": "string", "description": "Selected group id", "name": "api", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/View"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "GroupSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "GroupList": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/GroupSummary"}}
            }
        },
        "Group": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "admin": {"type": "boolean"},
                "position": {"type": "integer"},
                "format": {"type": "string", "enum": ["json", "yaml"]},
                "source_path": {"type": "string"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "UploadRequest": {
            "type": "object",
            "required": ["spec"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "admin": {"type": "boolean"},
                "position": {"type": "integer"},
                "spec": {"type": "string", "description": "OpenAPI or Swagger document, JSON or YAML"}
            }
        },
        "Endpoint": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "method": {"type": "string"},
                "summary": {"type": "string"},
                "description": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "parameters": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ImportRun": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "dir": {"type": "string"},
                "started_at": {"type": "string", "format": "date-time"},
                "finished_at": {"type": "string", "format": "date-time"},
                "imported": {"type": "integer"},
                "skipped": {"type": "integer"},
                "failed": {"type": "integer"}
            }
        },
        "Entry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "active": {"type": "boolean"},
                "href": {"type": "string"}
            }
        },
        "View": {
            "type": "object",
            "properties": {
                "spec_url": {"type": "string"},
                "server_url": {"type": "string"},
                "selected_key": {"type": "string"},
                "known": {"type": "boolean"},
                "phase": {"type": "string", "enum": ["loading", "loaded", "failed"]},
                "error": {"type": "string"},
                "location": {"type": "string"},
                "query_param": {"type": "string"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/Entry"}},
                "widget": {"type": "object"}
            }
        }
    }
}`

// GroupID is the catalog id under which the portal's own API is published.
const GroupID = "docviewer"

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "docviewer API",
	Description:      "API group catalog and viewer endpoints served by docviewer.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Document returns the rendered document for version.
func Document(version string) ([]byte, error) {
	if version != "" {
		SwaggerInfo.Version = version
	}
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		return nil, fmt.Errorf("reading api document: %w", err)
	}
	return []byte(doc), nil
}
