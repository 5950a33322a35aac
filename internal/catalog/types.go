package catalog

import (
	"errors"
	"time"

	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// Format is the serialization of a stored specification document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ContentType returns the media type the document is served with.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// ErrNotFound is returned when a group id is not in the catalog.
var ErrNotFound = errors.New("catalog: group not found")

// Group is one API group stored in the catalog together with its
// specification document.
type Group struct {
	ID          string    `json:"id" validate:"required,slug"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	Admin       bool      `json:"admin"`
	Position    int       `json:"position" validate:"gte=0"`
	Format      Format    `json:"format" validate:"required,oneof=json yaml"`
	Spec        []byte    `json:"-"`
	SourcePath  string    `json:"source_path,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Summary returns the group as it appears in a group list response.
func (g Group) Summary() viewer.Group {
	return viewer.Group{ID: g.ID, Title: g.Title, Description: g.Description}
}

// UploadRequest is the body of PUT /api/catalog/groups/{id}.
type UploadRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description"`
	Admin       bool   `json:"admin"`
	Position    int    `json:"position" validate:"gte=0"`
	Spec        string `json:"spec" validate:"required"`
}

// ImportRun records one directory import.
type ImportRun struct {
	ID         string     `json:"id"`
	Dir        string     `json:"dir"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Imported   int        `json:"imported"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
}
