package viewer

import (
	"context"
	"errors"
)

// Group is one independently documented subset of the backend API
// (admin, core, snomed, fhir, ...).
type Group struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// GroupList is the body returned by the backend's group list endpoint.
type GroupList struct {
	Items []Group `json:"items"`
}

// Phase describes how far the group list load has progressed.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseFailed  Phase = "failed"
)

// State is the complete mutable state of one mounted viewer.
type State struct {
	SelectedKey string  `json:"selected_key"`
	Groups      []Group `json:"groups"`
	ServerURL   string  `json:"server_url"`
	Phase       Phase   `json:"phase"`
	Err         string  `json:"error,omitempty"`
}

// Fetcher loads the API group list from the backend.
type Fetcher interface {
	FetchGroups(ctx context.Context) ([]Group, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]Group, error)

// FetchGroups calls f(ctx).
func (f FetcherFunc) FetchGroups(ctx context.Context) ([]Group, error) { return f(ctx) }

var (
	ErrAlreadyMounted = errors.New("viewer: already mounted")
	ErrUnmounted      = errors.New("viewer: unmounted")
	ErrEmptySelection = errors.New("viewer: empty selection")
	errNoFetcher      = errors.New("viewer: no group fetcher configured")
)
