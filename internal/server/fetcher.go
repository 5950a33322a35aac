package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/ziadkadry99/docviewer/internal/groups"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// requestOrigin returns scheme://host of the request as the browser saw it.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}

// serverURL resolves the backend base URL for a request.
func (s *Server) serverURL(r *http.Request) string {
	return viewer.ResolveServerURL(s.cfg.ServerURL, requestOrigin(r), s.cfg.BasePath)
}

// fetcher returns the group list source for a viewer bound to serverURL.
// With an in-process catalog and no explicit backend the store is read
// directly; otherwise the backend is queried over HTTP.
func (s *Server) fetcher(serverURL string) viewer.Fetcher {
	if s.catalog != nil && s.cfg.ServerURL == "" {
		admin := s.cfg.ListPath == viewer.AdminListPath
		return viewer.FetcherFunc(func(ctx context.Context) ([]viewer.Group, error) {
			stored, err := s.catalog.List(ctx, admin)
			if err != nil {
				return nil, err
			}
			out := make([]viewer.Group, 0, len(stored))
			for _, g := range stored {
				out = append(out, g.Summary())
			}
			return out, nil
		})
	}
	return groups.NewClient(serverURL, s.cfg.ListPath, s.cfg.FetchTimeout, s.logger)
}

// newViewer builds an unmounted viewer for a request.
func (s *Server) newViewer(r *http.Request, options ...viewer.Option) *viewer.Viewer {
	serverURL := s.serverURL(r)
	opts := s.cfg.ViewerOptions().WithServerURL(serverURL)
	return viewer.New(opts, s.fetcher(serverURL), options...)
}
