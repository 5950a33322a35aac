package server

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// pageData holds the data passed to the page template.
type pageData struct {
	Title       string
	View        viewer.View
	Nav         template.HTML
	Navigation  string
	Intro       template.HTML
	Description template.HTML
	LivePath    string
}

// mountAndWait mounts v for the lifetime of ctx and waits up to wait for
// the group list. The caller must Unmount v.
func mountAndWait(ctx context.Context, v *viewer.Viewer, r *http.Request, wait time.Duration) {
	done, err := v.Mount(ctx, r.URL.Query())
	if err != nil {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := s.newViewer(r)
	defer v.Unmount()
	mountAndWait(r.Context(), v, r, s.cfg.LoadWait)

	view := v.Render()
	navHTML, err := s.navigator.Render(view)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:      s.title(),
		View:       view,
		Nav:        navHTML,
		Navigation: s.navigator.Name(),
		Intro:      s.intro,
		LivePath:   "/ws/viewer",
	}
	if entry, ok := view.Selected(); ok && entry.Description != "" {
		desc, err := s.markdown.Render([]byte(entry.Description))
		if err == nil {
			data.Description = desc
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rendering page")
		http.Error(w, "rendering page failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleViewJSON(w http.ResponseWriter, r *http.Request) {
	v := s.newViewer(r)
	defer v.Unmount()
	mountAndWait(r.Context(), v, r, s.cfg.LoadWait)

	writeJSON(w, http.StatusOK, v.Render())
}

func (s *Server) title() string {
	if s.cfg.Widget.Title != "" {
		return s.cfg.Widget.Title
	}
	if s.introTitle != "" {
		return s.introTitle
	}
	return "API Documentation"
}
