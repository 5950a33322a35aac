package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/logging"
	"github.com/ziadkadry99/docviewer/internal/metrics"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// RegisterRoutes mounts the backend contract (group lists and documents)
// and the catalog management API on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get(viewer.DefaultListPath, handleList(store, false))
	r.Get(viewer.AdminListPath, handleList(store, true))
	r.Get("/api-docs", handleDocumentByQuery(store))
	r.Get("/api-docs/{id}", handleDocument(store))

	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/imports", handleImports(store))
		r.Put("/groups/{id}", handleUpload(store))
		r.Delete("/groups/{id}", handleDelete(store))
		r.Get("/groups/{id}/endpoints", handleEndpoints(store))
	})
}

// NewRouter returns a standalone router serving the catalog, used by
// `docviewer catalog serve`.
func NewRouter(store *Store, logger zerolog.Logger, corsOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(corsHandler(corsOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())
	RegisterRoutes(r, store)
	return r
}

// corsHandler allows documentation pages on other origins to read group lists and
// documents. An empty origin list allows any localhost origin.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func handleList(store *Store, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := store.List(r.Context(), admin)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		list := viewer.GroupList{Items: make([]viewer.Group, 0, len(groups))}
		for _, g := range groups {
			list.Items = append(list.Items, g.Summary())
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleDocument(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveDocument(w, r, store, chi.URLParam(r, "id"))
	}
}

func handleDocumentByQuery(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("group")
		if id == "" {
			writeError(w, http.StatusBadRequest, "group query parameter is required")
			return
		}
		serveDocument(w, r, store, id)
	}
}

func serveDocument(w http.ResponseWriter, r *http.Request, store *Store, id string) {
	g, err := store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown API group "+strconv.Quote(id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", g.Format.ContentType())
	w.Header().Set("Last-Modified", g.UpdatedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write(g.Spec)
}

func handleUpload(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !ValidID(id) {
			writeError(w, http.StatusBadRequest, "invalid group id "+strconv.Quote(id))
			return
		}

		var req UploadRequest
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		doc, err := ParseDocument([]byte(req.Spec))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		g := Group{
			ID:          id,
			Title:       req.Title,
			Description: req.Description,
			Admin:       req.Admin,
			Position:    req.Position,
			Format:      doc.Format,
			Spec:        []byte(req.Spec),
		}
		if g.Title == "" {
			g.Title = doc.Title
		}
		if g.Title == "" {
			g.Title = id
		}
		if g.Description == "" {
			g.Description = doc.Description
		}

		saved, err := store.Upsert(r.Context(), g)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Delete(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleEndpoints(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		doc, err := ParseDocument(g.Spec)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if r.URL.Query().Get("format") == "markdown" {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(FormatEndpointsMarkdown(doc.Endpoints)))
			return
		}
		endpoints := doc.Endpoints
		if endpoints == nil {
			endpoints = []Endpoint{}
		}
		writeJSON(w, http.StatusOK, endpoints)
	}
}

func handleImports(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		runs, err := store.ListImports(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
