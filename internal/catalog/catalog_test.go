package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docviewer/internal/apidoc"
	"github.com/ziadkadry99/docviewer/internal/config"
	"github.com/ziadkadry99/docviewer/internal/db"
	"github.com/ziadkadry99/docviewer/internal/progress"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

const minimalSpec = `{"openapi":"3.0.0","info":{"title":"FHIR API","description":"FHIR resources"},"paths":{"/Patient":{"get":{"summary":"Search patients"}}}}`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func newImporter(store *Store) *Importer {
	cfg := config.DefaultConfig()
	return &Importer{
		Store:       store,
		Include:     cfg.Catalog.Include,
		Exclude:     cfg.Catalog.Exclude,
		AdminGroups: cfg.Catalog.AdminGroups,
		Logger:      zerolog.Nop(),
	}
}

func TestStoreUpsertGetList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, Group{ID: "snomed", Title: "SNOMED CT", Position: 2, Format: FormatJSON, Spec: []byte(minimalSpec)})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, Group{ID: "core", Title: "Core", Position: 1, Format: FormatJSON, Spec: []byte(minimalSpec)})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, Group{ID: "admin", Title: "Admin", Admin: true, Format: FormatJSON, Spec: []byte(minimalSpec)})
	require.NoError(t, err)

	public, err := store.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "core", public[0].ID)
	assert.Equal(t, "snomed", public[1].ID)
	assert.Nil(t, public[0].Spec, "List does not load documents")

	admin, err := store.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, admin, 1)
	assert.True(t, admin[0].Admin)

	g, err := store.Get(ctx, "snomed")
	require.NoError(t, err)
	assert.Equal(t, "SNOMED CT", g.Title)
	assert.Equal(t, FormatJSON, g.Format)
	assert.JSONEq(t, minimalSpec, string(g.Spec))

	// Upsert replaces.
	_, err = store.Upsert(ctx, Group{ID: "snomed", Title: "SNOMED CT International", Format: FormatJSON, Spec: []byte(minimalSpec)})
	require.NoError(t, err)
	g, err = store.Get(ctx, "snomed")
	require.NoError(t, err)
	assert.Equal(t, "SNOMED CT International", g.Title)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStoreGetDeleteNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)

	_, err = store.Upsert(ctx, Group{ID: "core", Title: "Core", Format: FormatJSON, Spec: []byte(minimalSpec)})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "core"))
	_, err = store.Get(ctx, "core")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRejectsInvalidGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		group Group
	}{
		{"uppercase id", Group{ID: "Core", Title: "Core", Format: FormatJSON, Spec: []byte(minimalSpec)}},
		{"id with slash", Group{ID: "a/b", Title: "Core", Format: FormatJSON, Spec: []byte(minimalSpec)}},
		{"missing title", Group{ID: "core", Format: FormatJSON, Spec: []byte(minimalSpec)}},
		{"unknown format", Group{ID: "core", Title: "Core", Format: "xml", Spec: []byte(minimalSpec)}},
		{"negative position", Group{ID: "core", Title: "Core", Position: -1, Format: FormatJSON, Spec: []byte(minimalSpec)}},
		{"empty document", Group{ID: "core", Title: "Core", Format: FormatJSON}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Upsert(ctx, tt.group)
			assert.Error(t, err)
		})
	}
}

func TestParseDocumentJSON(t *testing.T) {
	doc, err := ParseDocument([]byte(minimalSpec))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, doc.Format)
	assert.Equal(t, "3.0.0", doc.Version)
	assert.Equal(t, "FHIR API", doc.Title)
	require.Len(t, doc.Endpoints, 1)
	assert.Equal(t, "GET", doc.Endpoints[0].Method)
	assert.Equal(t, "/Patient", doc.Endpoints[0].Path)
}

func TestParseDocumentYAMLWithIntegerResponseCodes(t *testing.T) {
	src := "openapi: 3.0.1\ninfo:\n  title: SNOMED CT API\n  version: 8\npaths:\n  /concepts:\n    get:\n      summary: Search\n      responses:\n        200:\n          description: OK\n"
	doc, err := ParseDocument([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, doc.Format)
	assert.Equal(t, "8", doc.APIVersion)
	require.Len(t, doc.Endpoints, 1)
	assert.Equal(t, "OK", doc.Endpoints[0].Responses["200"])
}

func TestParseDocumentRejects(t *testing.T) {
	_, err := ParseDocument([]byte(`{"name":"package"}`))
	assert.ErrorIs(t, err, ErrNotOpenAPI)

	_, err = ParseDocument([]byte("just a string"))
	assert.ErrorIs(t, err, ErrNotOpenAPI)

	_, err = ParseDocument([]byte(`{"openapi": `))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotOpenAPI)
}

func TestFormatEndpointsMarkdown(t *testing.T) {
	assert.Equal(t, "No endpoints found.", FormatEndpointsMarkdown(nil))

	md := FormatEndpointsMarkdown([]Endpoint{
		{Method: "GET", Path: "/concepts", Summary: "Search | filter"},
		{Method: "POST", Path: "/concepts", Description: strings.Repeat("x", 100)},
	})
	assert.Contains(t, md, "| GET | `/concepts` | Search \\| filter |")
	assert.Contains(t, md, strings.Repeat("x", 77)+"...")
}

func TestGroupID(t *testing.T) {
	tests := map[string]string{
		"core.json":                 "core",
		"terminology/SNOMED.yaml":   "snomed",
		"fhir r4.yml":               "fhir-r4",
		"nested/dir/icd-10.v2.json": "icd-10.v2",
		"_private.json":             "private",
	}
	for in, want := range tests {
		assert.Equal(t, want, GroupID(in), in)
	}
}

func TestWalk(t *testing.T) {
	cfg := config.DefaultConfig()
	files, err := Walk("testdata/specs", cfg.Catalog.Include, cfg.Catalog.Exclude)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		rel = append(rel, f.RelPath)
	}
	assert.Equal(t, []string{"admin.yml", "broken.yaml", "core.json", "notes.json", "terminology/SNOMED.yaml"}, rel)

	files, err = Walk("testdata/specs", []string{"**/*.yaml"}, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)

	_, err = Walk("testdata/does-not-exist", nil, nil)
	assert.Error(t, err)
}

func TestImportDir(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result, err := newImporter(store).ImportDir(ctx, "testdata/specs")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"admin", "core", "snomed"}, result.Imported)
	assert.Equal(t, []string{"notes.json"}, result.Skipped)
	assert.Contains(t, result.Failed, "broken.yaml")
	assert.Equal(t, 3, result.Run.Imported)
	assert.NotNil(t, result.Run.FinishedAt)

	public, err := store.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "core", public[0].ID)
	assert.Equal(t, "Core API", public[0].Title)
	assert.Equal(t, "snomed", public[1].ID)

	snomed, err := store.Get(ctx, "snomed")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, snomed.Format)
	assert.Equal(t, "terminology/SNOMED.yaml", snomed.SourcePath)

	admin, err := store.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, admin, 1)
	assert.Equal(t, "Administration", admin[0].Title)

	runs, err := store.ListImports(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Skipped)
	assert.Equal(t, 1, runs[0].Failed)
}

func TestImportDirCanceled(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newImporter(store).ImportDir(ctx, "testdata/specs")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportDirLogsOneSummary(t *testing.T) {
	store := newTestStore(t)
	var buf bytes.Buffer
	im := newImporter(store)
	im.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)

	_, err := im.ImportDir(context.Background(), "testdata/specs")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), `"imported":`), buf.String())
	assert.Contains(t, buf.String(), `"message":"catalog import finished"`)
}

// cancelingReporter cancels the import once the first file is reported.
type cancelingReporter struct {
	progress.Nop
	cancel context.CancelFunc
}

func (r cancelingReporter) Update(int, string) { r.cancel() }

func TestImportDirCanceledMidWalkFinishesRun(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	im := newImporter(store)
	im.Reporter = cancelingReporter{cancel: cancel}

	_, err := im.ImportDir(ctx, "testdata/specs")
	require.ErrorIs(t, err, context.Canceled)

	runs, err := store.ListImports(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.NotNil(t, runs[0].FinishedAt, "a canceled run must not stay open")
	assert.Equal(t, 0, runs[0].Imported)
}

func TestImportSelf(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g, err := newImporter(store).ImportSelf(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, apidoc.GroupID, g.ID)
	assert.Equal(t, "docviewer API", g.Title)

	stored, err := store.Get(ctx, apidoc.GroupID)
	require.NoError(t, err)
	doc, err := ParseDocument(stored.Spec)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Endpoints)
}

func newTestRouter(t *testing.T) (*Store, http.Handler) {
	t.Helper()
	store := newTestStore(t)
	_, err := newImporter(store).ImportDir(context.Background(), "testdata/specs")
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return store, r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoutesGroupLists(t *testing.T) {
	_, h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/apis", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list viewer.GroupList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, viewer.Group{ID: "core", Title: "Core API", Description: "Code systems, value sets and concept maps."}, list.Items[0])

	w = do(t, h, http.MethodGet, "/admin/apis", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "admin", list.Items[0].ID)
}

func TestRoutesEmptyListHasItems(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, newTestStore(t))

	w := do(t, r, http.MethodGet, "/apis", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}

func TestRoutesDocuments(t *testing.T) {
	_, h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api-docs/core", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"Core API"`)

	w = do(t, h, http.MethodGet, "/api-docs?group=snomed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "SNOMED CT API")

	w = do(t, h, http.MethodGet, "/api-docs/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)

	w = do(t, h, http.MethodGet, "/api-docs", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutesUploadAndDelete(t *testing.T) {
	store, h := newTestRouter(t)

	body, _ := json.Marshal(UploadRequest{Spec: minimalSpec, Position: 5})
	w := do(t, h, http.MethodPut, "/api/catalog/groups/fhir", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, "FHIR API", saved.Title)
	assert.Equal(t, "FHIR resources", saved.Description)

	g, err := store.Get(context.Background(), "fhir")
	require.NoError(t, err)
	assert.Equal(t, 5, g.Position)

	w = do(t, h, http.MethodDelete, "/api/catalog/groups/fhir", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodDelete, "/api/catalog/groups/fhir", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutesUploadRejects(t *testing.T) {
	_, h := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"bad id", "/api/catalog/groups/Bad%20Id", `{"spec":"{}"}`},
		{"invalid json", "/api/catalog/groups/fhir", `{"spec":`},
		{"missing spec", "/api/catalog/groups/fhir", `{"title":"FHIR"}`},
		{"not openapi", "/api/catalog/groups/fhir", `{"spec":"{\"name\":\"x\"}"}`},
		{"negative position", "/api/catalog/groups/fhir", `{"spec":"{}","position":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRoutesEndpoints(t *testing.T) {
	_, h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api/catalog/groups/core/endpoints", "")
	require.Equal(t, http.StatusOK, w.Code)
	var endpoints []Endpoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &endpoints))
	require.Len(t, endpoints, 3)
	assert.Equal(t, "/codesystems", endpoints[0].Path)
	assert.Equal(t, "GET", endpoints[0].Method)
	assert.Equal(t, []string{"limit (in query)"}, endpoints[0].Parameters)

	w = do(t, h, http.MethodGet, "/api/catalog/groups/core/endpoints?format=markdown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "| POST | `/codesystems` | Create a code system |")

	w = do(t, h, http.MethodGet, "/api/catalog/groups/nope/endpoints", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutesImports(t *testing.T) {
	_, h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api/catalog/imports?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var runs []ImportRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Imported)
}

func TestNewRouterCors(t *testing.T) {
	h := NewRouter(newTestStore(t), zerolog.Nop(), []string{"https://docs.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/apis", nil)
	req.Header.Set("Origin", "https://docs.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://docs.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
