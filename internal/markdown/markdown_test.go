package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New(false)

	out, err := r.Render([]byte("# Terminology APIs\n\nBrowse the **snomed** group.\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<h1 id="terminology-apis">Terminology APIs</h1>`)
	assert.Contains(t, string(out), "<strong>snomed</strong>")
}

func TestRenderBlank(t *testing.T) {
	out, err := New(false).Render([]byte("  \n\t"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRenderDropsRawHTMLUnlessUnsafe(t *testing.T) {
	src := []byte("before\n\n<script>alert(1)</script>\n")

	safe, err := New(false).Render(src)
	require.NoError(t, err)
	assert.NotContains(t, string(safe), "<script>")

	unsafe, err := New(true).Render(src)
	require.NoError(t, err)
	assert.Contains(t, string(unsafe), "<script>alert(1)</script>")
}

func TestRenderHighlightsCode(t *testing.T) {
	out, err := New(false).Render([]byte("```json\n{\"items\": []}\n```\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<pre")
	assert.Contains(t, string(out), "items")
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.md")
	require.NoError(t, os.WriteFile(path, []byte("# Terminology APIs\n\nHello *portal*"), 0o644))

	out, title, err := New(false).RenderFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<em>portal</em>")
	assert.Equal(t, "Terminology APIs", title)

	_, _, err = New(false).RenderFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "SNOMED CT", Title([]byte("intro\n# SNOMED CT\n## Concepts"), "snomed"))
	assert.Equal(t, "snomed", Title([]byte("no heading here"), "snomed"))
}
