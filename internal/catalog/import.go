package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/apidoc"
	"github.com/ziadkadry99/docviewer/internal/progress"
)

// Importer loads specification documents from disk into the catalog.
type Importer struct {
	Store       *Store
	Include     []string
	Exclude     []string
	AdminGroups []string
	Reporter    progress.Reporter
	Logger      zerolog.Logger
}

// ImportResult summarizes one ImportDir call.
type ImportResult struct {
	Run      *ImportRun        `json:"run"`
	Imported []string          `json:"imported"`
	Skipped  []string          `json:"skipped,omitempty"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// ImportDir imports every matching document under dir. Files that are not
// OpenAPI documents are skipped; files that fail to parse or validate are
// reported in Failed and do not abort the import.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*ImportResult, error) {
	files, err := Walk(dir, im.Include, im.Exclude)
	if err != nil {
		return nil, err
	}

	run, err := im.Store.StartImport(ctx, dir)
	if err != nil {
		return nil, err
	}
	result := &ImportResult{Run: run, Imported: []string{}, Failed: map[string]string{}}

	reporter := im.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	reporter.Start(len(files))

	seen := make(map[string]string, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			reporter.Finish()
			if ferr := im.finish(context.WithoutCancel(ctx), run, result); ferr != nil {
				im.Logger.Warn().Err(ferr).Str("run", run.ID).Msg("recording canceled import failed")
			}
			return nil, err
		}
		reporter.Update(i+1, f.RelPath)

		g, err := im.load(f, i)
		switch {
		case errors.Is(err, ErrNotOpenAPI):
			result.Skipped = append(result.Skipped, f.RelPath)
			im.Logger.Debug().Str("file", f.RelPath).Msg("skipping non-OpenAPI file")
			continue
		case err != nil:
			result.Failed[f.RelPath] = err.Error()
			im.Logger.Warn().Err(err).Str("file", f.RelPath).Msg("import failed")
			continue
		}

		if prev, dup := seen[g.ID]; dup {
			result.Failed[f.RelPath] = fmt.Sprintf("group id %q already imported from %s", g.ID, prev)
			continue
		}
		seen[g.ID] = f.RelPath

		if _, err := im.Store.Upsert(ctx, *g); err != nil {
			result.Failed[f.RelPath] = err.Error()
			im.Logger.Warn().Err(err).Str("file", f.RelPath).Msg("import failed")
			continue
		}
		result.Imported = append(result.Imported, g.ID)
	}
	reporter.Finish()

	if err := im.finish(ctx, run, result); err != nil {
		return nil, err
	}

	im.Logger.Info().
		Str("dir", dir).
		Int("imported", run.Imported).
		Int("skipped", run.Skipped).
		Int("failed", run.Failed).
		Msg("catalog import finished")
	return result, nil
}

// finish stores the counters collected so far and closes the run.
func (im *Importer) finish(ctx context.Context, run *ImportRun, result *ImportResult) error {
	run.Imported = len(result.Imported)
	run.Skipped = len(result.Skipped)
	run.Failed = len(result.Failed)
	return im.Store.FinishImport(ctx, run)
}

func (im *Importer) load(f SourceFile, position int) (*Group, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.RelPath, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	id := GroupID(f.RelPath)
	g := &Group{
		ID:          id,
		Title:       doc.Title,
		Description: doc.Description,
		Admin:       im.isAdmin(id),
		Position:    position,
		Format:      doc.Format,
		Spec:        data,
		SourcePath:  f.RelPath,
	}
	if g.Title == "" {
		g.Title = id
	}
	if err := Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (im *Importer) isAdmin(id string) bool {
	for _, a := range im.AdminGroups {
		if a == id {
			return true
		}
	}
	return false
}

const selfPosition = 1000

// ImportSelf stores the portal's own API document as group apidoc.GroupID,
// listed after the imported groups.
func (im *Importer) ImportSelf(ctx context.Context, version string) (*Group, error) {
	data, err := apidoc.Document(version)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing api document: %w", err)
	}
	return im.Store.Upsert(ctx, Group{
		ID:          apidoc.GroupID,
		Title:       doc.Title,
		Description: doc.Description,
		Admin:       im.isAdmin(apidoc.GroupID),
		Position:    selfPosition,
		Format:      doc.Format,
		Spec:        data,
	})
}
