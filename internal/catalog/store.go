package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docviewer/internal/db"
	"github.com/ziadkadry99/docviewer/internal/metrics"
)

// Store manages persistence of API groups and import runs.
type Store struct {
	db *db.DB
}

// NewStore creates a new catalog store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Upsert inserts or replaces a group. The group is validated first.
func (s *Store) Upsert(ctx context.Context, g Group) (*Group, error) {
	if err := Validate(&g); err != nil {
		return nil, err
	}
	g.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_groups (id, title, description, admin, position, format, spec, source_path, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   description = excluded.description,
		   admin = excluded.admin,
		   position = excluded.position,
		   format = excluded.format,
		   spec = excluded.spec,
		   source_path = excluded.source_path,
		   updated_at = excluded.updated_at`,
		g.ID, g.Title, g.Description, g.Admin, g.Position, string(g.Format), g.Spec, g.SourcePath, g.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting group %s: %w", g.ID, err)
	}
	s.refreshGauge(ctx)
	return &g, nil
}

// Get retrieves a group, including its specification document.
func (s *Store) Get(ctx context.Context, id string) (*Group, error) {
	var g Group
	var format string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, admin, position, format, spec, source_path, updated_at
		 FROM api_groups WHERE id = ?`, id,
	).Scan(&g.ID, &g.Title, &g.Description, &g.Admin, &g.Position, &format, &g.Spec, &g.SourcePath, &g.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting group %s: %w", id, err)
	}
	g.Format = Format(format)
	return &g, nil
}

// List returns the groups with the given admin flag in display order.
// Specification documents are not loaded.
func (s *Store) List(ctx context.Context, admin bool) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, admin, position, format, source_path, updated_at
		 FROM api_groups WHERE admin = ? ORDER BY position, id`, admin,
	)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	groups := []Group{}
	for rows.Next() {
		var g Group
		var format string
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Admin, &g.Position, &format, &g.SourcePath, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		g.Format = Format(format)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Delete removes a group.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting group %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting group %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.refreshGauge(ctx)
	return nil
}

// Count returns the number of stored groups.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_groups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting groups: %w", err)
	}
	return n, nil
}

func (s *Store) refreshGauge(ctx context.Context) {
	if n, err := s.Count(ctx); err == nil {
		metrics.CatalogGroups.Set(float64(n))
	}
}

// StartImport records the start of a directory import.
func (s *Store) StartImport(ctx context.Context, dir string) (*ImportRun, error) {
	run := ImportRun{
		ID:        uuid.New().String(),
		Dir:       dir,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_imports (id, dir, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Dir, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("recording import: %w", err)
	}
	return &run, nil
}

// FinishImport stores the counters of a completed import.
func (s *Store) FinishImport(ctx context.Context, run *ImportRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	_, err := s.db.ExecContext(ctx,
		`UPDATE catalog_imports SET finished_at = ?, imported = ?, skipped = ?, failed = ? WHERE id = ?`,
		now, run.Imported, run.Skipped, run.Failed, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing import %s: %w", run.ID, err)
	}
	return nil
}

// ListImports returns the most recent import runs, newest first.
func (s *Store) ListImports(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dir, started_at, finished_at, imported, skipped, failed
		 FROM catalog_imports ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	runs := []ImportRun{}
	for rows.Next() {
		var run ImportRun
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Dir, &run.StartedAt, &finished, &run.Imported, &run.Skipped, &run.Failed); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
