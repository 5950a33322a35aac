package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MaxDocumentSize is the largest specification document imported.
const MaxDocumentSize int64 = 16 << 20

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".docviewer":   true,
}

// SourceFile is a candidate specification document found on disk.
type SourceFile struct {
	Path    string // Absolute path on disk.
	RelPath string // Slash-separated path relative to the root.
	Size    int64
}

// Walk returns the files under root matching any include pattern and no
// exclude pattern, sorted by relative path.
func Walk(root string, include, exclude []string) ([]SourceFile, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	var files []SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if len(include) > 0 && !matchesAny(relPath, include) {
			return nil
		}
		if matchesAny(relPath, exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > MaxDocumentSize {
			return nil
		}

		files = append(files, SourceFile{Path: path, RelPath: relPath, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// matchesAny checks relPath, and its base name, against doublestar patterns.
func matchesAny(relPath string, patterns []string) bool {
	base := relPath
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		base = relPath[i+1:]
	}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// GroupID derives a group id from a document path: the lower-cased file
// stem with characters outside [a-z0-9._-] replaced by '-'.
func GroupID(relPath string) string {
	stem := filepath.Base(filepath.FromSlash(relPath))
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	stem = strings.ToLower(stem)

	var sb strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return strings.Trim(sb.String(), "-._")
}
