package scanner

import (
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fjglira/specrunner/internal/domain"
)

// Scanner discovers suite documents in the project tree.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan walks rootDir and returns sorted file paths matching any of the given
// glob patterns while excluding paths that match any exclude pattern.
// Patterns are matched against the slash-separated path relative to rootDir.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(rootDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := relative(rootDir, p)
		if d.IsDir() {
			return s.enter(rel, excludes)
		}
		if !matchAny(rel, excludes) && matchAny(rel, patterns) {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(found)
	return found, nil
}

// enter decides whether the walk descends into the directory rel.
func (s *FileScanner) enter(rel string, excludes []string) error {
	switch {
	case rel == ".":
		return nil
	case !s.Recursive, matchAny(rel, excludes):
		return filepath.SkipDir
	default:
		return nil
	}
}

func relative(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	return filepath.ToSlash(rel)
}

// matchAny matches the full relative path, and also the base name so that
// "*.md" finds nested files.
func matchAny(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
