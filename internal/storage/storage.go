package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fjglira/specrunner/internal/domain"
)

// Storage persists and loads run summaries.
type Storage interface {
	Save(summary domain.RunSummary) error
	Load() (domain.RunSummary, error)
}

// JSONStorage stores a summary as an indented JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage backed by the file at path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the backing file.
func (s *JSONStorage) Path() string {
	return s.path
}

// Save writes the summary, creating parent directories as needed.
func (s *JSONStorage) Save(summary domain.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return domain.NewError("storage", s.path, 0, "failed to marshal summary", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return domain.NewError("storage", s.path, 0, "failed to create output directory", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return domain.NewError("storage", s.path, 0, "failed to write summary", err)
	}
	return nil
}

// Load reads a summary written by Save.
func (s *JSONStorage) Load() (domain.RunSummary, error) {
	var summary domain.RunSummary
	data, err := os.ReadFile(s.path)
	if err != nil {
		return summary, domain.NewError("storage", s.path, 0, "failed to read summary", err)
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		return summary, domain.NewError("storage", s.path, 0, "failed to parse summary", err)
	}
	return summary, nil
}
