package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tycoonhub/pkg/models"
)

// FileStore persists the catalog as a JSON array of entries, indented for
// diffability. This is the format the static site consumes.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Get(ctx context.Context) ([]models.Game, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Game{}, nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}

	var games []models.Game
	if err := json.Unmarshal(b, &games); err != nil {
		// corrupt catalog: surface it, never pretend it is empty
		return nil, fmt.Errorf("parse catalog %s: %w", s.Path, err)
	}
	return games, nil
}

func (s *FileStore) Put(ctx context.Context, games []models.Game) error {
	if games == nil {
		games = []models.Game{}
	}
	b, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	b = append(b, '\n')

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure catalog dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, b, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", s.Path, err)
	}
	return nil
}
