package sprites

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"coinlings/internal/domain/models"
)

// FS reads sprites from a directory that contains sprites/coinling-sprites/<rarity>/.
type FS struct {
	root string
}

func NewFS(root string) *FS {
	return &FS{root: root}
}

// List returns the sprites of one rarity. A missing folder is an empty list.
func (s *FS) List(_ context.Context, r models.Rarity) ([]string, error) {
	const op = "sprites.FS.List"

	dir := filepath.Join(s.root, filepath.FromSlash(rarityPrefix(r)))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	return publicPaths(r, names), nil
}
