package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/inkwell/internal/apperr"
)

// AssetDir is a flat directory of files referenced by posts, such as the
// images named in front matter.
type AssetDir struct {
	root string
}

// NewAssetDir creates an AssetDir rooted at root. The directory is created
// on first save.
func NewAssetDir(root string) (*AssetDir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve assets root: %w", err)
	}
	return &AssetDir{root: abs}, nil
}

// Root returns the absolute assets directory.
func (a *AssetDir) Root() string { return a.root }

func (a *AssetDir) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("storage: asset name %q: %w", name, apperr.ErrInvalid)
	}
	return filepath.Join(a.root, name), nil
}

// Save writes a new asset. An existing name yields apperr.ErrAlreadyExists.
func (a *AssetDir) Save(name string, data []byte) error {
	abs, err := a.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.root, 0o755); err != nil {
		return fmt.Errorf("storage: create assets dir: %w", err)
	}
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("storage: asset %s: %w", name, apperr.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("storage: create asset: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(abs)
		return fmt.Errorf("storage: write asset: %w", err)
	}
	return f.Close()
}
