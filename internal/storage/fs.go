package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/starford/inkwell/internal/apperr"
)

// DefaultExtensions lists the document extensions recognised by NewFS when
// none are given, in lookup priority order.
var DefaultExtensions = []string{".mdx", ".md"}

// FS implements Provider backed by a single directory on the local file system.
type FS struct {
	root string   // absolute path to content directory
	exts []string // recognised extensions, priority order
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory does not have to exist: a missing root reads as an empty store.
func NewFS(root string, exts ...string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	norm := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(norm, e) {
			norm = append(norm, e)
		}
	}
	if len(norm) == 0 {
		return nil, fmt.Errorf("storage: no usable extensions in %v", exts)
	}
	return &FS{root: abs, exts: norm}, nil
}

// Root returns the absolute content directory.
func (f *FS) Root() string { return f.root }

// Extensions returns the recognised document extensions.
func (f *FS) Extensions() []string { return slices.Clone(f.exts) }

// SlugOf returns the identifier for a file name and whether the file is a
// post at all (recognised extension, not hidden).
func (f *FS) SlugOf(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(base))
	if !slices.Contains(f.exts, ext) {
		return "", false
	}
	slug := base[:len(base)-len(ext)]
	if slug == "" {
		return "", false
	}
	return slug, true
}

// safePath validates slug and returns the absolute file path for ext.
// Slugs are plain file stems; separators and traversal are rejected.
func (f *FS) safePath(slug, ext string) (string, error) {
	if slug == "" {
		return "", fmt.Errorf("storage: empty slug: %w", apperr.ErrInvalid)
	}
	// Dots inside a stem are legal ("v1.2..final"); only separators and a
	// leading dot (hidden files, "..") are refused.
	if strings.ContainsAny(slug, `/\`) || strings.HasPrefix(slug, ".") {
		return "", fmt.Errorf("storage: invalid slug %q: %w", slug, apperr.ErrInvalid)
	}
	abs := filepath.Join(f.root, slug+ext)
	// Ensure the resolved path is still under root.
	if filepath.Dir(abs) != f.root {
		return "", fmt.Errorf("storage: slug escapes content root %q: %w", slug, apperr.ErrInvalid)
	}
	return abs, nil
}

// List reads the content directory (non-recursively) and returns the
// identifiers of every recognised document, sorted and deduplicated.
func (f *FS) List() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		slug, ok := f.SlugOf(e.Name())
		if !ok {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	slices.Sort(out)
	return out, nil
}

// Read returns the raw bytes of the first document matching slug, trying
// extensions in priority order.
func (f *FS) Read(slug string) ([]byte, error) {
	for _, ext := range f.exts {
		abs, err := f.safePath(slug, ext)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(abs)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", slug, err)
		}
	}
	return nil, fmt.Errorf("storage: read %s: %w", slug, apperr.ErrNotFound)
}

// Exists reports whether a document for slug is present under any extension.
func (f *FS) Exists(slug string) (bool, error) {
	_, err := f.Read(slug)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Write atomically writes content as slug with the primary extension:
// tmp file → fsync → rename. The content directory is created if needed.
func (f *FS) Write(slug string, content []byte) error {
	abs, err := f.safePath(slug, f.exts[0])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(f.root, ".inkwell-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

var (
	_ Provider = (*FS)(nil)
	_ Writer   = (*FS)(nil)
)
