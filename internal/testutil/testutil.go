// Package testutil provides shared test helpers for setting up content
// directories and draft databases.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/inkwell/internal/leads"
	"github.com/starford/inkwell/internal/storage"
)

// TestContent creates a temporary content directory with a storage.FS.
func TestContent(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes a raw document named slug+".mdx" into dir.
func WriteFile(t *testing.T, dir, slug, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, slug+".mdx"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// PostDoc builds a YAML-headed document. Empty values are left out.
func PostDoc(title, date, category string, tags []string, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	if title != "" {
		fmt.Fprintf(&b, "title: %q\n", title)
	}
	if date != "" {
		fmt.Fprintf(&b, "date: %s\n", date)
	}
	if category != "" {
		fmt.Fprintf(&b, "category: %q\n", category)
	}
	if len(tags) > 0 {
		b.WriteString("tags:\n")
		for _, tag := range tags {
			fmt.Fprintf(&b, "  - %q\n", tag)
		}
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String()
}

// WritePost writes a YAML-headed post into dir.
func WritePost(t *testing.T, dir, slug, date, category string, tags []string) {
	t.Helper()
	WriteFile(t, dir, slug, PostDoc(strings.ToUpper(slug), date, category, tags, "Body of "+slug+".\n"))
}

// FixedClock returns a clock that always reports ts.
func FixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

// TestDrafts creates a temporary SQLite draft store that is automatically cleaned up.
func TestDrafts(t *testing.T) *leads.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "inkwell-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := leads.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
